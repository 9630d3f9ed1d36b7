// Package version carries the build version, set with
// -ldflags "-X irfold/internal/version.Version=v1.2.3".
package version

var Version = "dev"

// String is the version shown by --version.
func String() string { return Version }
