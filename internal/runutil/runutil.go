// internal/runutil/runutil.go
package runutil

import "runtime"

// ResolveJobs picks the batch worker count. jobs <= 0 means one worker per
// CPU; the result never exceeds the number of records (but is at least 1).
func ResolveJobs(jobs, records int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if records > 0 && jobs > records {
		jobs = records
	}
	return max(jobs, 1)
}

// ValidateFinder checks a finder selection and returns warnings for
// settings that are accepted but ignored. Rules:
//   - kind "native" cannot honour mismatches (the engine rejects them).
//   - a tool path is ignored by the native finder.
func ValidateFinder(kind, path string, mismatches int) []string {
	var warns []string
	if kind != "native" {
		return nil
	}
	if path != "" {
		warns = append(warns, "warning: --finder-path is ignored by the native finder")
	}
	if mismatches > 0 {
		warns = append(warns, "warning: the native finder does not support --mismatches; use --finder iupacpal")
	}
	return warns
}

// NeedCandidates tells the output layer whether to render candidate motifs.
// Text output lists them only when verbose; json and jsonl always carry them.
func NeedCandidates(output string, verbose bool) bool {
	if output == "text" {
		return verbose
	}
	return true
}
