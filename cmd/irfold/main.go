// cmd/irfold/main.go
package main

import (
	"irfold/internal/appshell"
	"irfold/internal/cli"
)

func main() {
	appshell.Main(cli.Run)
}
