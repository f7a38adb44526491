package main

import (
	_ "embed"
	"strings"

	"github.com/mwenda/tambua/internal/cli"
	"github.com/mwenda/tambua/internal/logging"
)

//go:embed VERSION
var versionFile string

var executeCLI = cli.Execute

func run() error {
	return executeCLI(strings.TrimSpace(versionFile))
}

func main() {
	if err := run(); err != nil {
		logging.Fatal("tambua execution failed", "error", err)
	}
}
