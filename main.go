package main

import (
	"os"

	"github.com/LumeraProtocol/codegen/cmd"
)

var (
	// Build-time variables set by go build -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := cmd.Execute(Version, GitCommit, BuildTime); err != nil {
		os.Exit(1)
	}
}
