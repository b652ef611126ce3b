package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"symptom-triage/internal/cli"
)

func main() {
	root := cli.NewRootCmd(cli.Options{Verbose: isVerbose()})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("TRIAGE_DEBUG"), "1") || strings.EqualFold(os.Getenv("TRIAGE_DEBUG"), "true")
}
