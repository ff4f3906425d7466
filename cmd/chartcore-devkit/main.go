// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command chartcore-devkit exercises the core's packages directly, for
// engine maintainers who want to seed fixtures, benchmark hot paths, or
// inspect a running diagnostics server without attaching a debugger.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	chartlog "github.com/notecore/chartcore/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "chartcore-devkit",
	Short: "Developer tooling for the chartcore engine",
}

func init() {
	rootCmd.AddCommand(seedCmd, benchSortCmd, benchEmitCmd, inspectCmd)
}

func main() {
	_ = chartlog.Configure(chartlog.Config{Level: "warn", Service: "chartcore-devkit"})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
