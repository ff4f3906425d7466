// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/notecore/chartcore/internal/diagnostics"
)

var (
	inspectHost string
	inspectJSON bool
)

func init() {
	inspectCmd.Flags().StringVar(&inspectHost, "host", "http://localhost:8088", "diagnostics server base URL")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the raw JSON snapshot")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Fetch a store snapshot from a running diagnostics server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(inspectHost + "/debug/snapshot")
		if err != nil {
			return fmt.Errorf("inspect: unreachable: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("inspect: server returned HTTP %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if inspectJSON {
			fmt.Println(string(body))
			return nil
		}

		var snap diagnostics.Snapshot
		if err := json.Unmarshal(body, &snap); err != nil {
			return fmt.Errorf("inspect: decode snapshot: %w", err)
		}

		fmt.Fprintf(os.Stdout, "notes:          %d\n", snap.NoteCount)
		fmt.Fprintf(os.Stdout, "holds:          %d\n", snap.HoldOnlyCount)
		fmt.Fprintf(os.Stdout, "timing points:  %d\n", snap.TimingPointCount)
		fmt.Fprintf(os.Stdout, "note lastmod:   %d\n", snap.NoteLastModified)
		fmt.Fprintf(os.Stdout, "timing lastmod: %d\n", snap.TimingLastModified)
		fmt.Fprintf(os.Stdout, "vertex bound:   %d\n", snap.LastVertexBufferBound)
		return nil
	},
}
