// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/notecore/chartcore/internal/notestore"
)

var (
	seedCount int
	seedOut   string
	seedSeed  int64
)

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 1000, "number of notes to generate")
	seedCmd.Flags().StringVar(&seedOut, "out", "", "output file (default: stdout)")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 1, "PRNG seed for reproducible fixtures")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a note store fixture and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := notestore.New()
		rng := rand.New(rand.NewSource(seedSeed))

		for i := 0; i < seedCount; i++ {
			n := notestore.Note{
				ID:       fmt.Sprintf("SEED%05d", i),
				Side:     notestore.Side(rng.Intn(3)),
				Time:     rng.Float64() * 300000,
				Position: rng.Float64() * 5,
				Width:    0.5 + rng.Float64(),
			}
			if rng.Intn(4) == 0 {
				n.Type = notestore.TypeHold
				n.LastTime = 100 + rng.Float64()*2000
			} else if rng.Intn(3) == 0 {
				n.Type = notestore.TypeChain
			}
			if err := store.Create(n); err != nil {
				return fmt.Errorf("seed: create note %d: %w", i, err)
			}
		}
		store.Sort()

		out := os.Stdout
		if seedOut != "" {
			f, err := os.Create(seedOut)
			if err != nil {
				return fmt.Errorf("seed: open %s: %w", seedOut, err)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(store.Snapshot(false))
	},
}
