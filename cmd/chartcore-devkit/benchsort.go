// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/notecore/chartcore/internal/notestore"
)

var benchSortCount int

func init() {
	benchSortCmd.Flags().IntVar(&benchSortCount, "count", 50000, "number of notes to sort")
}

var benchSortCmd = &cobra.Command{
	Use:   "bench-sort",
	Short: "Time Note Store Sort() over a randomly ordered fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := notestore.New()
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < benchSortCount; i++ {
			err := store.Create(notestore.Note{
				ID:   fmt.Sprintf("B%08d", i),
				Type: notestore.TypeTap,
				Time: rng.Float64() * float64(benchSortCount) * 10,
			})
			if err != nil {
				return err
			}
		}

		start := time.Now()
		store.Sort()
		elapsed := time.Since(start)

		fmt.Printf("sorted %d notes in %s (%.0f notes/ms)\n", benchSortCount, elapsed, float64(benchSortCount)/float64(elapsed.Milliseconds()+1))
		return nil
	},
}
