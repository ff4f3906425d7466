// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/notecore/chartcore/internal/activation"
	"github.com/notecore/chartcore/internal/config"
	"github.com/notecore/chartcore/internal/emission"
	"github.com/notecore/chartcore/internal/notestore"
	"github.com/notecore/chartcore/internal/spritecatalog"
)

var benchEmitCount int

func init() {
	benchEmitCmd.Flags().IntVar(&benchEmitCount, "count", 20000, "number of notes to emit")
}

func devkitCatalog() *spritecatalog.Catalog {
	cat := spritecatalog.New()
	normal := func(name string, w, h float64) spritecatalog.Sprite {
		return spritecatalog.Sprite{Name: name, Size: [2]float64{w, h}, UV0: [2]float64{0, 0}, UV1: [2]float64{1, 1}, Draw: spritecatalog.DrawSetting{Kind: spritecatalog.DrawNormal}}
	}
	repeat := func(name string, w, h float64) spritecatalog.Sprite {
		return spritecatalog.Sprite{Name: name, Size: [2]float64{w, h}, UV0: [2]float64{0, 0}, UV1: [2]float64{1, 1}, Draw: spritecatalog.DrawSetting{Kind: spritecatalog.DrawRepeatVertical}}
	}
	cat.Put(normal("sprNote", 64, 64))
	cat.Put(normal("sprChain", 48, 48))
	cat.Put(normal("sprHoldEdge", 64, 32))
	cat.Put(repeat("sprHold", 64, 16))
	cat.Put(repeat("sprHoldGrey", 64, 16))
	return cat
}

var benchEmitCmd = &cobra.Command{
	Use:   "bench-emit",
	Short: "Time a full three-pass Emission Pipeline render over a generated frame",
	RunE: func(cmd *cobra.Command, args []string) error {
		layout := config.Default()
		store := notestore.New()
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < benchEmitCount; i++ {
			n := notestore.Note{ID: fmt.Sprintf("E%08d", i), Time: rng.Float64() * 60000, Position: rng.Float64() * 5}
			switch rng.Intn(3) {
			case 0:
				n.Type = notestore.TypeTap
			case 1:
				n.Type = notestore.TypeChain
			default:
				n.Type = notestore.TypeHold
				n.LastTime = 100 + rng.Float64()*1500
			}
			if err := store.Create(n); err != nil {
				return err
			}
		}

		eng := activation.New(store, activation.Config{
			BaseResW: layout.BaseResW, BaseResH: layout.BaseResH,
			JudgeLineBottom: layout.JudgeLineBottom, JudgeLineSide: layout.JudgeLineSide,
			ActivationAhead: layout.ActivationAhead,
		})
		eng.SetRange(30000, 0.5)
		if err := eng.Recalculate(); err != nil {
			return err
		}

		lists := emission.ActiveLists{
			ActiveNotes:  eng.ActiveNotes(),
			ActiveHolds:  eng.ActiveHolds(),
			LastingHolds: eng.LastingHolds(),
		}

		geom := emission.Geometry{
			BaseResW: layout.BaseResW, BaseResH: layout.BaseResH,
			JudgeLineBottom: layout.JudgeLineBottom, JudgeLineSide: layout.JudgeLineSide,
		}
		names := emission.SpriteNames{Tap: "sprNote", Chain: "sprChain", HoldBar: "sprHold", HoldEdge: "sprHoldEdge", HoldBG: "sprHoldGrey"}
		pipe := emission.NewPipeline(devkitCatalog(), store, geom, names, layout.MultithreadRenderingThreshold)

		bound, err := pipe.VertexBufferBound(lists)
		if err != nil {
			return err
		}

		start := time.Now()
		total := 0
		for pass := 0; pass < 3; pass++ {
			buf := make([]byte, bound)
			n, err := pipe.Render(context.Background(), buf, pass, 30000, 0.5, lists)
			if err != nil {
				return err
			}
			total += n
		}
		elapsed := time.Since(start)

		fmt.Printf("emitted %d bytes across 3 passes for %d active notes in %s (bound=%d)\n", total, len(lists.ActiveNotes), elapsed, bound)
		return nil
	},
}
