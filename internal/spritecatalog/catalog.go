// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package spritecatalog

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/notecore/chartcore/internal/coreerr"
)

// Catalog is an immutable-after-population name-to-Sprite map. The zero
// value is not ready for use; call New.
type Catalog struct {
	mu      sync.RWMutex
	sprites map[string]Sprite
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{sprites: make(map[string]Sprite)}
}

// Put registers or replaces a sprite descriptor.
func (c *Catalog) Put(s Sprite) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sprites[s.Name] = s
}

// Get returns a copy of the named sprite descriptor.
func (c *Catalog) Get(name string) (Sprite, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sprites[name]
	if !ok {
		return Sprite{}, coreerr.ErrNotFound
	}
	return s, nil
}

// Len returns the number of registered sprites.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sprites)
}

type manifest struct {
	Sprites []manifestSprite `yaml:"sprites"`
}

type manifestSprite struct {
	Name          string     `yaml:"name"`
	Size          [2]float64 `yaml:"size"`
	UV0           [2]float64 `yaml:"uv0"`
	UV1           [2]float64 `yaml:"uv1"`
	PaddingLR     float64    `yaml:"padding_lr"`
	PaddingTop    float64    `yaml:"padding_top"`
	PaddingBottom float64    `yaml:"padding_bottom"`
	Draw          struct {
		Kind   string     `yaml:"kind"`
		Seg3   [2]float64 `yaml:"seg3"`
		Seg5   [3]float64 `yaml:"seg5"`
		Slice9 [4]float64 `yaml:"slice9"`
	} `yaml:"draw"`
}

// PopulateYAML decodes a manifest of sprite descriptors and registers
// every entry. Unknown draw-setting kinds return coreerr.ErrInvalid.
func (c *Catalog) PopulateYAML(data []byte) error {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("spritecatalog: decode manifest: %w", err)
	}

	sprites := make([]Sprite, 0, len(m.Sprites))
	for _, ms := range m.Sprites {
		kind, err := parseDrawKind(ms.Draw.Kind)
		if err != nil {
			return err
		}
		sprites = append(sprites, Sprite{
			Name:          ms.Name,
			Size:          ms.Size,
			UV0:           ms.UV0,
			UV1:           ms.UV1,
			PaddingLR:     ms.PaddingLR,
			PaddingTop:    ms.PaddingTop,
			PaddingBottom: ms.PaddingBottom,
			Draw: DrawSetting{
				Kind:   kind,
				Seg3:   ms.Draw.Seg3,
				Seg5:   ms.Draw.Seg5,
				Slice9: ms.Draw.Slice9,
			},
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range sprites {
		c.sprites[s.Name] = s
	}
	return nil
}

func parseDrawKind(s string) (DrawKind, error) {
	switch s {
	case "normal":
		return DrawNormal, nil
	case "seg3":
		return DrawSeg3, nil
	case "seg5":
		return DrawSeg5, nil
	case "slice9":
		return DrawSlice9, nil
	case "repeat_vertical":
		return DrawRepeatVertical, nil
	default:
		return 0, fmt.Errorf("spritecatalog: unknown draw kind %q: %w", s, coreerr.ErrInvalid)
	}
}
