// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the layout constants the Activation Engine and
// Emission Pipeline are parameterized by, layering defaults, an optional
// YAML file, and CHARTCORE_* environment overrides.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout holds every constant the rendering geometry depends on.
type Layout struct {
	BaseResW        float64 `yaml:"base_res_w"`
	BaseResH        float64 `yaml:"base_res_h"`
	JudgeLineBottom float64 `yaml:"judge_line_below_from_bottom"`
	JudgeLineSide   float64 `yaml:"judge_line_side_from_edge"`
	ActivationAhead float64 `yaml:"activation_ahead_pixels"`
	HoldBGLightness float64 `yaml:"hold_bg_lightness"`

	NoteIDLength                     int `yaml:"note_id_length"`
	NotesArrayParallelSortThreshold  int `yaml:"notes_array_parallel_sort_threshold"`
	MultithreadRenderingThreshold    int `yaml:"multithread_rendering_threshold"`
	BytesPerQuad                     int `yaml:"bytes_per_quad"`
}

// Default returns the spec's built-in layout constants.
func Default() Layout {
	return Layout{
		BaseResW:                        1920,
		BaseResH:                        1080,
		JudgeLineBottom:                 200,
		JudgeLineSide:                   250,
		ActivationAhead:                 100,
		HoldBGLightness:                 0.3,
		NoteIDLength:                    9,
		NotesArrayParallelSortThreshold: 10000,
		MultithreadRenderingThreshold:   10000,
		BytesPerQuad:                    120,
	}
}

// Load builds a Layout from, in increasing precedence: the built-in
// defaults, an optional YAML file at path (skipped if path is empty or
// the file does not exist), and CHARTCORE_* environment variables.
func Load(path string) (Layout, error) {
	l := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Layout{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else {
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(&l); err != nil {
				if strings.Contains(err.Error(), "field") {
					return Layout{}, fmt.Errorf("config: parse %s: %w: %v", path, ErrUnknownConfigField, err)
				}
				return Layout{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnvFloat(&l.BaseResW, "CHARTCORE_BASE_RES_W")
	applyEnvFloat(&l.BaseResH, "CHARTCORE_BASE_RES_H")
	applyEnvFloat(&l.JudgeLineBottom, "CHARTCORE_JUDGE_LINE_BELOW_FROM_BOTTOM")
	applyEnvFloat(&l.JudgeLineSide, "CHARTCORE_JUDGE_LINE_SIDE_FROM_EDGE")
	applyEnvFloat(&l.ActivationAhead, "CHARTCORE_ACTIVATION_AHEAD_PIXELS")
	applyEnvFloat(&l.HoldBGLightness, "CHARTCORE_HOLD_BG_LIGHTNESS")
	applyEnvInt(&l.NoteIDLength, "CHARTCORE_NOTE_ID_LENGTH")
	applyEnvInt(&l.NotesArrayParallelSortThreshold, "CHARTCORE_NOTES_ARRAY_PARALLEL_SORT_THRESHOLD")
	applyEnvInt(&l.MultithreadRenderingThreshold, "CHARTCORE_MULTITHREAD_RENDERING_THRESHOLD")
	applyEnvInt(&l.BytesPerQuad, "CHARTCORE_BYTES_PER_QUAD")

	return l, nil
}

func applyEnvFloat(dst *float64, key string) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*dst = v
	}
}

func applyEnvInt(dst *int, key string) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*dst = v
	}
}
