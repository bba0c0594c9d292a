// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sampler provides deterministic sampling sources.
package sampler

import "math/rand"

// Source is a source of randomness.
type Source interface {
	Seed(int64)
	Uint64() uint64
}

// source wraps a rand.Source to implement our Source interface.
type source struct {
	*rand.Rand
}

// NewSource returns a new Source with the given seed. The same seed
// always yields the same sequence.
func NewSource(seed int64) Source {
	return &source{
		Rand: rand.New(rand.NewSource(seed)),
	}
}

// Index returns a deterministic index in [0, count) drawn from a source
// seeded with [seed]. count must be positive.
func Index(seed int64, count int) int {
	src := NewSource(seed)
	return int(src.Uint64() % uint64(count))
}
