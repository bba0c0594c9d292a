// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package witnesstest provides a fixed-schedule witness selector for
// tests.
package witnesstest

import (
	"github.com/luxfi/txflow/types"
	"github.com/luxfi/txflow/utils/set"
)

// Selector serves a hand-written epoch schedule.
type Selector struct {
	Schedule map[uint64]set.Set[types.UID]
}

// NewSelector returns a selector with the standard four-epoch test
// schedule: epoch e has witnesses {e, e+1, e+2, e+3}.
func NewSelector() *Selector {
	return &Selector{
		Schedule: map[uint64]set.Set[types.UID]{
			0: set.Of[types.UID](0, 1, 2, 3),
			1: set.Of[types.UID](1, 2, 3, 4),
			2: set.Of[types.UID](2, 3, 4, 5),
			3: set.Of[types.UID](3, 4, 5, 6),
		},
	}
}

func (s *Selector) EpochWitnesses(epoch uint64) set.Set[types.UID] {
	return s.Schedule[epoch]
}

func (s *Selector) EpochLeader(epoch uint64) types.UID {
	var leader types.UID
	first := true
	for w := range s.Schedule[epoch] {
		if first || w < leader {
			leader = w
			first = false
		}
	}
	return leader
}

func (s *Selector) RandomWitness(uint64) types.UID {
	panic("not implemented")
}
