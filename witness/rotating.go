// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package witness

import (
	"sort"

	"github.com/luxfi/txflow/types"
	"github.com/luxfi/txflow/utils/sampler"
	"github.com/luxfi/txflow/utils/set"
)

// RotatingSelector schedules witnesses as a sliding window over a fixed
// participant list: the window advances one participant per epoch and
// wraps around. The leader is the minimum UID in the window.
type RotatingSelector struct {
	participants []types.UID
	windowSize   int
}

// NewRotatingSelector returns a selector over [participants] with
// [windowSize] witnesses per epoch. The participant list is copied and
// sorted; windowSize is capped at the participant count.
func NewRotatingSelector(participants []types.UID, windowSize int) *RotatingSelector {
	sorted := make([]types.UID, len(participants))
	copy(sorted, participants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if windowSize > len(sorted) {
		windowSize = len(sorted)
	}
	return &RotatingSelector{
		participants: sorted,
		windowSize:   windowSize,
	}
}

func (s *RotatingSelector) EpochWitnesses(epoch uint64) set.Set[types.UID] {
	witnesses := set.NewSet[types.UID](s.windowSize)
	n := uint64(len(s.participants))
	if n == 0 {
		return witnesses
	}
	for i := 0; i < s.windowSize; i++ {
		witnesses.Add(s.participants[(epoch+uint64(i))%n])
	}
	return witnesses
}

func (s *RotatingSelector) EpochLeader(epoch uint64) types.UID {
	witnesses := s.EpochWitnesses(epoch)
	var leader types.UID
	first := true
	for w := range witnesses {
		if first || w < leader {
			leader = w
			first = false
		}
	}
	return leader
}

func (s *RotatingSelector) RandomWitness(epoch uint64) types.UID {
	witnesses := s.EpochWitnesses(epoch).List()
	sort.Slice(witnesses, func(i, j int) bool { return witnesses[i] < witnesses[j] })
	return witnesses[sampler.Index(int64(epoch), len(witnesses))]
}
