// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package witness defines the witness-selection schedule consumed by the
// TxFlow DAG. The schedule maps each epoch to its witness set and leader;
// the DAG uses it to derive message epochs deterministically.
package witness

import (
	"github.com/luxfi/txflow/types"
	"github.com/luxfi/txflow/utils/set"
)

// Selector answers which participants act as witnesses for an epoch.
// Implementations must be pure: the same epoch always yields the same
// answer on every honest node.
type Selector interface {
	// EpochWitnesses returns the witness set at [epoch].
	EpochWitnesses(epoch uint64) set.Set[types.UID]

	// EpochLeader returns the leader at [epoch], conventionally the
	// minimum UID in the witness set.
	EpochLeader(epoch uint64) types.UID

	// RandomWitness returns a deterministic pseudo-random witness for
	// [epoch].
	RandomWitness(epoch uint64) types.UID
}
