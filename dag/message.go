// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dag

import (
	"github.com/luxfi/txflow/types"
	"github.com/luxfi/txflow/utils/set"
	"github.com/luxfi/txflow/witness"
)

// Message is the runtime wrapper around a signed message: the wire data
// plus resolved parent references and the attributes derived locally.
// Parents never change after ingestion.
type Message struct {
	Data    types.SignedMessageData
	Parents []*Message

	// ComputedHash is the canonical hash of Data.Body, recomputed
	// locally.
	ComputedHash types.StructHash

	// ComputedEpoch is derived from the parents' epochs and the witness
	// schedule.
	ComputedEpoch uint64

	// ComputedSignature is the locally regenerated signature view. Equal
	// to Data.OwnerSig on accepted messages; real regeneration is an
	// extension point of the signing layer.
	ComputedSignature uint64
}

func newMessage(data types.SignedMessageData) *Message {
	return &Message{
		Data: data,
	}
}

// init derives the message's attributes. It must run after Parents is
// populated and is a pure function of the parents' computed epochs, the
// owner, the starting epoch and the witness schedule.
func (m *Message) init(startingEpoch uint64, selector witness.Selector) {
	m.ComputedHash = types.HashBody(&m.Data.Body)
	m.ComputedEpoch = m.computeEpoch(startingEpoch, selector)
	m.ComputedSignature = m.Data.OwnerSig
}

// computeEpoch returns the smallest epoch consistent with the parents:
// the maximum parent epoch (floored at startingEpoch), advanced by one
// when the author (if it is a witness of that epoch) together with the
// owners of direct parents carrying that epoch form a >2/3 supermajority
// of its witnesses.
func (m *Message) computeEpoch(startingEpoch uint64, selector witness.Selector) uint64 {
	if len(m.Parents) == 0 {
		return startingEpoch
	}

	epoch := startingEpoch
	for _, p := range m.Parents {
		if p.ComputedEpoch > epoch {
			epoch = p.ComputedEpoch
		}
	}

	witnesses := selector.EpochWitnesses(epoch)
	if witnesses.Len() == 0 {
		return epoch
	}

	// The author's own endorsement of the epoch counts alongside the
	// parents it references.
	approvals := set.NewSet[types.UID](len(m.Parents) + 1)
	if witnesses.Contains(m.Data.Body.OwnerUID) {
		approvals.Add(m.Data.Body.OwnerUID)
	}
	for _, p := range m.Parents {
		owner := p.Data.Body.OwnerUID
		if p.ComputedEpoch == epoch && witnesses.Contains(owner) {
			approvals.Add(owner)
		}
	}
	if 3*approvals.Len() > 2*witnesses.Len() {
		epoch++
	}
	return epoch
}

// assumeComputedHashEpoch lifts the derived epoch into the body and
// restamps the hash over the final body. Only used on messages freshly
// synthesized by the local owner, whose body carries placeholder values.
func (m *Message) assumeComputedHashEpoch() {
	m.Data.Body.Epoch = m.ComputedEpoch
	m.ComputedHash = types.HashBody(&m.Data.Body)
	m.Data.Hash = m.ComputedHash
}
