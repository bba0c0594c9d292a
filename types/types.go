// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types defines the data model shared by the TxFlow DAG and its
// collaborators: participant identifiers, content-addressed message
// hashes, endorsements and the signed message envelope.
package types

import (
	"sort"

	"github.com/luxfi/crypto/hashing"
	"github.com/luxfi/ids"

	"github.com/luxfi/txflow/utils/wrappers"
)

// UID is a stable participant identifier.
type UID uint64

// StructHash is the canonical content hash of a message body.
type StructHash = ids.ID

// Endorsement is an attestation by the owner referencing a past message.
// The DAG passes endorsements through verbatim.
type Endorsement struct {
	Signer UID
	Sig    []byte
}

// MessageDataBody is the signed portion of a message.
type MessageDataBody struct {
	OwnerUID UID
	// Parents holds the hashes of the direct predecessors. Order is not
	// significant; the canonical encoding sorts them.
	Parents []StructHash
	// Epoch is the epoch claimed by the owner. It must match the epoch
	// the DAG derives locally.
	Epoch        uint64
	Payload      Payload
	Endorsements []Endorsement
}

// SignedMessageData is a message as it travels on the wire: the body plus
// the owner's signature over the canonical hash of the body.
type SignedMessageData struct {
	OwnerSig uint64
	Hash     StructHash
	Body     MessageDataBody
}

// SortedParents returns the parent hashes in canonical (ascending) order
// without mutating the body.
func (b *MessageDataBody) SortedParents() []StructHash {
	parents := make([]StructHash, len(b.Parents))
	copy(parents, b.Parents)
	sort.Slice(parents, func(i, j int) bool {
		return parents[i].Compare(parents[j]) < 0
	})
	return parents
}

// Bytes returns the canonical encoding of the body. Two bodies that differ
// only in parent order encode identically.
func (b *MessageDataBody) Bytes() []byte {
	var payload []byte
	if b.Payload != nil {
		payload = b.Payload.Bytes()
	}

	size := 8 + 4 + len(b.Parents)*ids.IDLen + 8 + 4 + len(payload)
	p := wrappers.NewPacker(size)

	p.PackLong(uint64(b.OwnerUID))
	p.PackInt(uint32(len(b.Parents)))
	for _, parent := range b.SortedParents() {
		p.PackBytes(parent[:])
	}
	p.PackLong(b.Epoch)
	p.PackBytesWithLen(payload)
	p.PackInt(uint32(len(b.Endorsements)))
	for _, e := range b.Endorsements {
		p.PackLong(uint64(e.Signer))
		p.PackBytesWithLen(e.Sig)
	}
	return p.Bytes
}

// HashBody computes the canonical StructHash of the body.
func HashBody(b *MessageDataBody) StructHash {
	return ids.ID(hashing.ComputeHash256Array(b.Bytes()))
}

// Clone returns a deep copy of the signed data.
func (d *SignedMessageData) Clone() SignedMessageData {
	body := MessageDataBody{
		OwnerUID:     d.Body.OwnerUID,
		Parents:      make([]StructHash, len(d.Body.Parents)),
		Epoch:        d.Body.Epoch,
		Payload:      d.Body.Payload,
		Endorsements: make([]Endorsement, len(d.Body.Endorsements)),
	}
	copy(body.Parents, d.Body.Parents)
	copy(body.Endorsements, d.Body.Endorsements)
	return SignedMessageData{
		OwnerSig: d.OwnerSig,
		Hash:     d.Hash,
		Body:     body,
	}
}
