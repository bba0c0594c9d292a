// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dag implements the TxFlow message DAG: an append-only,
// content-addressed graph of signed messages contributed by a fixed set
// of participants. The DAG admits a message only once all of its parents
// are present, derives each message's attributes deterministically, and
// files misbehaviour reports for protocol violations instead of
// rejecting the offending messages.
package dag

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/luxfi/log"

	"github.com/luxfi/txflow/types"
	"github.com/luxfi/txflow/utils/set"
	"github.com/luxfi/txflow/witness"
)

var errUnknownParent = errors.New("unknown parent message")

// MessageStore persists accepted messages. Implementations must be safe
// to call once per accepted message.
type MessageStore interface {
	Put(data types.SignedMessageData) error
}

// Config wires a DAG's collaborators.
type Config struct {
	// Log defaults to a no-op logger.
	Log log.Logger

	// Registerer defaults to a throwaway registry.
	Registerer prometheus.Registerer

	// OwnerUID is the local participant.
	OwnerUID types.UID

	// StartingEpoch is the epoch floor for derived epochs.
	StartingEpoch uint64

	// Selector is the witness schedule.
	Selector witness.Selector

	// Store, when set, receives every accepted message.
	Store MessageStore
}

// DAG is the TxFlow message graph. It is owned by a single caller; wrap
// it in a mutex for cross-goroutine use.
type DAG struct {
	ownerUID      types.UID
	startingEpoch uint64
	selector      witness.Selector

	log     log.Logger
	metrics *dagMetrics
	store   MessageStore

	// messages indexes every known message by its computed hash.
	messages map[types.StructHash]*Message

	// roots holds the messages no other message lists as a parent.
	roots map[types.StructHash]*Message

	misbehaviour *MisbehaviourReporter

	// participantHead tracks the most recently accepted message from
	// each participant; it anchors fork detection.
	participantHead map[types.UID]types.StructHash
}

// New returns an empty DAG.
func New(config Config) (*DAG, error) {
	logger := config.Log
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	registerer := config.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register dag metrics: %w", err)
	}

	return &DAG{
		ownerUID:        config.OwnerUID,
		startingEpoch:   config.StartingEpoch,
		selector:        config.Selector,
		log:             logger,
		metrics:         metrics,
		store:           config.Store,
		messages:        make(map[types.StructHash]*Message),
		roots:           make(map[types.StructHash]*Message),
		misbehaviour:    NewMisbehaviourReporter(),
		participantHead: make(map[types.UID]types.StructHash),
	}, nil
}

// findFork checks whether [message] acknowledges the previously recorded
// head of its owner. It walks the ancestry breadth-first, terminating
// each branch at the first message authored by the owner. Returns the
// head hash when the walk never reaches it.
func (d *DAG) findFork(message *Message) (types.StructHash, bool) {
	uid := message.Data.Body.OwnerUID
	headHash, ok := d.participantHead[uid]
	if !ok {
		return types.StructHash{}, false
	}

	visited := set.NewSet[types.StructHash](len(message.Parents))
	queue := make([]*Message, 0, len(message.Parents))
	for _, p := range message.Parents {
		visited.Add(p.ComputedHash)
		queue = append(queue, p)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.Data.Body.OwnerUID == uid {
			if cur.ComputedHash == headHash {
				return types.StructHash{}, false
			}
			// This branch reaches the owner's past without passing
			// through the head; other branches may still reach it.
			continue
		}
		for _, p := range cur.Parents {
			if visited.Contains(p.ComputedHash) {
				continue
			}
			visited.Add(p.ComputedHash)
			queue = append(queue, p)
		}
	}
	return headHash, true
}

// verify records any violations [message] exhibits. Violations never
// cause rejection: dropping a byzantine message would hide the evidence
// from other honest nodes.
func (d *DAG) verify(message *Message) {
	if message.ComputedEpoch != message.Data.Body.Epoch {
		d.report(BadEpochViolation{
			Message: message.ComputedHash,
		})
	}

	if headHash, forked := d.findFork(message); forked {
		d.report(ForkAttemptViolation{
			Message0: headHash,
			Message1: message.ComputedHash,
		})
	}

	// TODO: verify the owner signature once the signing layer lands.
}

func (d *DAG) report(v Violation) {
	d.log.Warn("misbehaviour detected",
		zap.Stringer("kind", v.Kind()),
		zap.Stringer("violation", v),
	)
	d.misbehaviour.Report(v)
	d.metrics.violations.WithLabelValues(v.Kind().String()).Inc()
}

// AddExistingMessage ingests a message received from another
// participant. It is idempotent. When a parent is missing the DAG is
// left unchanged and the caller must deliver the ancestors first.
func (d *DAG) AddExistingMessage(messageData types.SignedMessageData) error {
	// Check whether this is a new message.
	if _, ok := d.messages[messageData.Hash]; ok {
		return nil
	}

	message := newMessage(messageData.Clone())
	message.Parents = make([]*Message, 0, len(message.Data.Body.Parents))
	resolved := set.NewSet[types.StructHash](len(message.Data.Body.Parents))
	for _, parentHash := range message.Data.Body.SortedParents() {
		if resolved.Contains(parentHash) {
			continue
		}
		parent, ok := d.messages[parentHash]
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownParent, parentHash)
		}
		resolved.Add(parentHash)
		message.Parents = append(message.Parents, parent)
	}

	message.init(d.startingEpoch, d.selector)

	// The sender may have stamped a non-canonical hash; dedupe on the
	// recomputed one as well so re-ingests file no duplicate reports.
	if _, ok := d.messages[message.ComputedHash]; ok {
		return nil
	}

	d.verify(message)
	d.participantHead[message.Data.Body.OwnerUID] = message.ComputedHash
	d.insert(message)

	d.log.Verbo("added message",
		zap.Stringer("hash", message.ComputedHash),
		zap.Uint64("owner", uint64(message.Data.Body.OwnerUID)),
		zap.Uint64("epoch", message.ComputedEpoch),
		zap.Int("numParents", len(message.Parents)),
	)
	return nil
}

// CreateRootMessage synthesizes the owner's next message, tipping every
// current root. The new message becomes the sole root.
func (d *DAG) CreateRootMessage(payload types.Payload, endorsements []types.Endorsement) *Message {
	parents := make([]types.StructHash, 0, len(d.roots))
	for hash := range d.roots {
		parents = append(parents, hash)
	}

	message := newMessage(types.SignedMessageData{
		OwnerSig: 0, // Not signed here; stays zero.
		Body: types.MessageDataBody{
			OwnerUID:     d.ownerUID,
			Parents:      parents,
			Epoch:        0, // Will be computed.
			Payload:      payload,
			Endorsements: endorsements,
		},
	})
	message.Parents = make([]*Message, 0, len(d.roots))
	for _, root := range d.roots {
		message.Parents = append(message.Parents, root)
	}
	message.init(d.startingEpoch, d.selector)
	message.assumeComputedHashEpoch()

	d.insert(message)

	d.log.Debug("created root message",
		zap.Stringer("hash", message.ComputedHash),
		zap.Uint64("epoch", message.ComputedEpoch),
		zap.Int("numParents", len(message.Parents)),
	)
	return message
}

// insert takes ownership of a fully initialized message: parents stop
// being roots and the message joins the index and the root set. The
// participant head is advanced by the ingest path only; locally
// synthesized messages cannot fork against their own history by
// construction.
func (d *DAG) insert(message *Message) {
	for _, p := range message.Parents {
		delete(d.roots, p.ComputedHash)
	}
	d.messages[message.ComputedHash] = message
	d.roots[message.ComputedHash] = message

	if d.store != nil {
		if err := d.store.Put(message.Data); err != nil {
			d.log.Warn("failed to persist message",
				zap.Stringer("hash", message.ComputedHash),
				zap.Error(err),
			)
		}
	}

	d.metrics.acceptedMessages.Inc()
	d.metrics.numMessages.Set(float64(len(d.messages)))
	d.metrics.numRoots.Set(float64(len(d.roots)))
}

// ContainsMessage returns whether a message with [hash] is present.
func (d *DAG) ContainsMessage(hash types.StructHash) bool {
	_, ok := d.messages[hash]
	return ok
}

// CopyMessageDataByHash returns a copy of the message data for [hash].
func (d *DAG) CopyMessageDataByHash(hash types.StructHash) (types.SignedMessageData, bool) {
	message, ok := d.messages[hash]
	if !ok {
		return types.SignedMessageData{}, false
	}
	return message.Data.Clone(), true
}

// CurrentRootData returns the data of the root if there is exactly one.
func (d *DAG) CurrentRootData() (types.SignedMessageData, bool) {
	if len(d.roots) != 1 {
		return types.SignedMessageData{}, false
	}
	for _, root := range d.roots {
		return root.Data.Clone(), true
	}
	return types.SignedMessageData{}, false
}

// IsCurrentOwnerRoot returns whether there is exactly one root and the
// current owner created it.
func (d *DAG) IsCurrentOwnerRoot() bool {
	data, ok := d.CurrentRootData()
	return ok && data.Body.OwnerUID == d.ownerUID
}

// HasDanglingRoots returns true if there are several roots.
func (d *DAG) HasDanglingRoots() bool {
	return len(d.roots) > 1
}

// Roots returns the hashes of the current roots in an unspecified order.
func (d *DAG) Roots() []types.StructHash {
	roots := make([]types.StructHash, 0, len(d.roots))
	for hash := range d.roots {
		roots = append(roots, hash)
	}
	return roots
}

// NumMessages returns the number of messages in the DAG.
func (d *DAG) NumMessages() int {
	return len(d.messages)
}

// NumRoots returns the number of current roots.
func (d *DAG) NumRoots() int {
	return len(d.roots)
}

// Violations returns the misbehaviour reports filed so far.
func (d *DAG) Violations() []Violation {
	return d.misbehaviour.Violations()
}
