// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dag

import (
	"fmt"

	"github.com/luxfi/txflow/types"
)

// ViolationKind discriminates the protocol violations a participant can
// commit.
type ViolationKind uint32

const (
	// BadEpoch means the epoch claimed in the body does not match the
	// locally derived epoch.
	BadEpoch ViolationKind = iota

	// ForkAttempt means a participant issued a message that does not
	// transitively reference their previous message.
	ForkAttempt

	// BadSignature is reserved for the signing layer; never reported by
	// the current verification path.
	BadSignature
)

func (k ViolationKind) String() string {
	switch k {
	case BadEpoch:
		return "BadEpoch"
	case ForkAttempt:
		return "ForkAttempt"
	case BadSignature:
		return "BadSignature"
	default:
		return "Invalid violation"
	}
}

// Violation is a typed misbehaviour record. Consumers must tolerate
// duplicates and kinds they do not know.
type Violation interface {
	fmt.Stringer

	Kind() ViolationKind
}

// BadEpochViolation reports a message whose claimed epoch disagrees with
// the derived epoch.
type BadEpochViolation struct {
	Message types.StructHash
}

func (BadEpochViolation) Kind() ViolationKind {
	return BadEpoch
}

func (v BadEpochViolation) String() string {
	return fmt.Sprintf("BadEpoch{message: %s}", v.Message)
}

// ForkAttemptViolation reports two messages from one participant where
// the newer does not reference the older.
type ForkAttemptViolation struct {
	Message0 types.StructHash
	Message1 types.StructHash
}

func (ForkAttemptViolation) Kind() ViolationKind {
	return ForkAttempt
}

func (v ForkAttemptViolation) String() string {
	return fmt.Sprintf("ForkAttempt{message_0: %s, message_1: %s}", v.Message0, v.Message1)
}

// MisbehaviourReporter is an append-only log of violations. Entries are
// never mutated or removed.
type MisbehaviourReporter struct {
	violations []Violation
}

// NewMisbehaviourReporter returns an empty reporter.
func NewMisbehaviourReporter() *MisbehaviourReporter {
	return &MisbehaviourReporter{}
}

// Report appends a violation. No deduplication is performed.
func (r *MisbehaviourReporter) Report(v Violation) {
	r.violations = append(r.violations, v)
}

// Violations returns the recorded violations in report order.
func (r *MisbehaviourReporter) Violations() []Violation {
	violations := make([]Violation, len(r.violations))
	copy(violations, r.violations)
	return violations
}

// Len returns the number of recorded violations.
func (r *MisbehaviourReporter) Len() int {
	return len(r.violations)
}
