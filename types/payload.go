// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

// Payload is the application data carried by a message. The DAG never
// inspects it; it only contributes to the canonical hash.
type Payload interface {
	// Bytes returns the serialized payload.
	Bytes() []byte
}

// RawPayload wraps opaque bytes as a Payload.
type RawPayload []byte

func (p RawPayload) Bytes() []byte {
	return p
}
