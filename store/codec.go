// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/luxfi/txflow/types"
	"github.com/luxfi/txflow/utils/wrappers"
)

var errMalformedMessage = errors.New("malformed message bytes")

// Marshal encodes signed data for storage: signature, stamped hash, then
// the canonical body encoding.
func Marshal(data types.SignedMessageData) []byte {
	body := data.Body.Bytes()
	p := wrappers.NewPacker(8 + ids.IDLen + len(body))
	p.PackLong(data.OwnerSig)
	p.PackBytes(data.Hash[:])
	p.PackBytes(body)
	return p.Bytes
}

// Unmarshal is the inverse of Marshal. Payloads come back as
// types.RawPayload; parents come back in canonical order.
func Unmarshal(bytes []byte) (types.SignedMessageData, error) {
	u := wrappers.NewUnpacker(bytes)

	data := types.SignedMessageData{
		OwnerSig: u.UnpackLong(),
	}
	copy(data.Hash[:], u.UnpackFixedBytes(ids.IDLen))

	data.Body.OwnerUID = types.UID(u.UnpackLong())
	numParents := u.UnpackInt()
	data.Body.Parents = make([]types.StructHash, numParents)
	for i := range data.Body.Parents {
		copy(data.Body.Parents[i][:], u.UnpackFixedBytes(ids.IDLen))
	}
	data.Body.Epoch = u.UnpackLong()
	data.Body.Payload = types.RawPayload(u.UnpackBytesWithLen())
	numEndorsements := u.UnpackInt()
	data.Body.Endorsements = make([]types.Endorsement, numEndorsements)
	for i := range data.Body.Endorsements {
		data.Body.Endorsements[i] = types.Endorsement{
			Signer: types.UID(u.UnpackLong()),
			Sig:    u.UnpackBytesWithLen(),
		}
	}

	if !u.Done() {
		return types.SignedMessageData{}, errMalformedMessage
	}
	return data, nil
}
