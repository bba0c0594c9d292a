// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database/memdb"

	"github.com/luxfi/txflow/store"
	"github.com/luxfi/txflow/types"
	"github.com/luxfi/txflow/witnesstest"
)

var nextPayload int

// bareMessage builds a signed message with a unique payload so that
// messages with equal owner/epoch/parents stay distinct.
func bareMessage(owner types.UID, epoch uint64, parents ...types.SignedMessageData) types.SignedMessageData {
	nextPayload++
	body := types.MessageDataBody{
		OwnerUID: owner,
		Epoch:    epoch,
		Payload:  types.RawPayload(fmt.Sprintf("payload-%d", nextPayload)),
	}
	for _, p := range parents {
		body.Parents = append(body.Parents, p.Hash)
	}
	return types.SignedMessageData{
		Hash: types.HashBody(&body),
		Body: body,
	}
}

func newTestDAG(t *testing.T, owner types.UID) *DAG {
	t.Helper()

	d, err := New(Config{
		OwnerUID:      owner,
		StartingEpoch: 0,
		Selector:      witnesstest.NewSelector(),
	})
	require.NoError(t, err)
	return d
}

func TestCorrectEpochSimple(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	// Parents claim greater epochs than the schedule supports.
	a := bareMessage(1, 2)
	b := bareMessage(1, 1, a)

	require.NoError(d.AddExistingMessage(a))
	require.NoError(d.AddExistingMessage(b))

	for _, hash := range []types.StructHash{a.Hash, b.Hash} {
		data, ok := d.CopyMessageDataByHash(hash)
		require.True(ok)
		require.NotNil(data.Body.Payload)
	}

	// Both messages claimed invalid epochs, so two reports were filed.
	violations := d.Violations()
	require.Len(violations, 2)
	for _, v := range violations {
		require.Equal(BadEpoch, v.Kind())
	}
}

func TestCorrectEpochComplex(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	// A supermajority of epoch-0 witnesses lets the author advance.
	w0 := bareMessage(0, 0)
	w1 := bareMessage(1, 0)
	w2 := bareMessage(2, 0)
	a := bareMessage(0, 1, w0, w1, w2)
	b := bareMessage(3, 1, a)

	for _, m := range []types.SignedMessageData{w0, w1, w2, a, b} {
		require.NoError(d.AddExistingMessage(m))
	}
	require.Empty(d.Violations())
}

func TestBadEpochScenario(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 1)

	m := bareMessage(0, 1)
	require.NoError(d.AddExistingMessage(m))

	violations := d.Violations()
	require.Len(violations, 1)
	require.Equal(BadEpochViolation{Message: m.Hash}, violations[0])

	require.True(d.ContainsMessage(m.Hash))
	require.Equal([]types.StructHash{m.Hash}, d.Roots())
}

func TestNoticeSimpleFork(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	a := bareMessage(0, 0)
	b := bareMessage(1, 0)
	c := bareMessage(2, 0)
	m1 := bareMessage(3, 1, a, b)
	m2 := bareMessage(3, 1, c, b)

	for _, m := range []types.SignedMessageData{a, b, c, m1, m2} {
		require.NoError(d.AddExistingMessage(m))
	}

	violations := d.Violations()
	require.Len(violations, 1)
	require.Equal(ForkAttemptViolation{
		Message0: m1.Hash,
		Message1: m2.Hash,
	}, violations[0])
}

func TestForkNotReportedWhenHeadReferenced(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	a := bareMessage(0, 0)
	m1 := bareMessage(3, 0, a)
	b := bareMessage(1, 0, m1)
	m2 := bareMessage(3, 0, b)

	for _, m := range []types.SignedMessageData{a, m1, b, m2} {
		require.NoError(d.AddExistingMessage(m))
	}
	require.Empty(d.Violations())
}

func TestRestartWithoutHistoryIsFork(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	m1 := bareMessage(3, 0)
	m2 := bareMessage(3, 0)

	require.NoError(d.AddExistingMessage(m1))
	require.NoError(d.AddExistingMessage(m2))

	violations := d.Violations()
	require.Len(violations, 1)
	require.Equal(ForkAttempt, violations[0].Kind())
}

func TestFeedComplexTopology(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	a := bareMessage(0, 0)
	x := bareMessage(1, 2)
	b := bareMessage(2, 3, a, x)
	y := bareMessage(3, 4)
	z := bareMessage(4, 5, a, y)
	w := bareMessage(4, 3, a, b, z)

	// Feed in DFS order so parents always precede children.
	for _, m := range []types.SignedMessageData{a, x, b, y, z, w} {
		require.NoError(d.AddExistingMessage(m))
	}
	require.Equal(6, d.NumMessages())
}

func TestMissingMessagesWhileFeeding(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	a := bareMessage(0, 0)
	b := bareMessage(1, 2)
	c := bareMessage(2, 3, a, b)
	x := bareMessage(3, 4)
	e := bareMessage(4, 5, a, x)

	require.NoError(d.AddExistingMessage(a))
	// e cannot be added yet: its parent x was not received.
	err := d.AddExistingMessage(e)
	require.ErrorIs(err, errUnknownParent)
	require.Equal(1, d.NumMessages())

	require.NoError(d.AddExistingMessage(x))
	require.Equal(2, d.NumRoots())

	require.NoError(d.AddExistingMessage(e))
	require.Equal(1, d.NumRoots())

	// c still blocked on b.
	require.ErrorIs(d.AddExistingMessage(c), errUnknownParent)
	require.NoError(d.AddExistingMessage(b))
	require.NoError(d.AddExistingMessage(c))

	// Two dangling roots again: e and c.
	require.Equal(2, d.NumRoots())
	require.True(d.HasDanglingRoots())
}

func TestCreateRootMessage(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	r1 := bareMessage(1, 0)
	r2 := bareMessage(2, 0)
	require.NoError(d.AddExistingMessage(r1))
	require.NoError(d.AddExistingMessage(r2))
	require.Equal(2, d.NumRoots())

	numMessages := d.NumMessages()
	message := d.CreateRootMessage(types.RawPayload("payload"), nil)

	require.Equal(1, d.NumRoots())
	require.Equal(numMessages+1, d.NumMessages())
	require.Equal([]types.StructHash{message.ComputedHash}, d.Roots())

	require.ElementsMatch(
		[]types.StructHash{r1.Hash, r2.Hash},
		message.Data.Body.Parents,
	)

	// The derived hash and epoch were lifted into the body.
	require.Equal(message.ComputedHash, message.Data.Hash)
	require.Equal(message.ComputedEpoch, message.Data.Body.Epoch)
	require.True(d.IsCurrentOwnerRoot())

	data, ok := d.CurrentRootData()
	require.True(ok)
	require.Equal(types.UID(0), data.Body.OwnerUID)
}

func TestCreateRootMessageRoundTrips(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	a := bareMessage(1, 0)
	require.NoError(d.AddExistingMessage(a))

	message := d.CreateRootMessage(types.RawPayload("payload"), nil)

	// Another node ingests the synthesized message.
	other := newTestDAG(t, 1)
	require.NoError(other.AddExistingMessage(a))
	require.NoError(other.AddExistingMessage(message.Data))
	require.True(other.ContainsMessage(message.Data.Hash))
	require.Empty(other.Violations())
}

func TestIdempotentReingest(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	m := bareMessage(0, 1) // claims a bad epoch on purpose
	require.NoError(d.AddExistingMessage(m))

	numMessages := d.NumMessages()
	numRoots := d.NumRoots()
	numViolations := len(d.Violations())

	require.NoError(d.AddExistingMessage(m))
	require.Equal(numMessages, d.NumMessages())
	require.Equal(numRoots, d.NumRoots())
	require.Len(d.Violations(), numViolations)
}

func TestUnknownParentLeavesDAGUnchanged(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	a := bareMessage(0, 0)
	b := bareMessage(1, 0)
	c := bareMessage(2, 3, a, b)

	require.NoError(d.AddExistingMessage(a))
	violationsBefore := len(d.Violations())

	require.ErrorIs(d.AddExistingMessage(c), errUnknownParent)
	require.Equal(1, d.NumMessages())
	require.Equal(1, d.NumRoots())
	require.Len(d.Violations(), violationsBefore)
}

func TestStorePersistsAcceptedMessages(t *testing.T) {
	require := require.New(t)

	messageStore, err := store.New(nil, memdb.New(), nil)
	require.NoError(err)
	d, err := New(Config{
		OwnerUID: 0,
		Selector: witnesstest.NewSelector(),
		Store:    messageStore,
	})
	require.NoError(err)

	a := bareMessage(1, 0)
	require.NoError(d.AddExistingMessage(a))
	root := d.CreateRootMessage(types.RawPayload("payload"), nil)

	for _, hash := range []types.StructHash{a.Hash, root.ComputedHash} {
		has, err := messageStore.Has(hash)
		require.NoError(err)
		require.True(has)

		stored, err := messageStore.Get(hash)
		require.NoError(err)
		require.Equal(hash, stored.Hash)
	}
}

func TestComputedSignatureMatches(t *testing.T) {
	require := require.New(t)
	d := newTestDAG(t, 0)

	a := bareMessage(0, 0)
	a.OwnerSig = 42
	a.Hash = types.HashBody(&a.Body)

	require.NoError(d.AddExistingMessage(a))
	data, ok := d.CopyMessageDataByHash(a.Hash)
	require.True(ok)
	require.Equal(uint64(42), data.OwnerSig)
	require.Equal(uint64(42), d.messages[a.Hash].ComputedSignature)
}
