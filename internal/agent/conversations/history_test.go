package conversations

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRejectsUnknownSender(t *testing.T) {
	h := NewTurnHistory(5)

	err := h.Append(Sender("admin"), "hello")
	require.Error(t, err)
	assert.Zero(t, h.Len())
}

func TestSnapshotFormatsOldestFirst(t *testing.T) {
	h := NewTurnHistory(5)

	require.NoError(t, h.Append(SenderSystem, "Welcome!"))
	require.NoError(t, h.Append(SenderUser, "I want a BMW"))

	assert.Equal(t, "System: Welcome!\nUser: I want a BMW\n", h.Snapshot())
}

func TestHistoryEvictsOldestPastBound(t *testing.T) {
	h := NewTurnHistory(5)

	for i := 0; i < 8; i++ {
		require.NoError(t, h.Append(SenderUser, fmt.Sprintf("msg %d", i)))
	}

	assert.Equal(t, 5, h.Len())
	snap := h.Snapshot()
	assert.NotContains(t, snap, "msg 2")
	assert.Contains(t, snap, "msg 3")
	assert.Contains(t, snap, "msg 7")
}

func TestEmptySnapshotIsEmptyString(t *testing.T) {
	h := NewTurnHistory(0)
	assert.Equal(t, "", h.Snapshot())
}
