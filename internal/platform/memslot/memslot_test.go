package memslot

import (
	"context"
	"testing"

	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/phrazzld/oceaninsight/internal/store/slottest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotStoreContract(t *testing.T) {
	slottest.Run(t, func(t *testing.T) store.SlotStore {
		return New()
	})
}

func TestClosedStoreRejectsCalls(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "notes", []byte(`[]`)))
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "notes")
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, s.Put(ctx, "notes", []byte(`[]`)), store.ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, "notes"), store.ErrClosed)
}
