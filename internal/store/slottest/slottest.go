// Package slottest holds the behaviour every store.SlotStore backend must
// share, written once and run against each backend from its own tests.
package slottest

import (
	"context"
	"testing"

	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty slot store. Cleanup is the factory's job.
type Factory func(t *testing.T) store.SlotStore

// Run exercises the store.SlotStore contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("get_missing_slot", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, store.ErrSlotNotFound)
	})

	t.Run("put_then_get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		blob := []byte(`[{"id":"a"}]`)

		require.NoError(t, s.Put(ctx, "notes", blob))
		got, err := s.Get(ctx, "notes")
		require.NoError(t, err)
		assert.JSONEq(t, string(blob), string(got))
	})

	t.Run("put_overwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "notes", []byte(`[1]`)))
		require.NoError(t, s.Put(ctx, "notes", []byte(`[1,2]`)))
		got, err := s.Get(ctx, "notes")
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2]`, string(got))
	})

	t.Run("slots_are_independent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "first", []byte(`["a"]`)))
		require.NoError(t, s.Put(ctx, "second", []byte(`["b"]`)))
		require.NoError(t, s.Delete(ctx, "first"))

		_, err := s.Get(ctx, "first")
		assert.ErrorIs(t, err, store.ErrSlotNotFound)
		got, err := s.Get(ctx, "second")
		require.NoError(t, err)
		assert.JSONEq(t, `["b"]`, string(got))
	})

	t.Run("delete_missing_is_noop", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Delete(context.Background(), "never-written"))
	})

	t.Run("returned_value_is_a_copy", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		blob := []byte(`["x"]`)

		require.NoError(t, s.Put(ctx, "notes", blob))
		blob[2] = 'y'
		got, err := s.Get(ctx, "notes")
		require.NoError(t, err)
		assert.JSONEq(t, `["x"]`, string(got))
	})

	t.Run("invalid_key_rejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		assert.ErrorIs(t, s.Put(ctx, "../escape", []byte(`[]`)), store.ErrInvalidKey)
		_, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, store.ErrInvalidKey)
	})
}
