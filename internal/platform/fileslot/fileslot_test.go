package fileslot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/phrazzld/oceaninsight/internal/store/slottest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SlotStore {
	t.Helper()
	_, l := logger.NewTestLogger(t)
	s, err := New(t.TempDir(), l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSlotStoreContract(t *testing.T) {
	slottest.Run(t, func(t *testing.T) store.SlotStore {
		return newTestStore(t)
	})
}

func TestPutWritesNamedFileWithoutLeftovers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "ocean-insight-memories", []byte("[]")))
	require.NoError(t, s.Put(ctx, "ocean-insight-memories", []byte(`[{"x":1}]`)))

	data, err := os.ReadFile(filepath.Join(s.Dir(), "ocean-insight-memories.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"x":1}]`, string(data))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be renamed or removed")
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "slots")
	s, err := New(dir, nil)
	require.NoError(t, err)

	info, err := os.Stat(s.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewRejectsEmptyDir(t *testing.T) {
	_, err := New("", nil)
	assert.Error(t, err)
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "slot")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClosedStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	err := s.Put(context.Background(), "slot", []byte("[]"))
	assert.ErrorIs(t, err, store.ErrClosed)
}
