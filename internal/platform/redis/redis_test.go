package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/phrazzld/oceaninsight/internal/store/slottest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisURLEnv = "OCEAN_TEST_REDIS_URL"

func TestOpenRejectsBadURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "wrong scheme", url: "http://localhost:6379"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Open(context.Background(), tc.url, "", nil)
			assert.Error(t, err)
		})
	}
}

func TestRedisKeyUsesPrefix(t *testing.T) {
	s := &SlotStore{prefix: "oceaninsight:"}
	assert.Equal(t, "oceaninsight:ocean-insight-memories", s.redisKey("ocean-insight-memories"))
}

func TestSlotStoreContract(t *testing.T) {
	url := os.Getenv(testRedisURLEnv)
	if url == "" {
		t.Skipf("%s not set; skipping Redis tests", testRedisURLEnv)
	}

	slottest.Run(t, func(t *testing.T) store.SlotStore {
		_, l := logger.NewTestLogger(t)
		// A fresh prefix per store keeps subtests apart on a shared server.
		prefix := "oceaninsight-test:" + uuid.NewString() + ":"
		s, err := Open(context.Background(), url, prefix, l)
		require.NoError(t, err)
		t.Cleanup(func() {
			for _, key := range []string{"notes", "first", "second"} {
				_ = s.Delete(context.Background(), key)
			}
			_ = s.Close()
		})
		return s
	})
}
