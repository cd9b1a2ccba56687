package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/Roisfaozi/gas.to/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMemoryStore_Record(t *testing.T) {
	t.Run("counts requests within the window", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for want := int64(1); want <= 3; want++ {
			count, err := s.Record(context.Background(), "key", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("keys count independently", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, err := s.Record(context.Background(), "a", time.Minute)
		require.NoError(t, err)

		count, err := s.Record(context.Background(), "b", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("prunes entries past the window", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, err := s.Record(context.Background(), "key", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		count, err := s.Record(context.Background(), "key", 10*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
