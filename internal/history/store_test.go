package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Should return recorded runs newest first", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.Record(ctx, Run{Task: "networks", Network: "mainnet", StartedAt: base, Duration: 1500 * time.Millisecond, Status: StatusSucceeded})
		require.NoError(t, err)
		_, err = s.Record(ctx, Run{Task: "deploy", Network: "mainnet", Args: "script=Deploy.s.sol", StartedAt: base.Add(time.Minute), Status: StatusFailed, Error: "exit status 1"})
		require.NoError(t, err)

		runs, err := s.Recent(ctx, "", 10)

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "deploy", runs[0].Task)
		assert.Equal(t, StatusFailed, runs[0].Status)
		assert.Equal(t, "exit status 1", runs[0].Error)
		assert.Equal(t, "script=Deploy.s.sol", runs[0].Args)
		assert.Equal(t, "networks", runs[1].Task)
		assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
		assert.True(t, base.Equal(runs[1].StartedAt))
	})

	t.Run("Should filter by task and honor the limit", func(t *testing.T) {
		s := openTestStore(t)
		for i := 0; i < 3; i++ {
			_, err := s.Record(ctx, Run{Task: "blocknumbers", Network: "mainnet", StartedAt: base.Add(time.Duration(i) * time.Second), Status: StatusSucceeded})
			require.NoError(t, err)
		}
		_, err := s.Record(ctx, Run{Task: "version", Network: "mainnet", StartedAt: base, Status: StatusSucceeded})
		require.NoError(t, err)

		runs, err := s.Recent(ctx, "blocknumbers", 2)

		require.NoError(t, err)
		require.Len(t, runs, 2)
		for _, r := range runs {
			assert.Equal(t, "blocknumbers", r.Task)
		}
	})
}
