package ipc

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSemaphore(t *testing.T, value int32) *Semaphore {
	t.Helper()
	name := "trichroma-sem-" + uuid.NewString()[:8]
	s, err := createSemaphore(name, value)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.close()
		path, err := objectPath(name)
		require.NoError(t, err)
		_ = unlink(path)
	})
	return s
}

func TestSemaphoreCounts(t *testing.T) {
	s := testSemaphore(t, 3)
	assert.Equal(t, int32(3), s.Value())

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Acquire())
	}
	assert.Equal(t, int32(0), s.Value())

	require.NoError(t, s.Release())
	require.NoError(t, s.Release())
	assert.Equal(t, int32(2), s.Value())
}

func TestSemaphoreSharedAcrossAttachments(t *testing.T) {
	s := testSemaphore(t, 2)

	other, err := openSemaphore(s.name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.close() })

	assert.Equal(t, int32(2), other.Value())
	require.NoError(t, other.Acquire())
	assert.Equal(t, int32(1), s.Value())
}

func TestSemaphoreBlocksAtZero(t *testing.T) {
	s := testSemaphore(t, 0)

	var done atomic.Bool
	go func() {
		if err := s.Acquire(); err == nil {
			done.Store(true)
		}
	}()

	require.Never(t, done.Load, 150*time.Millisecond, 10*time.Millisecond)

	require.NoError(t, s.Release())
	require.Eventually(t, done.Load, 2*time.Second, 5*time.Millisecond)
}

func TestSemaphoreReleaseWakesWaiters(t *testing.T) {
	s := testSemaphore(t, 0)

	var completed atomic.Int32
	for i := 0; i < 2; i++ {
		go func() {
			if err := s.Acquire(); err == nil {
				completed.Add(1)
			}
		}()
	}

	require.Never(t, func() bool { return completed.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	require.NoError(t, s.Release())
	require.Eventually(t, func() bool { return completed.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Release())
	require.Eventually(t, func() bool { return completed.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
}
