package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsTasks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := New(2, zerolog.Nop())
		var count atomic.Int32
		for range 10 {
			require.NoError(t, p.Submit(func(context.Context) { count.Add(1) }))
		}

		require.NoError(t, p.Close(context.Background()))
		assert.Equal(t, int32(10), count.Load())
	})
}

func TestPool_LimitsConcurrency(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := New(2, zerolog.Nop())
		var running, peak atomic.Int32
		release := make(chan struct{})
		for range 5 {
			require.NoError(t, p.Submit(func(context.Context) {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				<-release
				running.Add(-1)
			}))
		}

		synctest.Wait()
		assert.Equal(t, int32(2), peak.Load())
		close(release)
		require.NoError(t, p.Close(context.Background()))
	})
}

func TestPool_RecoversPanics(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := New(1, zerolog.Nop())
		ran := false
		require.NoError(t, p.Submit(func(context.Context) { panic("boom") }))
		require.NoError(t, p.Submit(func(context.Context) { ran = true }))

		require.NoError(t, p.Close(context.Background()))
		assert.True(t, ran)
	})
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := New(1, zerolog.Nop())
	require.NoError(t, p.Close(context.Background()))

	assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrClosed)
}

func TestPool_SubmitWhenFull(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := New(1, zerolog.Nop())
		block := make(chan struct{})
		require.NoError(t, p.Submit(func(context.Context) { <-block }))
		synctest.Wait()

		var err error
		for range defaultBuffer + 2 {
			if err = p.Submit(func(context.Context) {}); err != nil {
				break
			}
		}
		assert.ErrorIs(t, err, ErrFull)

		close(block)
		require.NoError(t, p.Close(context.Background()))
	})
}
