package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsAllJobs(t *testing.T) {
	d := NewDispatcher(4, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Close()

	var n atomic.Int64
	for i := 0; i < 100; i++ {
		key := []string{"tasks", "contracts", "emails"}[i%3]
		d.Enqueue(Job{Key: key, Run: func(context.Context) error {
			n.Add(1)
			return nil
		}})
	}

	require.NoError(t, d.Wait())
	assert.Equal(t, int64(100), n.Load())
}

func TestDispatcher_PreservesPerKeyOrder(t *testing.T) {
	d := NewDispatcher(8, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Close()

	var mu sync.Mutex
	seen := map[string][]int{}
	var jobs []Job
	for i := 0; i < 50; i++ {
		for _, key := range []string{"tasks", "emails"} {
			key, i := key, i
			jobs = append(jobs, Job{Key: key, Run: func(context.Context) error {
				mu.Lock()
				seen[key] = append(seen[key], i)
				mu.Unlock()
				return nil
			}})
		}
	}
	d.EnqueueBatch(jobs)
	require.NoError(t, d.Wait())

	for key, order := range seen {
		for i := range order {
			assert.Equal(t, i, order[i], "key %s out of order", key)
		}
	}
}

func TestDispatcher_CollectsFailures(t *testing.T) {
	d := NewDispatcher(2, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Close()

	boom := errors.New("boom")
	d.Enqueue(Job{Key: "tasks", Run: func(context.Context) error { return boom }})
	d.Enqueue(Job{Key: "emails", Run: func(context.Context) error { return nil }})

	err := d.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "tasks")
}

func waitWithin(t *testing.T, d *Dispatcher, limit time.Duration) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- d.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(limit):
		t.Fatal("Wait did not return")
		return nil
	}
}

func TestDispatcher_EnqueueAfterCancelFailsFast(t *testing.T) {
	d := NewDispatcher(2, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	defer d.Close()
	cancel()

	var ran atomic.Bool
	for i := 0; i < channelBuffer+10; i++ {
		d.Enqueue(Job{Key: "tasks", Run: func(context.Context) error {
			ran.Store(true)
			return nil
		}})
	}

	err := waitWithin(t, d, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}

func TestDispatcher_QueuedJobsFailOnCancel(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	defer d.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	d.Enqueue(Job{Key: "tasks", Run: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})
	<-started

	var ran atomic.Int64
	for i := 0; i < 3; i++ {
		d.Enqueue(Job{Key: "tasks", Run: func(context.Context) error {
			ran.Add(1)
			return nil
		}})
	}
	cancel()
	close(release)

	err := waitWithin(t, d, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ran.Load(), "jobs queued behind a cancelled context are not run")
}

func TestDispatcher_EnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	d.Close()
	d.Close()

	d.Enqueue(Job{Key: "emails", Run: func(context.Context) error { return nil }})

	err := waitWithin(t, d, time.Second)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
	assert.Equal(t, d.shardIndex("contracts"), d.shardIndex("contracts"))
	for _, k := range []string{"tasks", "contracts", "emails", "profiles"} {
		idx := d.shardIndex(k)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, defaultWorkers)
	}
}
