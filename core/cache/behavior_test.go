package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lustrousgorilla/cachex/core/worker"
)

func newCacheWorker(t *testing.T, capacity int, clock func() time.Time) *worker.Worker[*State] {
	t.Helper()

	b, err := Behavior()
	require.NoError(t, err)

	w := worker.Start(worker.Options{Context: t.Context()}, b, New(Options{
		Capacity: capacity,
		Clock:    clock,
	}))
	t.Cleanup(w.Stop)
	return w
}

func TestBehavior_put_and_get_via_worker(t *testing.T) {
	w := newCacheWorker(t, 16, nil)

	res, err := w.Call(t.Context(), "put", "user:1", "alice")
	require.NoError(t, err)
	require.Equal(t, worker.Void{}, res)

	res, err = w.Call(t.Context(), "get", "user:1")
	require.NoError(t, err)
	require.Equal(t, "alice", res)

	res, err = w.Call(t.Context(), "get", "user:2")
	require.NoError(t, err)
	require.Nil(t, res)
}

func TestBehavior_put_as_cast(t *testing.T) {
	w := newCacheWorker(t, 16, nil)

	require.NoError(t, w.Cast(t.Context(), "put", "user:1", "alice"))

	// The subsequent call is ordered behind the cast.
	res, err := w.Call(t.Context(), "get", "user:1")
	require.NoError(t, err)
	require.Equal(t, "alice", res)
}

func TestBehavior_put_overloaded_by_arity(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	w := newCacheWorker(t, 16, clock.Now)

	// put/2 stores forever, put/3 with a TTL.
	_, err := w.Call(t.Context(), "put", "pinned", 1)
	require.NoError(t, err)
	_, err = w.Call(t.Context(), "put", "session", 2, time.Minute)
	require.NoError(t, err)

	clock.Advance(time.Hour)

	res, err := w.Call(t.Context(), "get", "pinned")
	require.NoError(t, err)
	require.Equal(t, 1, res)

	res, err = w.Call(t.Context(), "get", "session")
	require.NoError(t, err)
	require.Nil(t, res)
}

func TestBehavior_delete_and_len(t *testing.T) {
	w := newCacheWorker(t, 16, nil)

	_, err := w.Call(t.Context(), "put", "a", 1)
	require.NoError(t, err)
	_, err = w.Call(t.Context(), "put", "b", 2)
	require.NoError(t, err)

	require.NoError(t, w.Cast(t.Context(), "delete", "a"))

	res, err := w.Call(t.Context(), "len")
	require.NoError(t, err)
	require.Equal(t, 1, res)
}

func TestBehavior_evict_tick_purges_expired(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	w := newCacheWorker(t, 16, clock.Now)

	_, err := w.Call(t.Context(), "put", "session", "data", time.Minute)
	require.NoError(t, err)

	clock.Advance(time.Hour)

	require.NoError(t, w.Notify(t.Context(), EvictTick{}))

	res, err := w.Call(t.Context(), "len")
	require.NoError(t, err)
	require.Equal(t, 0, res)
}

func TestBehavior_purge_expired_call_replies_count(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	w := newCacheWorker(t, 16, clock.Now)

	_, err := w.Call(t.Context(), "put", "a", 1, time.Minute)
	require.NoError(t, err)
	_, err = w.Call(t.Context(), "put", "b", 2)
	require.NoError(t, err)

	clock.Advance(time.Hour)

	res, err := w.Call(t.Context(), "purge_expired")
	require.NoError(t, err)
	require.Equal(t, 1, res)
}

func TestBehavior_unknown_operation_fails_caller(t *testing.T) {
	w := newCacheWorker(t, 16, nil)

	_, err := w.Call(t.Context(), "flush")
	var unhandled *worker.UnhandledCallError
	require.ErrorAs(t, err, &unhandled)
	require.Equal(t, "flush", unhandled.Name)
	require.Equal(t, 0, unhandled.Arity)
}
