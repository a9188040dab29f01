// Package cache provides an in-memory key-value cache with LRU eviction and
// per-entry TTL, expressed as state-transforming operations over [*State].
//
// The cache does no locking of its own. Instead, every operation has the
// shape func(*State, args...) (worker.Outcome[*State], error), so a
// [github.com/lustrousgorilla/cachex/core/worker.Worker] can own the state
// and serialize all access through its mailbox. [Behavior] assembles the full
// worker behavior, delegating each operation as a call and/or cast:
//
//	b, _ := cache.Behavior()
//	w := worker.Start(worker.Options{}, b, cache.New(cache.Options{Capacity: 1000}))
//
//	_, _ = w.Call(ctx, "put", "session", data)
//	v, _ := w.Call(ctx, "get", "session")
//
// Expired entries are evicted lazily on access; send [EvictTick] (for
// example via Worker.SendEvery) to purge proactively.
package cache
