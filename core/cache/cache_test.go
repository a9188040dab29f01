package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestState(capacity int) (*State, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	return New(Options{Capacity: capacity, Clock: clock.Now}), clock
}

func mustGet(t *testing.T, s *State, key string) any {
	t.Helper()
	out, err := Get(s, key)
	require.NoError(t, err)
	return out.Result()
}

func TestCache_put_get_delete(t *testing.T) {
	s, _ := newTestState(8)

	out, err := Put(s, "a", 1)
	require.NoError(t, err)
	require.False(t, out.HasReply())

	require.Equal(t, 1, mustGet(t, s, "a"))
	require.Nil(t, mustGet(t, s, "missing"))

	_, err = Delete(s, "a")
	require.NoError(t, err)
	require.Nil(t, mustGet(t, s, "a"))
}

func TestCache_put_overwrites(t *testing.T) {
	s, _ := newTestState(8)

	_, err := Put(s, "a", 1)
	require.NoError(t, err)
	_, err = Put(s, "a", 2)
	require.NoError(t, err)

	require.Equal(t, 2, mustGet(t, s, "a"))

	out, err := Len(s)
	require.NoError(t, err)
	require.Equal(t, 1, out.Result())
}

func TestCache_lru_eviction(t *testing.T) {
	s, _ := newTestState(2)

	_, _ = Put(s, "a", 1)
	_, _ = Put(s, "b", 2)

	// Refresh "a", then overflow; "b" is now the least recently used.
	require.Equal(t, 1, mustGet(t, s, "a"))
	_, _ = Put(s, "c", 3)

	require.Nil(t, mustGet(t, s, "b"))
	require.Equal(t, 1, mustGet(t, s, "a"))
	require.Equal(t, 3, mustGet(t, s, "c"))
}

func TestCache_ttl_lazy_eviction(t *testing.T) {
	s, clock := newTestState(8)

	_, err := PutTTL(s, "session", "data", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "data", mustGet(t, s, "session"))

	clock.Advance(2 * time.Minute)

	require.Nil(t, mustGet(t, s, "session"))

	// The expired entry was removed on access.
	out, err := Len(s)
	require.NoError(t, err)
	require.Equal(t, 0, out.Result())
}

func TestCache_ttl_zero_means_no_expiry(t *testing.T) {
	s, clock := newTestState(8)

	_, err := PutTTL(s, "pinned", 42, 0)
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	require.Equal(t, 42, mustGet(t, s, "pinned"))
}

func TestCache_purge_expired(t *testing.T) {
	s, clock := newTestState(8)

	_, _ = PutTTL(s, "a", 1, time.Minute)
	_, _ = PutTTL(s, "b", 2, time.Hour)
	_, _ = Put(s, "c", 3)

	clock.Advance(10 * time.Minute)

	out, err := PurgeExpired(s)
	require.NoError(t, err)
	require.Equal(t, 1, out.Result())

	lenOut, err := Len(s)
	require.NoError(t, err)
	require.Equal(t, 2, lenOut.Result())
	require.Equal(t, 2, mustGet(t, s, "b"))
	require.Equal(t, 3, mustGet(t, s, "c"))
}
