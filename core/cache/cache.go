package cache

import (
	"container/list"
	"time"

	"github.com/lustrousgorilla/cachex/core/worker"
)

// Options configures a cache state.
type Options struct {
	// Capacity bounds the number of entries; least recently used entries are
	// evicted beyond it. Defaults to 128.
	Capacity int
	// Clock supplies the current time for TTL checks. Defaults to time.Now.
	Clock func() time.Time
}

type entry struct {
	key       string
	val       any
	expiresAt time.Time // zero means no expiry
}

// State holds the cache contents: a recency list plus an index into it.
// State is not safe for concurrent use; hand it to a worker.
type State struct {
	capacity int
	clock    func() time.Time
	ll       *list.List
	items    map[string]*list.Element
}

// New creates an empty cache state.
func New(opts Options) *State {
	if opts.Capacity <= 0 {
		opts.Capacity = 128
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &State{
		capacity: opts.Capacity,
		clock:    opts.Clock,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get replies with the value stored under key, or nil when the key is absent
// or expired. A hit refreshes the entry's recency.
func Get(s *State, key string) (worker.Outcome[*State], error) {
	ele, ok := s.items[key]
	if !ok {
		return worker.Reply[*State](nil, s), nil
	}
	e := ele.Value.(*entry)
	if e.expired(s.clock()) {
		s.remove(ele)
		return worker.Reply[*State](nil, s), nil
	}
	s.ll.MoveToFront(ele)
	return worker.Reply(e.val, s), nil
}

// Put stores val under key with no expiry.
func Put(s *State, key string, val any) (worker.Outcome[*State], error) {
	s.insert(key, val, time.Time{})
	return worker.NoReply(s), nil
}

// PutTTL stores val under key, expiring after ttl. A non-positive ttl stores
// without expiry.
func PutTTL(s *State, key string, val any, ttl time.Duration) (worker.Outcome[*State], error) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.clock().Add(ttl)
	}
	s.insert(key, val, expiresAt)
	return worker.NoReply(s), nil
}

// Delete removes key, if present.
func Delete(s *State, key string) (worker.Outcome[*State], error) {
	if ele, ok := s.items[key]; ok {
		s.remove(ele)
	}
	return worker.NoReply(s), nil
}

// Len replies with the number of entries, including not-yet-purged expired
// ones.
func Len(s *State) (worker.Outcome[*State], error) {
	return worker.Reply(s.ll.Len(), s), nil
}

// PurgeExpired removes all expired entries and replies with the count
// removed.
func PurgeExpired(s *State) (worker.Outcome[*State], error) {
	now := s.clock()
	removed := 0
	var next *list.Element
	for ele := s.ll.Front(); ele != nil; ele = next {
		next = ele.Next()
		if ele.Value.(*entry).expired(now) {
			s.remove(ele)
			removed++
		}
	}
	return worker.Reply(removed, s), nil
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (s *State) insert(key string, val any, expiresAt time.Time) {
	if ele, ok := s.items[key]; ok {
		s.ll.MoveToFront(ele)
		e := ele.Value.(*entry)
		e.val = val
		e.expiresAt = expiresAt
		return
	}
	s.items[key] = s.ll.PushFront(&entry{key: key, val: val, expiresAt: expiresAt})
	if s.ll.Len() > s.capacity {
		if last := s.ll.Back(); last != nil {
			s.remove(last)
		}
	}
}

func (s *State) remove(ele *list.Element) {
	s.ll.Remove(ele)
	delete(s.items, ele.Value.(*entry).key)
}
