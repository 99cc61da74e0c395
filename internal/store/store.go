package store

import (
	"sync"

	"github.com/respkv/respkv/internal/bytestr"
)

// Store is the shared key space: a map from byte-string key to typed item
// behind a single multi-reader/single-writer lock. Reads take the read
// side, every mutation takes the write side.
//
// View and Mutate run a caller closure while holding the lock. The closure
// must not call back into the Store; doing so deadlocks. That contract is
// documentation, not enforced by types.
type Store struct {
	mu   sync.RWMutex
	data map[bytestr.ByteStr]*Item

	// subscription registry, guarded separately; see pubsub.go
	subMu    sync.Mutex
	channels map[bytestr.ByteStr]map[uint64]struct{}
	subs     map[uint64]subscription
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data:     make(map[bytestr.ByteStr]*Item),
		channels: make(map[bytestr.ByteStr]map[uint64]struct{}),
		subs:     make(map[uint64]subscription),
	}
}

// Get returns a clone of the item under key, or nil if absent.
func (s *Store) Get(key bytestr.ByteStr) *Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.data[key]
	if !ok {
		return nil
	}
	return it.Clone()
}

// Exists counts how many of the given keys are present. A key named twice
// is counted twice.
func (s *Store) Exists(keys ...bytestr.ByteStr) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, key := range keys {
		if _, ok := s.data[key]; ok {
			n++
		}
	}
	return n
}

// Set stores item under key and returns the prior item, or nil if the key
// was absent.
func (s *Store) Set(key bytestr.ByteStr, it *Item) *Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := s.data[key]
	s.data[key] = it
	return prior
}

// Del removes the given keys and returns how many were present.
func (s *Store) Del(keys ...bytestr.ByteStr) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			n++
		}
	}
	return n
}

// Rename atomically moves the value under old to new, overwriting any value
// already under new. Returns ErrNoSuchKey if old is absent.
func (s *Store) Rename(old, new bytestr.ByteStr) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.data[old]
	if !ok {
		return ErrNoSuchKey
	}
	delete(s.data, old)
	s.data[new] = it
	return nil
}

// FlushAll empties the key space. Subscriptions are unaffected.
func (s *Store) FlushAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[bytestr.ByteStr]*Item)
}

// View runs f under the read lock with the item stored at key, or nil if
// the key is absent. The item reference is valid only for the duration of
// the call; f must copy anything it wants to keep and must not call back
// into the store.
func (s *Store) View(key bytestr.ByteStr, f func(it *Item)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f(s.data[key])
}

// Mutate runs f under the write lock with the item stored at key, or nil if
// the key is absent. f may modify the item in place. Same closure contract
// as View.
func (s *Store) Mutate(key bytestr.ByteStr, f func(it *Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.data[key])
}

// HSet sets field to value inside the hash at key, creating the hash if the
// key is absent. Returns the prior field value (and whether there was one),
// or ErrWrongType if the key holds a non-hash.
func (s *Store) HSet(key, field, value bytestr.ByteStr) (prior bytestr.ByteStr, existed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.data[key]
	if !ok {
		it = NewHashItem()
		s.data[key] = it
	} else if !it.IsHash() {
		return "", false, ErrWrongType
	}
	prior, existed = it.Hash[field]
	it.Hash[field] = value
	return prior, existed, nil
}

// Len returns the number of keys. Used by server stats.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
