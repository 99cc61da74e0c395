package store

import (
	"sort"
	"sync/atomic"

	"github.com/respkv/respkv/internal/bytestr"
)

// MessageFunc delivers one published message to a subscriber. It owns only
// a send handle to the subscriber's delivery queue, never the connection
// itself, so unsubscribing is just dropping the registry entry. It may be
// invoked for a subscriber that has already unsubscribed (the publisher
// works off a snapshot); implementations must tolerate that and drop.
type MessageFunc func(channel, payload bytestr.ByteStr)

type subscription struct {
	channel bytestr.ByteStr
	deliver MessageFunc
}

// Subscription ids are allocated process-wide, so an id never repeats
// across connections.
var nextSubID atomic.Uint64

// Subscribe registers deliver for messages published to channel and
// returns the subscription id to unsubscribe with.
func (s *Store) Subscribe(channel bytestr.ByteStr, deliver MessageFunc) uint64 {
	id := nextSubID.Add(1)
	s.subMu.Lock()
	defer s.subMu.Unlock()
	set, ok := s.channels[channel]
	if !ok {
		set = make(map[uint64]struct{})
		s.channels[channel] = set
	}
	set[id] = struct{}{}
	s.subs[id] = subscription{channel: channel, deliver: deliver}
	return id
}

// Unsubscribe drops the subscription with the given id from both indexes.
// Unknown ids are a no-op, so calling it twice is harmless.
func (s *Store) Unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)
	set := s.channels[sub.channel]
	delete(set, id)
	if len(set) == 0 {
		delete(s.channels, sub.channel)
	}
}

// Publish delivers payload to every subscriber of channel and returns how
// many callbacks were invoked.
//
// The subscriber list is snapshotted under the registry lock and the lock
// is released before any callback runs: callbacks re-enter connection
// delivery queues and may block, and must never be able to deadlock with a
// concurrent subscribe or publish. Within one publish, callbacks run in
// ascending subscription-id order.
func (s *Store) Publish(channel, payload bytestr.ByteStr) int64 {
	s.subMu.Lock()
	ids := make([]uint64, 0, len(s.channels[channel]))
	for id := range s.channels[channel] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	delivers := make([]MessageFunc, len(ids))
	for i, id := range ids {
		delivers[i] = s.subs[id].deliver
	}
	s.subMu.Unlock()

	for _, deliver := range delivers {
		deliver(channel, payload)
	}
	return int64(len(delivers))
}

// NumChannels returns the number of channels with at least one subscriber.
// Used by server stats.
func (s *Store) NumChannels() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.channels)
}
