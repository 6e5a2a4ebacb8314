package store

import (
	"slices"
	"strings"

	"moda/internal/models"
)

// Collection is a bit set naming the store's collections.
type Collection uint8

const (
	Products Collection = 1 << iota
	Cart
	Orders

	All = Products | Cart | Orders
)

// Has reports whether c includes any collection in other.
func (c Collection) Has(other Collection) bool {
	return c&other != 0
}

func (c Collection) String() string {
	var names []string
	if c.Has(Products) {
		names = append(names, "products")
	}
	if c.Has(Cart) {
		names = append(names, "cart")
	}
	if c.Has(Orders) {
		names = append(names, "orders")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Change is delivered to listeners after a mutation. State is the listener's
// own copy of the state right after the mutation.
type Change struct {
	Collections Collection
	State       models.State
}

// Listener receives changes.
type Listener func(Change)

type subscription struct {
	collections Collection
	listener    Listener
}

// Subscribe registers listener for mutations touching any of collections (all
// of them when none are given). Listeners run synchronously, in registration
// order, before the mutating call returns. The returned func unsubscribes.
func (s *Store) Subscribe(listener Listener, collections ...Collection) func() {
	var mask Collection
	for _, c := range collections {
		mask |= c
	}
	if mask == 0 {
		mask = All
	}

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = subscription{collections: mask, listener: listener}
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Select subscribes fn to a value derived from the state. fn is called with the
// selected value after every mutation touching collections.
func Select[T any](s *Store, selector func(models.State) T, fn func(T), collections ...Collection) func() {
	return s.Subscribe(func(c Change) {
		fn(selector(c.State))
	}, collections...)
}

func (s *Store) notify(change Change) {
	s.subMu.RLock()
	ids := make([]uint64, 0, len(s.subs))
	subs := make(map[uint64]subscription, len(s.subs))
	for id, sub := range s.subs {
		ids = append(ids, id)
		subs[id] = sub
	}
	s.subMu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		sub := subs[id]
		if !sub.collections.Has(change.Collections) {
			continue
		}
		sub.listener(Change{Collections: change.Collections, State: change.State.Clone()})
	}
}
