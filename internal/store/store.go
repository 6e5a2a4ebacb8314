// Package store owns the shop state (products, cart, orders), applies every
// mutation, notifies subscribers and mirrors the state to a persisted slot.
package store

import (
	"context"
	"sync"

	"moda/internal/models"
)

// DefaultKey is the persisted slot the state is written to.
const DefaultKey = "shop-storage"

// Storage is the persisted key-value substrate the store mirrors itself to.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store is the single owner of the shop state.
//
// Mutations are serialised by writeMu for their whole duration (apply, persist,
// notify), so listeners observe changes in the order they were made. mu guards
// the state itself and is released before listeners run, which lets a listener
// read the store. A listener must not call a mutation.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   models.State

	storage Storage
	key     string
	seed    []models.Product

	subMu  sync.RWMutex
	subs   map[uint64]subscription
	nextID uint64
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the persisted slot name.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithSeed overrides the seed catalog used when nothing valid is persisted.
func WithSeed(products []models.Product) Option {
	return func(s *Store) { s.seed = models.CloneProducts(products) }
}

// New creates a store backed by storage and restores the persisted state if the
// slot holds a valid snapshot. Otherwise it starts from the seed catalog.
// A nil storage keeps the state in memory only.
func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		seed:    SeedProducts(),
		subs:    make(map[uint64]subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.restore()
	return s
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Products returns a copy of the product collection.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneProducts(s.state.Products)
}

// Cart returns a copy of the cart.
func (s *Store) Cart() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCart(s.state.Cart)
}

// Orders returns a copy of the orders, most recent first.
func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneOrders(s.state.Orders)
}

// Product looks up a product by id.
func (s *Store) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.state.Products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Product{}, false
}

// Order looks up an order by id.
func (s *Store) Order(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.state.Orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return models.Order{}, false
}

// mutate applies fn to a private copy of the state. fn reports which
// collections it changed; when it changed nothing the state, the slot and the
// listeners are left alone.
func (s *Store) mutate(fn func(st *models.State) Collection) Collection {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := s.state.Clone()
	changed := fn(&next)
	if changed == 0 {
		s.mu.Unlock()
		return 0
	}
	s.state = next
	snapshot := next.Clone()
	s.mu.Unlock()

	s.persist(snapshot)
	s.notify(Change{Collections: changed, State: snapshot})
	return changed
}
