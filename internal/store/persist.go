package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"moda/internal/models"
)

// SchemaVersion is the version of the persisted snapshot layout.
const SchemaVersion = 1

const storageTimeout = 5 * time.Second

// persistedState is the layout written to the storage slot.
type persistedState struct {
	Version int          `json:"version"`
	State   models.State `json:"state"`
}

// snapshotEnvelope is the layout read back. Collections stay raw so a
// malformed entry can be dropped without losing its neighbours.
type snapshotEnvelope struct {
	Version int                  `json:"version" validate:"required"`
	State   *snapshotCollections `json:"state" validate:"required"`
}

type snapshotCollections struct {
	Products json.RawMessage `json:"products"`
	Cart     json.RawMessage `json:"cart"`
	Orders   json.RawMessage `json:"orders"`
}

var snapshotValidator = validator.New()

// Encode serialises state into the persisted layout.
func Encode(state models.State) (string, error) {
	b, err := json.Marshal(persistedState{Version: SchemaVersion, State: state})
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}
	return string(b), nil
}

// Decode parses a persisted snapshot. It fails only when the envelope itself
// is unusable: bad JSON, a missing or unsupported version, or no state.
// Entries whose shape does not match their collection are dropped one by one
// and reported in skipped. Content is not judged: whatever the store
// accepted comes back unchanged.
func Decode(raw string) (state models.State, skipped []error, err error) {
	var env snapshotEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return models.State{}, nil, fmt.Errorf("failed to decode state: %w", err)
	}
	if err := snapshotValidator.Struct(env); err != nil {
		return models.State{}, nil, fmt.Errorf("invalid persisted state: %w", err)
	}
	if env.Version != SchemaVersion {
		return models.State{}, nil, fmt.Errorf("unsupported state version %d (want %d)", env.Version, SchemaVersion)
	}

	state.Products, skipped = decodeEntries[models.Product]("products", env.State.Products, skipped)
	state.Cart, skipped = decodeEntries[models.CartItem]("cart", env.State.Cart, skipped)
	state.Orders, skipped = decodeEntries[models.Order]("orders", env.State.Orders, skipped)
	return state, skipped, nil
}

// decodeEntries decodes a JSON array entry by entry. A missing or null
// collection is empty; a collection that is not an array is skipped whole.
func decodeEntries[T any](name string, raw json.RawMessage, skipped []error) ([]T, []error) {
	out := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, skipped
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out, append(skipped, fmt.Errorf("%s: %w", name, err))
	}
	for i, entry := range entries {
		var v T
		if err := json.Unmarshal(entry, &v); err != nil {
			skipped = append(skipped, fmt.Errorf("%s[%d]: %w", name, i, err))
			continue
		}
		out = append(out, v)
	}
	return out, skipped
}

func (s *Store) seedState() models.State {
	return models.State{
		Products: models.CloneProducts(s.seed),
		Cart:     []models.CartItem{},
		Orders:   []models.Order{},
	}
}

// restore reads the slot and falls back to the seed state when there is no
// usable snapshot.
func (s *Store) restore() models.State {
	if s.storage == nil {
		return s.seedState()
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Printf("Failed to read persisted state %q, using seed catalog: %v", s.key, err)
		return s.seedState()
	}
	if !ok {
		return s.seedState()
	}
	st, skipped, err := Decode(raw)
	if err != nil {
		log.Printf("Discarding persisted state %q, using seed catalog: %v", s.key, err)
		return s.seedState()
	}
	if len(skipped) > 0 {
		log.Printf("Dropped %d malformed entries from persisted state %q: %v", len(skipped), s.key, errors.Join(skipped...))
	}
	return st
}

// persist writes the snapshot to the slot. Failures are logged; the in-memory
// state stays authoritative.
func (s *Store) persist(state models.State) {
	if s.storage == nil {
		return
	}
	raw, err := Encode(state)
	if err != nil {
		log.Printf("Failed to persist state %q: %v", s.key, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		log.Printf("Failed to persist state %q: %v", s.key, err)
	}
}
