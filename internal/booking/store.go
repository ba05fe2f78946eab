package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wolfman30/clinic-booking-widget/internal/snapshot"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

// Store reads and writes the booking map as one JSON blob under a fixed key.
type Store struct {
	blobs  snapshot.BlobStore
	key    string
	logger *logging.Logger
}

// NewStore creates a store over blobs. An empty key defaults to "appointments".
func NewStore(blobs snapshot.BlobStore, key string, logger *logging.Logger) *Store {
	if blobs == nil {
		panic("booking: blob store required")
	}
	if key == "" {
		key = "appointments"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{blobs: blobs, key: key, logger: logger}
}

// Load returns the persisted map. Missing, unreadable or malformed data
// yields an empty map together with the cause; the map is never nil.
func (s *Store) Load(ctx context.Context) (*Map, error) {
	raw, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("snapshot unreadable, starting empty", "key", s.key, "error", err)
		return NewMap(), fmt.Errorf("booking: load snapshot: %w", err)
	}
	if !ok || raw == "" {
		return NewMap(), nil
	}

	m := NewMap()
	if err := json.Unmarshal([]byte(raw), m); err != nil {
		s.logger.Warn("snapshot malformed, starting empty", "key", s.key, "error", err)
		return NewMap(), fmt.Errorf("booking: decode snapshot: %w", err)
	}
	return m, nil
}

// Save overwrites the snapshot with the full map.
func (s *Store) Save(ctx context.Context, m *Map) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("booking: encode snapshot: %w", err)
	}
	if err := s.blobs.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("booking: save snapshot: %w", err)
	}
	return nil
}
