package store

import (
	"context"
	"sync"
	"time"
)

// MemoryMarkerStore is a MarkerStore held in process memory. It backs the
// "memory" subjects driver and tests.
type MemoryMarkerStore struct {
	mu      sync.RWMutex
	markers map[uint32]Marker
	now     func() time.Time
}

// NewMemoryMarkerStore creates an empty in-memory marker store.
func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{
		markers: make(map[uint32]Marker),
		now:     time.Now,
	}
}

var _ MarkerStore = (*MemoryMarkerStore)(nil)

// GetMarker implements MarkerStore.GetMarker.
func (s *MemoryMarkerStore) GetMarker(_ context.Context, id uint32) (*Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markers[id]
	if !ok {
		return nil, ErrMarkerNotFound
	}
	return &m, nil
}

// UpsertMarker implements MarkerStore.UpsertMarker.
func (s *MemoryMarkerStore) UpsertMarker(_ context.Context, id, imageID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok || m.ImageID != imageID {
		m = Marker{ID: id, ImageID: imageID}
	}
	m.UpdatedAt = s.now()
	s.markers[id] = m
	return nil
}

// SaveOCRText implements MarkerStore.SaveOCRText.
func (s *MemoryMarkerStore) SaveOCRText(_ context.Context, id uint32, text, model string) error {
	return s.update(id, func(m *Marker) {
		m.OriginalText = &text
		m.LastOCRModel = &model
	})
}

// SaveTranslation implements MarkerStore.SaveTranslation.
func (s *MemoryMarkerStore) SaveTranslation(_ context.Context, id uint32, text, service string) error {
	return s.update(id, func(m *Marker) {
		m.MachineTranslation = &text
		m.LastTranslationService = &service
	})
}

func (s *MemoryMarkerStore) update(id uint32, fn func(*Marker)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok {
		return ErrMarkerNotFound
	}
	fn(&m)
	m.UpdatedAt = s.now()
	s.markers[id] = m
	return nil
}
