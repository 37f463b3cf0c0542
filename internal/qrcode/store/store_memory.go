// Package store persists QR code records per owner.
package store

import (
	"context"
	"sort"
	"sync"

	"qrgen/internal/qrcode/models"
	id "qrgen/pkg/domain"
	"qrgen/pkg/platform/sentinel"
)

type entry struct {
	record models.QRCode
	seq    uint64
}

// InMemoryStore keeps records grouped by owner.
type InMemoryStore struct {
	mu      sync.RWMutex
	byOwner map[id.UserID][]entry
	ids     map[id.QRCodeID]struct{}
	seq     uint64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byOwner: make(map[id.UserID][]entry),
		ids:     make(map[id.QRCodeID]struct{}),
	}
}

func (s *InMemoryStore) Save(_ context.Context, qr *models.QRCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[qr.ID]; exists {
		return sentinel.ErrConflict
	}
	s.seq++
	s.ids[qr.ID] = struct{}{}
	s.byOwner[qr.UserID] = append(s.byOwner[qr.UserID], entry{record: *qr, seq: s.seq})
	return nil
}

// ListByUser returns the owner's records newest first. Records with equal
// timestamps are ordered by insertion, later first.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.QRCode, error) {
	s.mu.RLock()
	entries := make([]entry, len(s.byOwner[userID]))
	copy(entries, s.byOwner[userID])
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.record.CreatedAt.Equal(b.record.CreatedAt) {
			return a.record.CreatedAt.After(b.record.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]*models.QRCode, 0, len(entries))
	for i := range entries {
		out = append(out, &entries[i].record)
	}
	return out, nil
}
