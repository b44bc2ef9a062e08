package datasync

import (
	"context"
	"sync"

	"carelink-srv/internal/model"
)

// MemorySource is the device-side store of records awaiting sync. Records
// are fed in through the ingest API and held until the caregiver side
// acknowledges them.
type MemorySource struct {
	mu sync.Mutex
	// pending preserves arrival order per (link, category).
	pending map[string][]model.SyncRecord
}

var _ Source = (*MemorySource)(nil)

func NewMemorySource() *MemorySource {
	return &MemorySource{pending: make(map[string][]model.SyncRecord)}
}

// Add appends a record for later sync. Re-adding an ID already pending for
// the link is a no-op, so retried ingest calls stay idempotent.
func (s *MemorySource) Add(linkID string, rec model.SyncRecord) {
	key := linkID + "|" + string(rec.Category)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.pending[key] {
		if existing.ID == rec.ID {
			return
		}
	}
	s.pending[key] = append(s.pending[key], rec)
}

// PendingCount returns the number of unsynced records for the link.
func (s *MemorySource) PendingCount(linkID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, recs := range s.pending {
		if len(key) > len(linkID) && key[:len(linkID)+1] == linkID+"|" {
			n += len(recs)
		}
	}
	return n
}

func (s *MemorySource) Pending(_ context.Context, linkID string, category model.SyncCategory, limit int) ([]model.SyncRecord, error) {
	key := linkID + "|" + string(category)

	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.pending[key]
	if len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]model.SyncRecord, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *MemorySource) MarkSynced(_ context.Context, linkID string, recordIDs []string) error {
	done := make(map[string]bool, len(recordIDs))
	for _, id := range recordIDs {
		done[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, recs := range s.pending {
		if len(key) <= len(linkID) || key[:len(linkID)+1] != linkID+"|" {
			continue
		}
		kept := recs[:0]
		for _, rec := range recs {
			if !done[rec.ID] {
				kept = append(kept, rec)
			}
		}
		if len(kept) == 0 {
			delete(s.pending, key)
			continue
		}
		s.pending[key] = kept
	}
	return nil
}
