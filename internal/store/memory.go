package store

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/sentinel-audit/sentinel/internal/model"
)

// MemoryStore keeps records for the process lifetime. No TTL, no eviction.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get returns the record for the document identity.
func (s *MemoryStore) Get(docID string) (*model.DocumentRecord, error) {
	if val, found := s.cache.Get(docID); found {
		return val.(*model.DocumentRecord), nil
	}
	return nil, model.ErrRecordNotFound
}

// Put creates or replaces the record.
func (s *MemoryStore) Put(rec *model.DocumentRecord) error {
	s.cache.Set(rec.DocumentID, rec, gocache.NoExpiration)
	return nil
}

// Update applies fn to the stored record and writes it back.
func (s *MemoryStore) Update(docID string, fn func(*model.DocumentRecord)) error {
	rec, err := s.Get(docID)
	if err != nil {
		return err
	}
	fn(rec)
	return s.Put(rec)
}
