// Package store holds audit records between pipeline stages. The store is
// keyed by document identity; each record is owned by the identity that
// created it. Concurrent access across identities is safe, concurrent
// writes to the same identity are last-write-wins.
package store

import (
	"github.com/sentinel-audit/sentinel/internal/model"
)

// Store is the record vault injected into each stage. The in-memory
// implementation is the default; a persistent backend can substitute
// without touching stage logic.
type Store interface {
	// Get returns the record for the document identity, or
	// model.ErrRecordNotFound.
	Get(docID string) (*model.DocumentRecord, error)

	// Put creates or replaces the record for its document identity.
	Put(rec *model.DocumentRecord) error

	// Update applies fn to the stored record and writes it back.
	Update(docID string, fn func(*model.DocumentRecord)) error
}
