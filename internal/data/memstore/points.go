package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sva-utd/portal-api/internal/domain/model"
)

// Points is a thread-safe in-memory points transaction ledger.
type Points struct {
	mu  sync.RWMutex
	txs []model.PointsTransaction
	now func() time.Time
}

// NewPoints builds a ledger seeded with the given transactions.
func NewPoints(seed []model.PointsTransaction) *Points {
	return &Points{
		txs: append([]model.PointsTransaction(nil), seed...),
		now: time.Now,
	}
}

// List returns a copy of all transactions.
func (s *Points) List() []model.PointsTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.PointsTransaction(nil), s.txs...)
}

// ListByUser returns a copy of the user's transactions.
func (s *Points) ListByUser(userID string) []model.PointsTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.PointsTransaction
	for _, tx := range s.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out
}

// Append records a new transaction. A missing ID is filled with a fresh UUID.
func (s *Points) Append(tx model.PointsTransaction) (model.PointsTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	now := s.now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	s.txs = append(s.txs, tx)
	return tx, nil
}
