package memory

import (
	"context"
	"sync"

	"basegenius-quiz-service/internal/domain"
)

// IssuanceLog is an in-memory implementation of app.IssuanceLog. Audit only:
// nothing reads it to gate signing, the contract's claimed-status check owns
// replay protection.
type IssuanceLog struct {
	mu      sync.RWMutex
	records map[uint64][]domain.IssuanceRecord
}

func NewIssuanceLog() *IssuanceLog {
	return &IssuanceLog{records: make(map[uint64][]domain.IssuanceRecord)}
}

func (l *IssuanceLog) Record(_ context.Context, rec domain.IssuanceRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[rec.Week] = append(l.records[rec.Week], rec)
	return nil
}

// Records returns the issuance entries for a week.
func (l *IssuanceLog) Records(week uint64) []domain.IssuanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.IssuanceRecord, len(l.records[week]))
	copy(out, l.records[week])
	return out
}
