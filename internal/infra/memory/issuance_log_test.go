package memory

import (
	"context"
	"testing"
	"time"

	"basegenius-quiz-service/internal/domain"
)

func TestIssuanceLogRecords(t *testing.T) {
	log := NewIssuanceLog()

	err := log.Record(context.Background(), domain.IssuanceRecord{
		Address:  "0x8ba1f109551bD432803012645Ac136ddd64DBA72",
		Week:     9,
		IssuedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if got := log.Records(9); len(got) != 1 {
		t.Fatalf("expected 1 record for week 9, got %d", len(got))
	}
	if got := log.Records(10); len(got) != 0 {
		t.Fatalf("expected no records for week 10, got %d", len(got))
	}
}
