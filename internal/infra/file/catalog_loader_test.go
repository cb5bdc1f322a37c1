package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"basegenius-quiz-service/internal/domain"
)

func TestCatalogLoaderReadsDocument(t *testing.T) {
	doc := `{
		"lastUpdated": "2026-08-24T00:00:00Z",
		"weekNumber": 34,
		"totalQuestions": 1,
		"questions": [
			{
				"id": 1,
				"question": "Which network hosts the badge contract?",
				"options": ["Base", "Somewhere else"],
				"correctIndex": 0,
				"sourceUrl": "https://example.com",
				"sourceCast": "@base",
				"explanation": "It is deployed on Base.",
				"difficulty": "easy",
				"category": "ecosystem"
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "quiz-questions.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	catalog, err := NewCatalogLoader(path).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if catalog.WeekNumber != 34 {
		t.Fatalf("expected week 34, got %d", catalog.WeekNumber)
	}
	if len(catalog.Questions) != 1 || catalog.Questions[0].Difficulty != domain.DifficultyEasy {
		t.Fatalf("unexpected questions: %+v", catalog.Questions)
	}
}

func TestCatalogLoaderMissingFile(t *testing.T) {
	_, err := NewCatalogLoader(filepath.Join(t.TempDir(), "nope.json")).LoadCatalog(context.Background())
	if !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected catalog-not-found, got %v", err)
	}
}

func TestCatalogLoaderRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := NewCatalogLoader(path).LoadCatalog(context.Background()); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
