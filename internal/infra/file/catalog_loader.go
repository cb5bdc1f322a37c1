package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"basegenius-quiz-service/internal/domain"
)

// CatalogLoader reads the weekly question document from a JSON file on disk.
// This is the default source; the document is produced by the weekly
// question generation pipeline.
type CatalogLoader struct {
	path string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

func (l *CatalogLoader) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Catalog{}, domain.ErrCatalogNotFound
		}
		return domain.Catalog{}, fmt.Errorf("read catalog %s: %w", l.path, err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("unmarshal catalog %s: %w", l.path, err)
	}
	if len(catalog.Questions) == 0 {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	return catalog, nil
}
