// Package catalog loads the provider catalog from local files and validates
// catalog records from every backend.
package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/borneomart/shipping-quote/internal/core/domain"
	"github.com/borneomart/shipping-quote/internal/core/ports"
)

// Document is the on-disk catalog layout. JSON files parse too, being valid
// YAML.
type Document struct {
	Providers []domain.ShippingProvider `yaml:"providers"`
}

// FileRepository implements ports.ProviderRepository over a YAML or JSON
// file. The file is re-read on every call so edits take effect without a
// restart.
type FileRepository struct {
	path      string
	sanitizer *Sanitizer
}

var _ ports.ProviderRepository = (*FileRepository)(nil)

func NewFileRepository(path string, sanitizer *Sanitizer) *FileRepository {
	return &FileRepository{path: path, sanitizer: sanitizer}
}

func (r *FileRepository) ListProviders(ctx context.Context) ([]domain.ShippingProvider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", r.path, err)
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", r.path, err)
	}
	providers, _ := r.sanitizer.Sanitize(doc.Providers)
	return providers, nil
}

// Parse decodes a catalog document.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}
	return &doc, nil
}
