// Path: internal/service/storage.go
package service

import (
	"context"

	"arena-scout/internal/domain"
)

// Fetcher is the upstream source of raw project records.
type Fetcher interface {
	FetchProjects(ctx context.Context) ([]map[string]any, error)
}

// ProjectStore persists the last-known-good validated dataset. The daemon
// warm-loads from it on startup and falls back to it when upstream fails.
type ProjectStore interface {
	// ReplaceAll swaps the stored dataset for a new one.
	ReplaceAll(ctx context.Context, projects []domain.Project) error

	// FindAll returns every stored project.
	FindAll(ctx context.Context) ([]domain.Project, error)

	// SetFreshness records dataset metadata for the latest replace.
	SetFreshness(ctx context.Context, f domain.Freshness) error

	// Freshness returns the latest dataset metadata, nil if never written.
	Freshness(ctx context.Context) (*domain.Freshness, error)
}
