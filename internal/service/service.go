// Path: internal/service/service.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"arena-scout/internal/config"
	"arena-scout/internal/domain"
	"arena-scout/internal/errs"
	"arena-scout/internal/events"
	"arena-scout/internal/search"
	"arena-scout/internal/validate"
)

// Service owns the daemon's dataset lifecycle: warm-load from the store on
// startup, fetch immediately, then refresh on a timer. Each successful
// refresh swaps in a freshly validated dataset and a freshly built search
// engine; the result cache dies with the old engine. On fetch failure the
// last-known-good dataset keeps serving.
type Service struct {
	cfg     config.RefresherConfig
	fetcher Fetcher
	store   ProjectStore
	broker  *events.Broker
	logger  zerolog.Logger

	mu        sync.RWMutex
	projects  []domain.Project
	engine    *search.Engine
	freshness domain.Freshness
	lastErr   error

	stopChan chan struct{}
}

// NewService creates the core application service.
func NewService(
	cfg config.RefresherConfig,
	fetcher Fetcher,
	store ProjectStore,
	broker *events.Broker,
	logger zerolog.Logger,
) *Service {
	return &Service{
		cfg:      cfg,
		fetcher:  fetcher,
		store:    store,
		broker:   broker,
		logger:   logger.With().Str("component", "service").Logger(),
		engine:   search.NewEngine(nil),
		stopChan: make(chan struct{}),
	}
}

// Start runs the dataset lifecycle. It is a long-running, blocking method;
// cancel the context or call Stop to shut it down.
func (s *Service) Start(ctx context.Context) error {
	s.warmLoad(ctx)
	s.refresh(ctx)

	interval := time.Duration(s.cfg.IntervalMinutes) * time.Minute
	s.logger.Info().Dur("interval", interval).Msg("starting dataset refresher")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.stopChan:
			s.logger.Info().Msg("refresher stopped")
			return nil
		case <-ctx.Done():
			s.logger.Info().Msg("refresher context cancelled")
			return ctx.Err()
		}
	}
}

// Stop gracefully shuts down the refresh loop.
func (s *Service) Stop() {
	close(s.stopChan)
}

// warmLoad serves the stored last-known-good dataset until the first
// fetch lands, so a restart is not an outage.
func (s *Service) warmLoad(ctx context.Context) {
	projects, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("warm load failed, starting empty")
		return
	}
	if len(projects) == 0 {
		s.logger.Info().Msg("no stored dataset, waiting for first fetch")
		return
	}

	freshness := domain.Freshness{ProjectCount: len(projects)}
	if f, err := s.store.Freshness(ctx); err == nil && f != nil {
		freshness = *f
	}

	s.install(projects, freshness)
	s.logger.Info().Int("projects", len(projects)).
		Time("fetchedAt", freshness.FetchedAt).Msg("warm-loaded stored dataset")
}

// refresh fetches, validates, persists, and swaps in a new dataset. Any
// failure leaves the current dataset in place.
func (s *Service) refresh(ctx context.Context) {
	raw, err := s.fetcher.FetchProjects(ctx)
	if err != nil {
		s.setLastErr(err)
		s.logger.Error().Err(err).Msg("fetch failed, keeping last-known-good dataset")
		return
	}

	projects, dropped := validate.ValidateAll(raw)
	if dropped > 0 {
		s.logger.Warn().Int("dropped", dropped).Msg("dropped invalid project records")
	}
	if len(projects) == 0 {
		s.setLastErr(errs.ErrEmptyPayload)
		s.logger.Error().Msg("no valid projects in payload, keeping last-known-good dataset")
		return
	}

	freshness := domain.Freshness{
		FetchedAt:    time.Now().UTC(),
		ProjectCount: len(projects),
		DroppedCount: dropped,
	}
	if err := s.store.ReplaceAll(ctx, projects); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist dataset")
	} else if err := s.store.SetFreshness(ctx, freshness); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist freshness")
	}

	s.install(projects, freshness)
	s.broker.Publish(events.TopicDatasetRefreshed, len(projects))
	s.logger.Info().Int("projects", len(projects)).Msg("dataset refreshed")
}

// install atomically swaps in a new dataset and its engine.
func (s *Service) install(projects []domain.Project, freshness domain.Freshness) {
	engine := search.NewEngine(projects)
	s.mu.Lock()
	s.projects = projects
	s.engine = engine
	s.freshness = freshness
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Service) setLastErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Projects returns the current validated dataset.
func (s *Service) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

// Search runs a filter spec against the current dataset's engine.
func (s *Service) Search(spec search.FilterSpec) []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Search(spec)
}

// Freshness reports when the current dataset was loaded.
func (s *Service) Freshness() domain.Freshness {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freshness
}

// LastError returns the most recent fetch failure, or nil if the last
// refresh succeeded.
func (s *Service) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
