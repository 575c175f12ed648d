// Path: internal/trend/aggregator.go
package trend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"arena-scout/internal/domain"
)

// Period is a named lookback window for trend computation.
type Period string

const (
	PeriodHour  Period = "1h"
	PeriodDay   Period = "24h"
	PeriodWeek  Period = "7d"
	PeriodMonth Period = "30d"
	PeriodAll   Period = "all"
)

// ParsePeriod validates a period flag value.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodHour, PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (want 1h, 24h, 7d, 30d, or all)", s)
	}
}

// Window maps the period to its lookback duration.
func (p Period) Window() time.Duration {
	switch p {
	case PeriodHour:
		return time.Hour
	case PeriodDay:
		return 24 * time.Hour
	case PeriodWeek:
		return 168 * time.Hour
	case PeriodMonth:
		return 720 * time.Hour
	default:
		return 8760 * time.Hour
	}
}

// Store is the snapshot history the aggregator reads from.
type Store interface {
	FirstLast(ctx context.Context, since time.Time) ([]domain.TrendRecord, error)
	History(ctx context.Context, projectID int, since time.Time) ([]domain.Snapshot, error)
}

// Aggregator computes per-project engagement deltas between the earliest
// and latest snapshot inside a requested window.
type Aggregator struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewAggregator creates an aggregator over a snapshot store.
func NewAggregator(store Store, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		logger: logger.With().Str("component", "trend").Logger(),
		now:    time.Now,
	}
}

// Compute returns at most limit trending projects for the period, ordered
// by likes delta, then comments delta, then current likes, all descending.
// Projects whose likes and comments both failed to grow are excluded.
// Store errors are logged and yield an empty list rather than propagating.
func (a *Aggregator) Compute(ctx context.Context, period Period, limit int) []domain.TrendRecord {
	since := a.now().UTC().Add(-period.Window())

	records, err := a.store.FirstLast(ctx, since)
	if err != nil {
		a.logger.Error().Err(err).Str("period", string(period)).Msg("trend query failed")
		return []domain.TrendRecord{}
	}

	trending := make([]domain.TrendRecord, 0, len(records))
	for _, r := range records {
		r.LikesChange = r.CurrentLikes - r.StartLikes
		r.CommentsChange = r.CurrentComments - r.StartComments
		if r.LikesChange <= 0 && r.CommentsChange <= 0 {
			continue
		}
		trending = append(trending, r)
	}

	sort.Slice(trending, func(i, j int) bool {
		a, b := trending[i], trending[j]
		if a.LikesChange != b.LikesChange {
			return a.LikesChange > b.LikesChange
		}
		if a.CommentsChange != b.CommentsChange {
			return a.CommentsChange > b.CommentsChange
		}
		return a.CurrentLikes > b.CurrentLikes
	})

	if limit > 0 && len(trending) > limit {
		trending = trending[:limit]
	}

	for i := range trending {
		history, err := a.store.History(ctx, trending[i].Project.ID, since)
		if err != nil {
			a.logger.Warn().Err(err).Int("projectId", trending[i].Project.ID).
				Msg("history query failed, omitting sparkline data")
			continue
		}
		trending[i].History = history
	}
	return trending
}
