// Path: internal/storage/snapshot_store_test.go
package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-scout/internal/domain"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := OpenSnapshotStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func snapshotFixture(likes, comments int) []domain.Project {
	return []domain.Project{
		{
			ID: 1, Slug: "hakata-finance", Name: "Hakata Finance",
			Description: "perp dex", Country: "US", Tracks: []string{"DeFi", "Payments"},
			TeamMembers: []domain.TeamMember{{ID: 11, DisplayName: "Ana", Username: "ana"}},
			Likes:       likes, Comments: comments,
		},
	}
}

func TestRecordAndLatestProjects(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(10, 1), t0))
	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(42, 7), t0.Add(2*time.Hour)))

	projects, err := store.LatestProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, 42, p.Likes, "offline load must see the newest snapshot")
	assert.Equal(t, 7, p.Comments)
	assert.Equal(t, []string{"DeFi", "Payments"}, p.Tracks)
	require.Len(t, p.TeamMembers, 1)
	assert.Equal(t, "Ana", p.TeamMembers[0].DisplayName)
}

func TestFirstLastWithinWindow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	// One reading outside the window, three inside.
	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(5, 0), t0.Add(-48*time.Hour)))
	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(10, 1), t0))
	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(20, 3), t0.Add(time.Hour)))
	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(42, 7), t0.Add(2*time.Hour)))

	records, err := store.FirstLast(ctx, t0)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, 1, r.Project.ID)
	assert.Equal(t, "Hakata Finance", r.Project.Name)
	assert.Equal(t, 10, r.StartLikes, "earliest reading inside the window, not the older one")
	assert.Equal(t, 42, r.CurrentLikes)
	assert.Equal(t, 1, r.StartComments)
	assert.Equal(t, 7, r.CurrentComments)
	assert.True(t, r.EarliestAt.Before(r.LatestAt))
}

func TestFirstLastEmptyWindow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(10, 1),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))

	records, err := store.FirstLast(ctx, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryOrderedOldestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(10, 1), t0))
	require.NoError(t, store.RecordSnapshot(ctx, snapshotFixture(42, 7), t0.Add(time.Hour)))

	history, err := store.History(ctx, 1, t0.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 10, history[0].Likes)
	assert.Equal(t, 42, history[1].Likes)
	assert.True(t, history[0].RecordedAt.Before(history[1].RecordedAt))
}
