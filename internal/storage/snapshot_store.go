// Path: internal/storage/snapshot_store.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"arena-scout/internal/domain"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id                INTEGER PRIMARY KEY,
	slug              TEXT NOT NULL,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	country           TEXT NOT NULL DEFAULT '',
	tracks            TEXT NOT NULL DEFAULT '',
	team_members      TEXT NOT NULL DEFAULT '[]',
	repo_link         TEXT NOT NULL DEFAULT '',
	presentation_link TEXT NOT NULL DEFAULT '',
	demo_link         TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS snapshots (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id  INTEGER NOT NULL REFERENCES projects(id),
	likes       INTEGER NOT NULL,
	comments    INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_project_time
	ON snapshots(project_id, recorded_at);
`

// SnapshotStore persists timestamped engagement snapshots to a local
// SQLite database. The report tool writes one snapshot batch per fetch
// and computes trends from the accumulated history.
type SnapshotStore struct {
	db *sql.DB
}

// OpenSnapshotStore opens (or creates) the SQLite database at path and
// ensures the schema exists. The caller should Close the store when done.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// RecordSnapshot upserts the project rows and appends one engagement
// snapshot per project, all at the same timestamp, in one transaction.
func (s *SnapshotStore) RecordSnapshot(ctx context.Context, projects []domain.Project, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (id, slug, name, description, country, tracks, team_members,
		                      repo_link, presentation_link, demo_link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			slug = excluded.slug,
			name = excluded.name,
			description = excluded.description,
			country = excluded.country,
			tracks = excluded.tracks,
			team_members = excluded.team_members,
			repo_link = excluded.repo_link,
			presentation_link = excluded.presentation_link,
			demo_link = excluded.demo_link`)
	if err != nil {
		return fmt.Errorf("prepare project upsert: %w", err)
	}
	defer upsert.Close()

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshots (project_id, likes, comments, recorded_at)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer insert.Close()

	for _, p := range projects {
		members, err := json.Marshal(p.TeamMembers)
		if err != nil {
			return fmt.Errorf("encode team members for project %d: %w", p.ID, err)
		}
		_, err = upsert.ExecContext(ctx, p.ID, p.Slug, p.Name, p.Description, p.Country,
			strings.Join(p.Tracks, ","), string(members),
			p.RepoLink, p.PresentationLink, p.DemoLink)
		if err != nil {
			return fmt.Errorf("upsert project %d: %w", p.ID, err)
		}
		if _, err := insert.ExecContext(ctx, p.ID, p.Likes, p.Comments, at.UTC()); err != nil {
			return fmt.Errorf("insert snapshot for project %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LatestProjects reconstructs the newest snapshot of every stored project,
// used by the report tool's offline mode.
func (s *SnapshotStore) LatestProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH ranked AS (
			SELECT project_id, likes, comments, recorded_at,
			       ROW_NUMBER() OVER (PARTITION BY project_id ORDER BY recorded_at DESC) AS rn
			FROM snapshots
		)
		SELECT p.id, p.slug, p.name, p.description, p.country, p.tracks, p.team_members,
		       p.repo_link, p.presentation_link, p.demo_link,
		       r.likes, r.comments, r.recorded_at
		FROM projects p
		JOIN ranked r ON r.project_id = p.id AND r.rn = 1`)
	if err != nil {
		return nil, fmt.Errorf("query latest projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var (
			p          domain.Project
			tracks     string
			members    string
			recordedAt time.Time
		)
		err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.Country, &tracks, &members,
			&p.RepoLink, &p.PresentationLink, &p.DemoLink, &p.Likes, &p.Comments, &recordedAt)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if tracks != "" {
			p.Tracks = strings.Split(tracks, ",")
		} else {
			p.Tracks = []string{}
		}
		if err := json.Unmarshal([]byte(members), &p.TeamMembers); err != nil {
			p.TeamMembers = []domain.TeamMember{}
		}
		p.SubmittedAt = recordedAt
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// FirstLast finds, for every project with at least one snapshot since the
// given time, its earliest and latest reading inside the window. Deltas
// and ordering are left to the trend aggregator; history is not attached.
func (s *SnapshotStore) FirstLast(ctx context.Context, since time.Time) ([]domain.TrendRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH ranked AS (
			SELECT project_id, likes, comments, recorded_at,
			       ROW_NUMBER() OVER (PARTITION BY project_id ORDER BY recorded_at ASC)  AS first_rank,
			       ROW_NUMBER() OVER (PARTITION BY project_id ORDER BY recorded_at DESC) AS last_rank
			FROM snapshots
			WHERE recorded_at >= ?
		)
		SELECT p.id, p.slug, p.name, p.country,
		       l.likes, l.comments, f.likes, f.comments,
		       f.recorded_at, l.recorded_at
		FROM ranked f
		JOIN ranked l ON l.project_id = f.project_id AND l.last_rank = 1
		JOIN projects p ON p.id = f.project_id
		WHERE f.first_rank = 1`,
		since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query first/last snapshots: %w", err)
	}
	defer rows.Close()

	var records []domain.TrendRecord
	for rows.Next() {
		var r domain.TrendRecord
		err := rows.Scan(&r.Project.ID, &r.Project.Slug, &r.Project.Name, &r.Project.Country,
			&r.CurrentLikes, &r.CurrentComments, &r.StartLikes, &r.StartComments,
			&r.EarliestAt, &r.LatestAt)
		if err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}
	return records, nil
}

// History returns every snapshot for one project since the given time,
// oldest first, for sparkline rendering.
func (s *SnapshotStore) History(ctx context.Context, projectID int, since time.Time) ([]domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, likes, comments, recorded_at
		FROM snapshots
		WHERE project_id = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC`,
		projectID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query history for project %d: %w", projectID, err)
	}
	defer rows.Close()

	var history []domain.Snapshot
	for rows.Next() {
		var snap domain.Snapshot
		if err := rows.Scan(&snap.ProjectID, &snap.Likes, &snap.Comments, &snap.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		history = append(history, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return history, nil
}
