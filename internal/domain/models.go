// Path: internal/domain/models.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default filter bounds. A range equal to its default is treated as
// "no filter" by the search engine.
const (
	MinTeamSize = 1
	MaxTeamSize = 50
	MinLikes    = 0
	MaxLikes    = 100
)

// TeamMember is a single member of a project's team.
type TeamMember struct {
	ID          int    `json:"id" bson:"id"`
	DisplayName string `json:"displayName" bson:"displayName"`
	Username    string `json:"username" bson:"username"`
}

// Project represents one validated hackathon project. Instances only come
// out of the validator (or the stores, which only ever see validated data),
// so every field here can be trusted: counts are non-negative, strings are
// sanitized and length-capped, and link fields are either empty or http(s).
type Project struct {
	ID               int          `json:"id" bson:"_id"`
	Slug             string       `json:"slug" bson:"slug"`
	Name             string       `json:"name" bson:"name"`
	Description      string       `json:"description" bson:"description"`
	Country          string       `json:"country" bson:"country"`
	Tracks           []string     `json:"tracks" bson:"tracks"`
	TeamMembers      []TeamMember `json:"teamMembers" bson:"teamMembers"`
	Likes            int          `json:"likes" bson:"likes"`
	Comments         int          `json:"comments" bson:"comments"`
	RepoLink         string       `json:"repoLink" bson:"repoLink"`
	PresentationLink string       `json:"presentationLink" bson:"presentationLink"`
	DemoLink         string       `json:"demoLink" bson:"demoLink"`
	SubmittedAt      time.Time    `json:"submittedAt" bson:"submittedAt"`
}

// TeamSize is derived from the member list, never trusted from upstream.
// Projects with no listed members count as a team of one.
func (p Project) TeamSize() int {
	if len(p.TeamMembers) == 0 {
		return 1
	}
	return len(p.TeamMembers)
}

// ArenaURL builds the public detail-page link for the project.
func (p Project) ArenaURL(base string) string {
	return fmt.Sprintf("%s/projects/%s", strings.TrimRight(base, "/"), p.Slug)
}

// Snapshot is one engagement reading for a project at a point in time.
type Snapshot struct {
	ProjectID  int       `json:"projectId"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	RecordedAt time.Time `json:"recordedAt"`
}

// TrendRecord holds the engagement delta for one project between the
// earliest and latest snapshot inside a lookback window. It exists only
// transiently per report invocation.
type TrendRecord struct {
	Project         Project    `json:"project"`
	CurrentLikes    int        `json:"currentLikes"`
	CurrentComments int        `json:"currentComments"`
	StartLikes      int        `json:"startLikes"`
	StartComments   int        `json:"startComments"`
	LikesChange     int        `json:"likesChange"`
	CommentsChange  int        `json:"commentsChange"`
	EarliestAt      time.Time  `json:"earliestAt"`
	LatestAt        time.Time  `json:"latestAt"`
	History         []Snapshot `json:"history"`
}

// Freshness records when the daemon last replaced its dataset, stored
// alongside the projects so a restart can tell how stale its warm copy is.
type Freshness struct {
	ID           string    `bson:"_id"`
	FetchedAt    time.Time `bson:"fetchedAt"`
	ProjectCount int       `bson:"projectCount"`
	DroppedCount int       `bson:"droppedCount"`
}
