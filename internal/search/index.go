// Path: internal/search/index.go
package search

import (
	"strings"

	"arena-scout/internal/domain"
)

// IndexEntry is a precomputed, normalized projection of one project used
// for fast repeated scoring. Entries are immutable for the lifetime of a
// loaded dataset; keystroke-driven search must not re-lowercase strings on
// every call, so that cost is paid once here per data load.
type IndexEntry struct {
	Project     domain.Project
	SearchText  string // lowercase(name + " " + description)
	NameLower   string
	DescLower   string
	CountryLow  string
	TracksLower []string
	TeamSize    int
}

// BuildIndex derives the search index for a dataset. It is a pure function
// of its input and must be recomputed, not mutated, whenever the project
// list changes identity.
func BuildIndex(projects []domain.Project) []IndexEntry {
	entries := make([]IndexEntry, len(projects))
	for i, p := range projects {
		nameLower := strings.ToLower(p.Name)
		descLower := strings.ToLower(p.Description)
		tracksLower := make([]string, len(p.Tracks))
		for j, t := range p.Tracks {
			tracksLower[j] = strings.ToLower(t)
		}
		entries[i] = IndexEntry{
			Project:     p,
			SearchText:  nameLower + " " + descLower,
			NameLower:   nameLower,
			DescLower:   descLower,
			CountryLow:  strings.ToLower(p.Country),
			TracksLower: tracksLower,
			TeamSize:    p.TeamSize(),
		}
	}
	return entries
}
