// Path: internal/search/spec.go
package search

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"arena-scout/internal/domain"
)

// SortKey names a sortable project field.
type SortKey string

const (
	SortByLikes    SortKey = "likes"
	SortByComments SortKey = "comments"
	SortByName     SortKey = "name"
	SortByCountry  SortKey = "country"
	SortByTeamSize SortKey = "teamSize"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// FilterSpec is the complete set of user-chosen search, filter, and sort
// parameters at a point in time. It is a value type: two specs with the
// same contents produce the same cache key, regardless of the order the
// user picked tracks or countries in.
type FilterSpec struct {
	Search        string
	Tracks        []string
	Countries     []string
	TeamSizeRange [2]int
	LikesRange    [2]int
	SortBy        SortKey
	SortOrder     SortOrder
}

// DefaultSpec returns the spec representing "no filtering": full ranges,
// no search, likes descending.
func DefaultSpec() FilterSpec {
	return FilterSpec{
		TeamSizeRange: [2]int{domain.MinTeamSize, domain.MaxTeamSize},
		LikesRange:    [2]int{domain.MinLikes, domain.MaxLikes},
		SortBy:        SortByLikes,
		SortOrder:     OrderDesc,
	}
}

// Key serializes the spec into a canonical cache key. Multi-value fields
// are lowercased and sorted so structurally equal specs always collide.
func (s FilterSpec) Key() string {
	return fmt.Sprintf("q=%s|t=%s|c=%s|ts=%d:%d|l=%d:%d|s=%s|o=%s",
		strings.ToLower(s.Search),
		canonicalJoin(s.Tracks),
		canonicalJoin(s.Countries),
		s.TeamSizeRange[0], s.TeamSizeRange[1],
		s.LikesRange[0], s.LikesRange[1],
		s.SortBy, s.SortOrder,
	)
}

func canonicalJoin(values []string) string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	sort.Strings(lowered)
	return strings.Join(lowered, ",")
}

// Query serializes the spec into URL query parameters so a filtered view is
// shareable via link. Defaults are omitted to keep links short.
func (s FilterSpec) Query() url.Values {
	def := DefaultSpec()
	v := url.Values{}
	if s.Search != "" {
		v.Set("q", s.Search)
	}
	if len(s.Tracks) > 0 {
		v.Set("tracks", strings.Join(s.Tracks, ","))
	}
	if len(s.Countries) > 0 {
		v.Set("countries", strings.Join(s.Countries, ","))
	}
	if s.TeamSizeRange != def.TeamSizeRange {
		v.Set("team_size", rangeParam(s.TeamSizeRange))
	}
	if s.LikesRange != def.LikesRange {
		v.Set("likes", rangeParam(s.LikesRange))
	}
	if s.SortBy != def.SortBy {
		v.Set("sort", string(s.SortBy))
	}
	if s.SortOrder != def.SortOrder {
		v.Set("order", string(s.SortOrder))
	}
	return v
}

// SpecFromQuery is the inverse of Query. Absent or malformed parameters
// fall back to defaults; it never fails.
func SpecFromQuery(v url.Values) FilterSpec {
	s := DefaultSpec()
	s.Search = v.Get("q")
	s.Tracks = splitParam(v.Get("tracks"))
	s.Countries = splitParam(v.Get("countries"))
	if r, ok := parseRange(v.Get("team_size")); ok {
		s.TeamSizeRange = r
	}
	if r, ok := parseRange(v.Get("likes")); ok {
		s.LikesRange = r
	}
	switch SortKey(v.Get("sort")) {
	case SortByLikes, SortByComments, SortByName, SortByCountry, SortByTeamSize:
		s.SortBy = SortKey(v.Get("sort"))
	}
	if SortOrder(v.Get("order")) == OrderAsc {
		s.SortOrder = OrderAsc
	}
	return s
}

func rangeParam(r [2]int) string {
	return strconv.Itoa(r[0]) + "-" + strconv.Itoa(r[1])
}

func parseRange(s string) ([2]int, bool) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return [2]int{}, false
	}
	min, err1 := strconv.Atoi(lo)
	max, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil || min > max {
		return [2]int{}, false
	}
	if min < 0 {
		min = 0
	}
	return [2]int{min, max}, true
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
