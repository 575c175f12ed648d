// Path: internal/search/engine.go
package search

import (
	"sort"
	"strings"

	"arena-scout/internal/domain"
)

// Relevance scores by match priority. An exact substring hit in the name
// beats one in the description, which beats any single query term found
// anywhere in the combined searchable text.
const (
	scoreName = 100
	scoreDesc = 80
	scoreTerm = 30
)

// minQueryLen: queries shorter than this are treated as "no search" to
// avoid noisy single and double character matches mid-typing.
const minQueryLen = 2

// Engine ranks, filters, and orders one loaded dataset. It owns its index
// and result cache exclusively; on dataset change callers build a fresh
// Engine, which clears the cache in lockstep with the index. All methods
// are synchronous, in-memory computations for datasets in the low
// thousands. The index is immutable after construction and the cache
// locks internally, so concurrent Search calls are safe.
type Engine struct {
	index []IndexEntry
	cache *resultCache
}

// NewEngine builds the index for a dataset and an empty result cache.
func NewEngine(projects []domain.Project) *Engine {
	return &Engine{
		index: BuildIndex(projects),
		cache: newResultCache(defaultCacheCapacity),
	}
}

// Size returns the number of indexed projects.
func (e *Engine) Size() int {
	return len(e.index)
}

// CacheLen reports how many filter combinations are currently cached.
func (e *Engine) CacheLen() int {
	return e.cache.len()
}

// Search returns the ranked, filtered, ordered projects for a spec. It is
// total for well-formed specs: unknown sort keys fall back to likes and
// results are cached under the spec's canonical key. Callers must treat
// the returned slice as read-only; cached calls return the same backing
// array.
func (e *Engine) Search(spec FilterSpec) []domain.Project {
	if len(e.index) == 0 {
		return []domain.Project{}
	}

	key := spec.Key()
	if cached, ok := e.cache.get(key); ok {
		return cached
	}

	entries := make([]IndexEntry, len(e.index))
	copy(entries, e.index)

	query := strings.ToLower(strings.TrimSpace(spec.Search))
	textSearch := len(query) >= minQueryLen
	if textSearch {
		entries = rankByRelevance(entries, query)
	}

	entries = applyFilters(entries, spec)

	// A live text search keeps its relevance order; otherwise sort by the
	// requested key with id ascending as the deterministic tie-break.
	if !textSearch {
		sortEntries(entries, spec.SortBy, spec.SortOrder)
	}

	results := make([]domain.Project, len(entries))
	for i, entry := range entries {
		results[i] = entry.Project
	}
	e.cache.put(key, results)
	return results
}

// rankByRelevance scores every entry against the query, drops the zeros,
// and orders by score descending. The sort is stable so equal scores keep
// their prior relative order.
func rankByRelevance(entries []IndexEntry, query string) []IndexEntry {
	type scored struct {
		entry IndexEntry
		score int
	}
	terms := strings.Fields(query)
	matched := make([]scored, 0, len(entries))
	for _, entry := range entries {
		s := scoreEntry(entry, query, terms)
		if s == 0 {
			continue
		}
		matched = append(matched, scored{entry: entry, score: s})
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})
	ranked := make([]IndexEntry, len(matched))
	for i, m := range matched {
		ranked[i] = m.entry
	}
	return ranked
}

func scoreEntry(entry IndexEntry, query string, terms []string) int {
	if strings.Contains(entry.NameLower, query) {
		return scoreName
	}
	if strings.Contains(entry.DescLower, query) {
		return scoreDesc
	}
	for _, term := range terms {
		if strings.Contains(entry.SearchText, term) {
			return scoreTerm
		}
	}
	return 0
}

func applyFilters(entries []IndexEntry, spec FilterSpec) []IndexEntry {
	def := DefaultSpec()
	tracks := lowerSet(spec.Tracks)
	countries := lowerSet(spec.Countries)
	filterTeamSize := spec.TeamSizeRange != def.TeamSizeRange
	filterLikes := spec.LikesRange != def.LikesRange

	kept := entries[:0]
	for _, entry := range entries {
		if len(tracks) > 0 && !hasAnyTrack(entry.TracksLower, tracks) {
			continue
		}
		if len(countries) > 0 && !countries[entry.CountryLow] {
			continue
		}
		if filterTeamSize && (entry.TeamSize < spec.TeamSizeRange[0] || entry.TeamSize > spec.TeamSizeRange[1]) {
			continue
		}
		if filterLikes && (entry.Project.Likes < spec.LikesRange[0] || entry.Project.Likes > spec.LikesRange[1]) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// hasAnyTrack implements OR semantics across requested tracks.
func hasAnyTrack(entryTracks []string, requested map[string]bool) bool {
	for _, t := range entryTracks {
		if requested[t] {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

func sortEntries(entries []IndexEntry, by SortKey, order SortOrder) {
	sort.Slice(entries, func(i, j int) bool {
		c := compareEntries(entries[i], entries[j], by)
		if order == OrderDesc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return entries[i].Project.ID < entries[j].Project.ID
	})
}

func compareEntries(a, b IndexEntry, by SortKey) int {
	switch by {
	case SortByComments:
		return a.Project.Comments - b.Project.Comments
	case SortByName:
		return strings.Compare(a.NameLower, b.NameLower)
	case SortByCountry:
		return strings.Compare(a.CountryLow, b.CountryLow)
	case SortByTeamSize:
		return a.TeamSize - b.TeamSize
	default:
		// Unknown sort keys fall back to likes.
		return a.Project.Likes - b.Project.Likes
	}
}

// Paginate slices one page out of an ordered result set. Pages are
// 1-based; out-of-range pages return an empty slice.
func Paginate(results []domain.Project, page, perPage int) []domain.Project {
	if page < 1 || perPage < 1 {
		return []domain.Project{}
	}
	start := (page - 1) * perPage
	if start >= len(results) {
		return []domain.Project{}
	}
	end := start + perPage
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}
