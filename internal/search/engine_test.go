// Path: internal/search/engine_test.go
package search

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-scout/internal/domain"
)

func fixtureProjects() []domain.Project {
	return []domain.Project{
		{
			ID: 1, Slug: "hakata-finance", Name: "Hakata Finance",
			Description: "perp dex", Country: "US", Tracks: []string{"DeFi"},
			TeamMembers: []domain.TeamMember{
				{ID: 11, DisplayName: "Ana", Username: "ana"},
				{ID: 12, DisplayName: "Bo", Username: "bo"},
			},
			Likes: 42, Comments: 7,
		},
		{
			ID: 2, Slug: "other", Name: "Other",
			Description: "Hakata integration", Country: "US", Tracks: []string{"Infra"},
			Likes: 10, Comments: 3,
		},
	}
}

func TestSearchRanksNameMatchAboveDescriptionMatch(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.Search = "hakata"
	results := engine.Search(spec)

	require.Len(t, results, 2)
	assert.Equal(t, "Hakata Finance", results[0].Name)
	assert.Equal(t, "Other", results[1].Name)
}

func TestSearchTrackFilterOrSemantics(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.Tracks = []string{"DeFi"}
	results := engine.Search(spec)

	require.Len(t, results, 1)
	assert.Equal(t, "Hakata Finance", results[0].Name)

	spec = DefaultSpec()
	spec.Tracks = []string{"defi", "infra"}
	assert.Len(t, engine.Search(spec), 2)
}

func TestSearchCountryFilterExactMatch(t *testing.T) {
	projects := fixtureProjects()
	projects[1].Country = "USA"
	engine := NewEngine(projects)

	spec := DefaultSpec()
	spec.Countries = []string{"us"}
	results := engine.Search(spec)

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID)
}

func TestSearchLikesRange(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.LikesRange = [2]int{20, 100}
	results := engine.Search(spec)

	require.Len(t, results, 1)
	assert.Equal(t, "Hakata Finance", results[0].Name)
	for _, p := range results {
		assert.GreaterOrEqual(t, p.Likes, 20)
		assert.LessOrEqual(t, p.Likes, 100)
	}
}

func TestSearchTeamSizeRange(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.TeamSizeRange = [2]int{2, 5}
	results := engine.Search(spec)

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID)

	// The memberless project counts as a team of one.
	spec.TeamSizeRange = [2]int{1, 1}
	results = engine.Search(spec)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].ID)
}

func TestSearchSortByLikesDesc(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	results := engine.Search(DefaultSpec())

	require.Len(t, results, 2)
	assert.Equal(t, "Hakata Finance", results[0].Name)
	assert.Equal(t, "Other", results[1].Name)
}

func TestSearchSortKeys(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.SortBy = SortByName
	spec.SortOrder = OrderAsc
	results := engine.Search(spec)
	require.Len(t, results, 2)
	assert.Equal(t, "Hakata Finance", results[0].Name)

	spec.SortBy = SortByTeamSize
	spec.SortOrder = OrderDesc
	results = engine.Search(spec)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ID)

	spec.SortBy = SortByComments
	spec.SortOrder = OrderAsc
	results = engine.Search(spec)
	assert.Equal(t, 2, results[0].ID)
}

func TestSearchUnknownSortKeyFallsBackToLikes(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.SortBy = SortKey("bogus")
	results := engine.Search(spec)

	require.Len(t, results, 2)
	assert.Equal(t, 42, results[0].Likes)
}

func TestSearchEqualSortKeysTieBreakByID(t *testing.T) {
	projects := []domain.Project{
		{ID: 3, Slug: "c", Name: "C", Likes: 5},
		{ID: 1, Slug: "a", Name: "A", Likes: 5},
		{ID: 2, Slug: "b", Name: "B", Likes: 5},
	}
	engine := NewEngine(projects)

	results := engine.Search(DefaultSpec())

	require.Len(t, results, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].ID, results[1].ID, results[2].ID})
}

func TestSearchShortQueryTreatedAsNoSearch(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.Search = "h"
	results := engine.Search(spec)

	// Single-character queries fall back to the sort path.
	require.Len(t, results, 2)
	assert.Equal(t, "Hakata Finance", results[0].Name)
}

func TestSearchRelevanceOrderSurvivesFilters(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.Search = "hakata"
	spec.SortBy = SortByLikes
	spec.SortOrder = OrderAsc // would put Other first if re-sorted
	results := engine.Search(spec)

	require.Len(t, results, 2)
	assert.Equal(t, "Hakata Finance", results[0].Name)
}

func TestSearchIdempotentAndCached(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	spec := DefaultSpec()
	spec.Search = "hakata"

	first := engine.Search(spec)
	require.Equal(t, 1, engine.CacheLen())
	second := engine.Search(spec)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, engine.CacheLen(), "second identical search must hit the cache")
}

func TestSearchCacheBound(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	for i := 0; i < defaultCacheCapacity+5; i++ {
		spec := DefaultSpec()
		spec.Search = fmt.Sprintf("query-%d", i)
		engine.Search(spec)
	}

	assert.Equal(t, defaultCacheCapacity, engine.CacheLen())
}

func TestSearchConcurrentCallers(t *testing.T) {
	engine := NewEngine(fixtureProjects())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < defaultCacheCapacity*2; j++ {
				spec := DefaultSpec()
				spec.Search = fmt.Sprintf("query %d-%d", i, j)
				engine.Search(spec)
				engine.Search(DefaultSpec())
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, defaultCacheCapacity, engine.CacheLen())
	require.Len(t, engine.Search(DefaultSpec()), 2)
}

func TestSearchEmptyIndex(t *testing.T) {
	engine := NewEngine(nil)

	results := engine.Search(DefaultSpec())

	assert.Empty(t, results)
}

func TestResultCacheEvictsOldestInserted(t *testing.T) {
	c := newResultCache(2)
	c.put("a", []domain.Project{{ID: 1}})
	c.put("b", []domain.Project{{ID: 2}})

	// Reading "a" must not protect it; eviction is insertion order, not LRU.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", []domain.Project{{ID: 3}})

	_, ok = c.get("a")
	assert.False(t, ok, "oldest inserted entry should be evicted")
	_, ok = c.get("b")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.len())
}

func TestPaginate(t *testing.T) {
	results := make([]domain.Project, 10)
	for i := range results {
		results[i] = domain.Project{ID: i + 1}
	}

	page := Paginate(results, 2, 4)
	require.Len(t, page, 4)
	assert.Equal(t, 5, page[0].ID)

	assert.Len(t, Paginate(results, 3, 4), 2)
	assert.Empty(t, Paginate(results, 4, 4))
	assert.Empty(t, Paginate(results, 0, 4))
}
