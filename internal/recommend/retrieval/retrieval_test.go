// internal/recommend/retrieval/retrieval_test.go
package retrieval

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"family-movie-night/internal/cache"
	apperrors "family-movie-night/internal/common/errors"
	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/models"
	"family-movie-night/internal/tmdb"
	"family-movie-night/internal/vibes"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGenreIDs = map[string]int{
	"family":      10751,
	"fantasy":     14,
	"animation":   16,
	"comedy":      35,
	"music":       10402,
	"documentary": 99,
	"adventure":   12,
	"action":      28,
	"drama":       18,
}

type fakeProvider struct {
	mu          sync.Mutex
	totalPages  int
	perPage     int
	failPages   map[int]bool
	duplicateID int

	pagesRequested []int
	lastFilters    tmdb.DiscoverFilters
}

func (f *fakeProvider) Discover(ctx context.Context, filters tmdb.DiscoverFilters, page int) (*tmdb.MovieList, error) {
	f.mu.Lock()
	f.pagesRequested = append(f.pagesRequested, page)
	f.lastFilters = filters
	f.mu.Unlock()

	if f.failPages[page] {
		return nil, fmt.Errorf("page %d unavailable", page)
	}

	results := make([]models.Movie, 0, f.perPage)
	for i := 0; i < f.perPage; i++ {
		id := page*1000 + i
		if f.duplicateID != 0 && i == 0 {
			id = f.duplicateID
		}
		results = append(results, models.Movie{ID: id, Title: fmt.Sprintf("movie-%d", id)})
	}
	return &tmdb.MovieList{Page: page, Results: results, TotalPages: f.totalPages}, nil
}

func (f *fakeProvider) GenreIDs(names []string) []int {
	var ids []int
	for _, name := range names {
		if id, ok := testGenreIDs[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *fakeProvider) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.pagesRequested))
	copy(out, f.pagesRequested)
	return out
}

func newTestStrategy(t *testing.T, provider *fakeProvider) (*Strategy, *cache.Cache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	resultCache := cache.New(client, time.Hour, logger.NewTestLogger(t))

	cfg := Config{
		PageBudget: 100,
		BatchSize:  5,
		BatchDelay: time.Millisecond,
		CacheTTL:   time.Hour,
	}
	return New(provider, resultCache, cfg, logger.NewTestLogger(t)), resultCache
}

func testProfile(groups ...models.AgeGroup) models.ViewerProfile {
	return models.ViewerProfile{AgeGroups: groups}
}

func TestCacheKey(t *testing.T) {
	profile := models.ViewerProfile{
		AgeGroups: []models.AgeGroup{models.AgeTeens, models.AgeElementary},
	}

	key := CacheKey(vibes.VibeCozy, profile, vibes.ThemeNone)
	assert.Contains(t, key, "movies_cozy_elementary_teens_no_theme_")

	themed := CacheKey(vibes.VibeCozy, profile, vibes.ThemeAnimals)
	assert.Contains(t, themed, "_animals_")
	assert.NotEqual(t, key, themed)
}

func TestCacheKey_AgeGroupOrderDoesNotMatter(t *testing.T) {
	a := CacheKey(vibes.VibeCozy, testProfile(models.AgeTeens, models.AgeTweens), vibes.ThemeNone)
	b := CacheKey(vibes.VibeCozy, testProfile(models.AgeTweens, models.AgeTeens), vibes.ThemeNone)
	assert.Equal(t, a, b)
}

func TestCandidates_SinglePage(t *testing.T) {
	provider := &fakeProvider{totalPages: 1, perPage: 3}
	s, _ := newTestStrategy(t, provider)

	movies, err := s.Candidates(context.Background(), vibes.VibeCozy, testProfile(models.AgeElementary), vibes.ThemeNone)
	require.NoError(t, err)
	assert.Len(t, movies, 3)
	assert.Equal(t, []int{1}, provider.requested())
}

func TestCandidates_FanOutCoversBudget(t *testing.T) {
	provider := &fakeProvider{totalPages: 12, perPage: 2}
	s, _ := newTestStrategy(t, provider)

	movies, err := s.Candidates(context.Background(), vibes.VibeCozy, testProfile(models.AgeElementary), vibes.ThemeNone)
	require.NoError(t, err)

	assert.Len(t, movies, 24)
	assert.Len(t, provider.requested(), 12)
}

func TestCandidates_PageBudgetCapsFanOut(t *testing.T) {
	provider := &fakeProvider{totalPages: 50, perPage: 1}
	s, _ := newTestStrategy(t, provider)
	s.cfg.PageBudget = 3

	movies, err := s.Candidates(context.Background(), vibes.VibeCozy, testProfile(models.AgeElementary), vibes.ThemeNone)
	require.NoError(t, err)

	assert.Len(t, movies, 3)
	assert.Len(t, provider.requested(), 3)
}

func TestCandidates_FailedPageIsSkipped(t *testing.T) {
	provider := &fakeProvider{totalPages: 3, perPage: 2, failPages: map[int]bool{2: true}}
	s, _ := newTestStrategy(t, provider)

	movies, err := s.Candidates(context.Background(), vibes.VibeCozy, testProfile(models.AgeElementary), vibes.ThemeNone)
	require.NoError(t, err)

	// Pages 1 and 3 still contribute.
	assert.Len(t, movies, 4)
}

func TestCandidates_FirstPageFailureIsTotal(t *testing.T) {
	provider := &fakeProvider{totalPages: 3, perPage: 2, failPages: map[int]bool{1: true}}
	s, _ := newTestStrategy(t, provider)

	_, err := s.Candidates(context.Background(), vibes.VibeCozy, testProfile(models.AgeElementary), vibes.ThemeNone)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRetrievalFailed))
}

func TestCandidates_DeduplicatesAcrossPages(t *testing.T) {
	provider := &fakeProvider{totalPages: 3, perPage: 2, duplicateID: 42}
	s, _ := newTestStrategy(t, provider)

	movies, err := s.Candidates(context.Background(), vibes.VibeCozy, testProfile(models.AgeElementary), vibes.ThemeNone)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, m := range movies {
		seen[m.ID]++
	}
	assert.Equal(t, 1, seen[42])
	assert.Len(t, movies, 4, "three pages of two with a shared ID collapse to four")
}

func TestCandidates_SecondRequestServedFromCache(t *testing.T) {
	provider := &fakeProvider{totalPages: 2, perPage: 2}
	s, _ := newTestStrategy(t, provider)
	ctx := context.Background()
	profile := testProfile(models.AgeElementary)

	first, err := s.Candidates(ctx, vibes.VibeCozy, profile, vibes.ThemeNone)
	require.NoError(t, err)
	callsAfterFirst := len(provider.requested())

	second, err := s.Candidates(ctx, vibes.VibeCozy, profile, vibes.ThemeNone)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, len(provider.requested()), "cache hit must not touch the provider")
}

func TestCandidates_ThemeBypassesCacheReadAndOverwrites(t *testing.T) {
	provider := &fakeProvider{totalPages: 1, perPage: 2}
	s, resultCache := newTestStrategy(t, provider)
	ctx := context.Background()
	profile := testProfile(models.AgeElementary)

	// Prime the exact themed key with a stale pool.
	key := CacheKey(vibes.VibeCozy, profile, vibes.ThemeAnimals)
	stale := []models.Movie{{ID: 1, Title: "stale"}}
	require.NoError(t, resultCache.Set(ctx, key, stale, time.Hour))

	movies, err := s.Candidates(ctx, vibes.VibeCozy, profile, vibes.ThemeAnimals)
	require.NoError(t, err)
	assert.NotEqual(t, stale, movies, "a selected theme must force a fresh fetch")
	assert.NotEmpty(t, provider.requested())

	var cached []models.Movie
	found, err := resultCache.Get(ctx, key, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, movies, cached, "fresh pool overwrites the themed entry")
}

func TestBuildFilters_CertificationIntersection(t *testing.T) {
	provider := &fakeProvider{}
	s, _ := newTestStrategy(t, provider)

	// Cozy prefers {G, PG}; a teens-youngest household is eligible for
	// {PG-13, PG}; the request carries only the intersection.
	filters, err := s.buildFilters(vibes.VibeCozy, testProfile(models.AgeTeens), vibes.ThemeNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"PG"}, filters.Certifications)
}

func TestBuildFilters_ArtsyIsAnimationOnly(t *testing.T) {
	provider := &fakeProvider{}
	s, _ := newTestStrategy(t, provider)

	filters, err := s.buildFilters(vibes.VibeArtsy, testProfile(models.AgeAdults), vibes.ThemeNone)
	require.NoError(t, err)
	assert.Equal(t, []int{testGenreIDs["animation"]}, filters.GenreIDs)
}

func TestBuildFilters_ThemeWidensGenres(t *testing.T) {
	provider := &fakeProvider{}
	s, _ := newTestStrategy(t, provider)

	filters, err := s.buildFilters(vibes.VibeCozy, testProfile(models.AgeElementary), vibes.ThemeAnimals)
	require.NoError(t, err)

	// Cozy genres plus the animals theme's documentary; family deduped by
	// the provider mapping is not required, only presence matters here.
	assert.Contains(t, filters.GenreIDs, testGenreIDs["documentary"])
	assert.Contains(t, filters.GenreIDs, testGenreIDs["animation"])
	assert.Equal(t, []string{"animal", "dog", "cat", "wildlife", "zoo", "nature"}, filters.Keywords)
}

func TestBuildFilters_MusicalKeywordPassThrough(t *testing.T) {
	provider := &fakeProvider{}
	s, _ := newTestStrategy(t, provider)

	filters, err := s.buildFilters(vibes.VibeMusical, testProfile(models.AgeElementary), vibes.ThemeNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"musical", "singing", "dance", "broadway", "song", "performance"}, filters.Keywords)
	assert.InDelta(t, 6.0, filters.MinRating, 1e-9)
}

func TestBuildFilters_NoKeywordsForPlainVibes(t *testing.T) {
	provider := &fakeProvider{}
	s, _ := newTestStrategy(t, provider)

	filters, err := s.buildFilters(vibes.VibeCozy, testProfile(models.AgeElementary), vibes.ThemeNone)
	require.NoError(t, err)
	assert.Empty(t, filters.Keywords)
	assert.Equal(t, "en", filters.OriginalLanguage)
}
