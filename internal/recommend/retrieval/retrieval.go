// internal/recommend/retrieval/retrieval.go
//
// Candidate retrieval. The provider's relevance ranking is untrusted for
// this domain, so retrieval fans out across a bounded number of result
// pages in small rate-limited batches and accumulates everything, deduped
// by movie ID. A failed page is logged and skipped; only total failure
// (page one unreachable) aborts the operation.
package retrieval

import (
	"context"
	"strings"
	"sync"
	"time"

	"family-movie-night/internal/cache"
	apperrors "family-movie-night/internal/common/errors"
	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/common/metrics"
	"family-movie-night/internal/models"
	"family-movie-night/internal/recommend/eligibility"
	"family-movie-night/internal/tmdb"
	"family-movie-night/internal/vibes"

	"golang.org/x/time/rate"
)

// Provider is the slice of the metadata client retrieval needs.
type Provider interface {
	Discover(ctx context.Context, filters tmdb.DiscoverFilters, page int) (*tmdb.MovieList, error)
	GenreIDs(names []string) []int
}

// ResultCache is the slice of the TTL cache retrieval needs.
type ResultCache interface {
	Get(ctx context.Context, key string, v interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

type Strategy struct {
	provider Provider
	cache    ResultCache
	limiter  *rate.Limiter
	cfg      Config
	logger   logger.Logger
}

func New(provider Provider, resultCache ResultCache, cfg Config, log logger.Logger) *Strategy {
	cfg = cfg.withDefaults()
	return &Strategy{
		provider: provider,
		cache:    resultCache,
		limiter:  rate.NewLimiter(rate.Every(cfg.BatchDelay), 1),
		cfg:      cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "retrieval"}),
	}
}

// CacheKey builds the candidate-pool key for one request context. Age
// groups and preference flags are sorted so equivalent requests share an
// entry.
func CacheKey(vibe vibes.Vibe, profile models.ViewerProfile, theme vibes.Theme) string {
	parts := []string{"movies", string(vibe)}
	for _, g := range models.SortedAgeGroups(profile.AgeGroups) {
		parts = append(parts, string(g))
	}
	themePart := "no_theme"
	if theme != vibes.ThemeNone {
		themePart = string(theme)
	}
	parts = append(parts, themePart, strings.Join(profile.Preferences.FlagPairs(), ","))
	return cache.Key(parts...)
}

// Candidates returns the deduplicated candidate pool for one request.
// A selected theme bypasses the cache read and overwrites the entry for
// this exact key afterwards; theme semantics change the pool too much to
// reuse stale results.
func (s *Strategy) Candidates(ctx context.Context, vibe vibes.Vibe, profile models.ViewerProfile, theme vibes.Theme) ([]models.Movie, error) {
	key := CacheKey(vibe, profile, theme)

	if theme == vibes.ThemeNone {
		var cached []models.Movie
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("cache read failed, fetching fresh", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		if found {
			metrics.CacheHits.WithLabelValues(string(vibe)).Inc()
			return cached, nil
		}
		metrics.CacheMisses.WithLabelValues(string(vibe)).Inc()
	} else {
		metrics.CacheMisses.WithLabelValues(string(vibe)).Inc()
	}

	filters, err := s.buildFilters(vibe, profile, theme)
	if err != nil {
		return nil, err
	}

	movies, err := s.fetchAllPages(ctx, filters, vibe, theme)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, movies, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	metrics.CandidatesRetrieved.Observe(float64(len(movies)))
	return movies, nil
}

// buildFilters shapes the discovery query for a vibe/theme/profile triple.
func (s *Strategy) buildFilters(vibe vibes.Vibe, profile models.ViewerProfile, theme vibes.Theme) (tmdb.DiscoverFilters, error) {
	cfg, ok := vibes.ConfigFor(vibe)
	if !ok {
		return tmdb.DiscoverFilters{}, apperrors.NewInvalidVibeError(string(vibe))
	}

	// The artsy vibe is animation-only: its configured genre list is too
	// broad to keep non-animated drama out of the pool.
	genres := cfg.Genres
	if vibe == vibes.VibeArtsy {
		genres = []string{"animation"}
	}
	if theme != vibes.ThemeNone {
		if themeCfg, ok := vibes.ThemeConfigFor(theme); ok {
			genres = append(append([]string{}, genres...), themeCfg.AdditionalGenres...)
		}
	}

	eligible := eligibility.Certifications(profile.AgeGroups)
	certifications := eligibility.Intersect(cfg.PreferredCertifications, eligible)

	// Keyword pass-through is coarse provider-side filtering; it is only
	// worth it for musicals, where genre alone is too noisy. Themes defer
	// keyword matching to the alignment scorer but still pass their short
	// retrieval list.
	var keywords []string
	if vibe == vibes.VibeMusical {
		keywords = cfg.Keywords
	} else if theme != vibes.ThemeNone {
		if themeCfg, ok := vibes.ThemeConfigFor(theme); ok {
			keywords = themeCfg.Keywords
		}
	}

	return tmdb.DiscoverFilters{
		GenreIDs:         s.provider.GenreIDs(genres),
		YearStart:        cfg.YearStart,
		YearEnd:          cfg.YearEnd,
		MinRating:        cfg.MinRating,
		Certifications:   certifications,
		OriginalLanguage: "en",
		Keywords:         keywords,
	}, nil
}

// fetchAllPages pulls page one synchronously, then fans out over the
// remaining pages in rate-limited batches.
func (s *Strategy) fetchAllPages(ctx context.Context, filters tmdb.DiscoverFilters, vibe vibes.Vibe, theme vibes.Theme) ([]models.Movie, error) {
	first, err := s.provider.Discover(ctx, filters, 1)
	if err != nil {
		return nil, apperrors.NewRetrievalFailedError("first discovery page: " + err.Error())
	}
	metrics.ProviderPagesFetched.Inc()

	totalPages := first.TotalPages
	if totalPages > s.cfg.PageBudget {
		totalPages = s.cfg.PageBudget
	}

	pool := make([]models.Movie, 0, len(first.Results)*totalPages)
	pool = append(pool, first.Results...)

	for batchStart := 2; batchStart <= totalPages; batchStart += s.cfg.BatchSize {
		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.Warn("retrieval cancelled mid-fanout", map[string]interface{}{
				"pages_fetched": batchStart - 1,
				"error":         err.Error(),
			})
			break
		}

		batchEnd := batchStart + s.cfg.BatchSize - 1
		if batchEnd > totalPages {
			batchEnd = totalPages
		}

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			results [][]models.Movie
		)
		for page := batchStart; page <= batchEnd; page++ {
			wg.Add(1)
			go func(page int) {
				defer wg.Done()
				list, err := s.provider.Discover(ctx, filters, page)
				if err != nil {
					metrics.ProviderPageFailures.Inc()
					s.logger.Warn("skipping failed discovery page", map[string]interface{}{
						"page":  page,
						"vibe":  string(vibe),
						"theme": string(theme),
						"error": err.Error(),
					})
					return
				}
				metrics.ProviderPagesFetched.Inc()
				mu.Lock()
				results = append(results, list.Results)
				mu.Unlock()
			}(page)
		}
		wg.Wait()

		for _, r := range results {
			pool = append(pool, r...)
		}
	}

	deduped := dedupe(pool)
	s.logger.Info("candidate pool assembled", map[string]interface{}{
		"vibe":        string(vibe),
		"theme":       string(theme),
		"total_pages": totalPages,
		"candidates":  len(deduped),
	})
	return deduped, nil
}

// dedupe keeps the first occurrence of each movie ID, preserving order.
func dedupe(movies []models.Movie) []models.Movie {
	seen := make(map[int]struct{}, len(movies))
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
