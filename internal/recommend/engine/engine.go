// internal/recommend/engine/engine.go
//
// Orchestrates one recommendation request: precondition checks, candidate
// retrieval, concurrent scoring, ranking and content-warning annotation.
package engine

import (
	"context"
	"sync"
	"time"

	apperrors "family-movie-night/internal/common/errors"
	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/common/metrics"
	"family-movie-night/internal/common/observability"
	"family-movie-night/internal/models"
	"family-movie-night/internal/recommend/retrieval"
	"family-movie-night/internal/recommend/scoring"
	"family-movie-night/internal/recommend/sentiment"
	"family-movie-night/internal/vibes"
)

// CandidateSource is the retrieval strategy contract.
type CandidateSource interface {
	Candidates(ctx context.Context, vibe vibes.Vibe, profile models.ViewerProfile, theme vibes.Theme) ([]models.Movie, error)
}

// WarningScorer annotates one movie with content warnings.
type WarningScorer interface {
	ForMovie(ctx context.Context, movie models.Movie) models.ContentWarning
}

// Request is one fully-validated recommendation request.
type Request struct {
	Vibe    vibes.Vibe
	Theme   vibes.Theme
	Profile models.ViewerProfile
	Limit   int
}

// Config holds the engine's operational knobs.
type Config struct {
	DefaultLimit    int
	WarningsTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 12
	}
	if c.WarningsTimeout <= 0 {
		c.WarningsTimeout = 10 * time.Second
	}
	return c
}

type Engine struct {
	source   CandidateSource
	scorer   *scoring.Scorer
	warnings WarningScorer
	obs      *observability.Observability
	cfg      Config
	logger   logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(source CandidateSource, scorer *scoring.Scorer, warningScorer WarningScorer, obs *observability.Observability, cfg Config, log logger.Logger) *Engine {
	return &Engine{
		source:   source,
		scorer:   scorer,
		warnings: warningScorer,
		obs:      obs,
		cfg:      cfg.withDefaults(),
		logger:   log.WithFields(map[string]interface{}{"component": "engine"}),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Recommend runs the full pipeline. An empty candidate pool is a valid
// empty result, not an error; missing vibe or age groups fail fast.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]models.Recommendation, error) {
	start := time.Now()

	if req.Vibe == "" {
		return nil, apperrors.NewMissingPreferencesError("no vibe selected")
	}
	if len(req.Profile.AgeGroups) == 0 {
		return nil, apperrors.NewMissingPreferencesError("no age groups selected")
	}
	if _, ok := vibes.ConfigFor(req.Vibe); !ok {
		return nil, apperrors.NewInvalidVibeError(string(req.Vibe))
	}
	if req.Theme != vibes.ThemeNone {
		if _, ok := vibes.ThemeConfigFor(req.Theme); !ok {
			return nil, apperrors.NewInvalidThemeError(string(req.Theme))
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	// Overlapping requests for the same context would race the shared
	// cache entry and duplicate provider fan-out; serialize them.
	unlock := e.lockKey(retrieval.CacheKey(req.Vibe, req.Profile, req.Theme))
	candidates, err := e.source.Candidates(ctx, req.Vibe, req.Profile, req.Theme)
	unlock()
	if err != nil {
		e.record(ctx, req.Vibe, "error", start)
		return nil, err
	}

	if len(candidates) == 0 {
		e.logger.Info("no candidates matched", map[string]interface{}{
			"vibe":  string(req.Vibe),
			"theme": string(req.Theme),
		})
		e.record(ctx, req.Vibe, "empty", start)
		return []models.Recommendation{}, nil
	}

	scored := e.scoreAll(candidates, req.Vibe, req.Theme)
	ranked := scoring.Rank(scored, limit)

	recommendations := e.annotate(ctx, ranked)

	e.record(ctx, req.Vibe, "success", start)
	e.logger.Info("recommendations ready", map[string]interface{}{
		"vibe":       string(req.Vibe),
		"theme":      string(req.Theme),
		"candidates": len(candidates),
		"returned":   len(recommendations),
	})
	return recommendations, nil
}

// scoreAll scores every candidate concurrently. Results land in an
// index-addressed slice so no locking is needed.
func (e *Engine) scoreAll(candidates []models.Movie, vibe vibes.Vibe, theme vibes.Theme) []models.ScoredMovie {
	scored := make([]models.ScoredMovie, len(candidates))

	var wg sync.WaitGroup
	for i, movie := range candidates {
		wg.Add(1)
		go func(i int, movie models.Movie) {
			defer wg.Done()
			scored[i] = models.ScoredMovie{
				Movie: movie,
				Score: e.scoreOne(movie, vibe, theme),
			}
		}(i, movie)
	}
	wg.Wait()

	return scored
}

// scoreOne computes the composite score, falling back to the base score if
// the sentiment path fails for this movie.
func (e *Engine) scoreOne(movie models.Movie, vibe vibes.Vibe, theme vibes.Theme) (score float64) {
	base := e.scorer.Base(movie, vibe, theme)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("sentiment scoring failed for movie", map[string]interface{}{
				"movie_id": movie.ID,
				"panic":    r,
			})
			score = base
		}
	}()

	ms := sentiment.AnalyzeMovie(movie.Title+" "+movie.Overview, vibe, theme)
	return scoring.Adjust(base, ms)
}

// annotate attaches content warnings to the ranked movies, bounded by the
// warnings timeout so a slow provider cannot stall the response.
func (e *Engine) annotate(ctx context.Context, ranked []models.ScoredMovie) []models.Recommendation {
	wctx, cancel := context.WithTimeout(ctx, e.cfg.WarningsTimeout)
	defer cancel()

	recommendations := make([]models.Recommendation, len(ranked))

	var wg sync.WaitGroup
	for i, sm := range ranked {
		wg.Add(1)
		go func(i int, sm models.ScoredMovie) {
			defer wg.Done()
			recommendations[i] = models.Recommendation{
				Movie:    sm.Movie,
				Score:    sm.Score,
				Warnings: e.warnings.ForMovie(wctx, sm.Movie),
			}
		}(i, sm)
	}
	wg.Wait()

	return recommendations
}

// lockKey serializes callers sharing one cache key. The returned func
// releases the lock.
func (e *Engine) lockKey(key string) func() {
	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (e *Engine) record(ctx context.Context, vibe vibes.Vibe, status string, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecommendationRequests.WithLabelValues(string(vibe), status).Inc()
	metrics.RecommendationDuration.WithLabelValues(string(vibe)).Observe(elapsed.Seconds())
	if e.obs != nil {
		e.obs.RecordRequest(ctx, status)
		e.obs.RecordDuration(ctx, elapsed, status)
	}
}
