// internal/recommend/scoring/scoring_test.go
package scoring

import (
	"testing"

	"family-movie-night/internal/models"
	"family-movie-night/internal/recommend/sentiment"
	"family-movie-night/internal/vibes"

	"github.com/stretchr/testify/assert"
)

var testGenres = map[int]string{
	16:    "Animation",
	35:    "Comedy",
	14:    "Fantasy",
	99:    "Documentary",
	10751: "Family",
}

func testGenreNames(ids []int) []string {
	var names []string
	for _, id := range ids {
		if name, ok := testGenres[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

func newTestScorer() *Scorer {
	return New(testGenreNames)
}

func TestBase_GenreAndKeywordBoosts(t *testing.T) {
	s := newTestScorer()

	// Rated 8.5 with full vote confidence, one cozy genre match and two
	// cozy keyword matches: 8.5 * 1.3 * 1.4.
	m := models.Movie{
		ID:          1,
		Title:       "A cozy magic adventure",
		Overview:    "Nothing else of note.",
		VoteAverage: 8.5,
		VoteCount:   500,
		GenreIDs:    []int{10751},
		ReleaseDate: "2015-06-01",
	}

	got := s.Base(m, vibes.VibeCozy, vibes.ThemeNone)
	assert.InDelta(t, 8.5*1.3*1.4, got, 1e-9)
}

func TestBase_ConfidenceDiscountsCompound(t *testing.T) {
	s := newTestScorer()

	m := models.Movie{ID: 1, Title: "Plain", Overview: "Plain.", VoteAverage: 8.0, ReleaseDate: "2015-06-01"}

	m.VoteCount = 500
	assert.InDelta(t, 8.0, s.Base(m, vibes.VibeCozy, vibes.ThemeNone), 1e-9)

	m.VoteCount = 75
	assert.InDelta(t, 8.0*0.8, s.Base(m, vibes.VibeCozy, vibes.ThemeNone), 1e-9)

	m.VoteCount = 25
	assert.InDelta(t, 8.0*0.8*0.6, s.Base(m, vibes.VibeCozy, vibes.ThemeNone), 1e-9)
}

func TestBase_YearBoundPenalties(t *testing.T) {
	s := newTestScorer()

	m := models.Movie{ID: 1, Title: "Plain", Overview: "Plain.", VoteAverage: 7.0, VoteCount: 500}

	// Millennial is bounded 1980-2010 on both sides.
	m.ReleaseDate = "2020-05-01"
	assert.InDelta(t, 7.0*0.5, s.Base(m, vibes.VibeMillennial, vibes.ThemeNone), 1e-9)

	m.ReleaseDate = "1975-05-01"
	assert.InDelta(t, 7.0*0.5, s.Base(m, vibes.VibeMillennial, vibes.ThemeNone), 1e-9)

	m.ReleaseDate = "1995-05-01"
	assert.InDelta(t, 7.0, s.Base(m, vibes.VibeMillennial, vibes.ThemeNone), 1e-9)

	// A missing release date takes no year penalty.
	m.ReleaseDate = ""
	assert.InDelta(t, 7.0, s.Base(m, vibes.VibeMillennial, vibes.ThemeNone), 1e-9)
}

func TestBase_ThemeBoost(t *testing.T) {
	s := newTestScorer()

	// Two theme genre matches (0.5 each) plus one keyword match: theme
	// score 2.0, boost 1.8. The family genre also matches cozy (1.3).
	m := models.Movie{
		ID:          1,
		Title:       "A dog story",
		Overview:    "Nothing else of note.",
		VoteAverage: 8.0,
		VoteCount:   500,
		GenreIDs:    []int{99, 10751},
		ReleaseDate: "2015-06-01",
	}

	got := s.Base(m, vibes.VibeCozy, vibes.ThemeAnimals)
	assert.InDelta(t, 8.0*1.3*1.8, got, 1e-9)
}

func TestBase_ThemeNoneSkipsThemeBoost(t *testing.T) {
	s := newTestScorer()

	m := models.Movie{
		ID:          1,
		Title:       "A dog story",
		Overview:    "Nothing else of note.",
		VoteAverage: 8.0,
		VoteCount:   500,
		ReleaseDate: "2015-06-01",
	}

	assert.InDelta(t, 8.0, s.Base(m, vibes.VibeCozy, vibes.ThemeNone), 1e-9)
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name string
		ms   sentiment.MovieSentiment
		want float64
	}{
		{
			name: "neutral with full alignments",
			ms: sentiment.MovieSentiment{
				Overview:       sentiment.Result{Label: sentiment.LabelNeutral, Score: 0.7},
				VibeAlignment:  1.0,
				ThemeAlignment: 1.0,
			},
			want: 10 * 1.4 * 1.5,
		},
		{
			name: "positive sentiment boosts mildly",
			ms: sentiment.MovieSentiment{
				Overview:       sentiment.Result{Label: sentiment.LabelPositive, Score: 0.8},
				VibeAlignment:  0,
				ThemeAlignment: 1.0,
			},
			want: 10 * 1.08 * 1.5,
		},
		{
			name: "negative sentiment discounts mildly",
			ms: sentiment.MovieSentiment{
				Overview:       sentiment.Result{Label: sentiment.LabelNegative, Score: 0.8},
				VibeAlignment:  0,
				ThemeAlignment: 1.0,
			},
			want: 10 * 0.96 * 1.5,
		},
		{
			name: "zero theme alignment is a hard filter",
			ms: sentiment.MovieSentiment{
				Overview:       sentiment.Result{Label: sentiment.LabelPositive, Score: 1.0},
				VibeAlignment:  1.0,
				ThemeAlignment: 0,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Adjust(10, tt.ms), 1e-9)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := newTestScorer()

	m := models.Movie{
		ID:          1,
		Title:       "A cozy magic adventure",
		Overview:    "A warm and heartwarming tale.",
		VoteAverage: 8.5,
		VoteCount:   500,
		GenreIDs:    []int{10751, 14},
		ReleaseDate: "2015-06-01",
	}
	ms := sentiment.AnalyzeMovie(m.Title+" "+m.Overview, vibes.VibeCozy, vibes.ThemeNone)

	first := s.Score(m, vibes.VibeCozy, vibes.ThemeNone, ms)
	second := s.Score(m, vibes.VibeCozy, vibes.ThemeNone, ms)
	assert.Equal(t, first, second)
	assert.Greater(t, first, 0.0)
}

func TestRank(t *testing.T) {
	scored := []models.ScoredMovie{
		{Movie: models.Movie{ID: 4}, Score: 5.0},
		{Movie: models.Movie{ID: 2}, Score: 9.0},
		{Movie: models.Movie{ID: 7}, Score: 0},
		{Movie: models.Movie{ID: 3}, Score: 5.0},
		{Movie: models.Movie{ID: 9}, Score: -1},
		{Movie: models.Movie{ID: 1}, Score: 7.0},
	}

	got := Rank(scored, 3)

	ids := make([]int, len(got))
	for i, sm := range got {
		ids[i] = sm.Movie.ID
	}
	// Non-positive scores dropped, ties broken by id ascending, capped at 3.
	assert.Equal(t, []int{2, 1, 3}, ids)
}

func TestRank_ZeroLimitKeepsAll(t *testing.T) {
	scored := []models.ScoredMovie{
		{Movie: models.Movie{ID: 1}, Score: 1},
		{Movie: models.Movie{ID: 2}, Score: 2},
	}
	assert.Len(t, Rank(scored, 0), 2)
}
