// internal/recommend/scoring/scoring.go
//
// Composite ranking. The score is a pure function of (movie, vibe, theme,
// sentiment signals); order of the multiplicative steps matters and must
// stay stable, since callers rely on re-scoring being deterministic.
package scoring

import (
	"sort"
	"strings"

	"family-movie-night/internal/models"
	"family-movie-night/internal/recommend/sentiment"
	"family-movie-night/internal/vibes"
)

// Scorer computes composite movie scores. It needs a genre-id resolver to
// match the vibe's configured genre names against a movie's genre-id list.
type Scorer struct {
	genreNames func(ids []int) []string
}

func New(genreNames func(ids []int) []string) *Scorer {
	return &Scorer{genreNames: genreNames}
}

// Base computes the pre-sentiment score: provider rating adjusted by vote
// confidence, vibe genre and keyword matches, year bounds and the legacy
// theme boost. This is also the fallback score when sentiment signals are
// unavailable for a movie.
func (s *Scorer) Base(m models.Movie, vibe vibes.Vibe, theme vibes.Theme) float64 {
	score := m.VoteAverage

	// Confidence discounts compound: a movie under 50 votes takes both.
	if m.VoteCount < 100 {
		score *= 0.8
	}
	if m.VoteCount < 50 {
		score *= 0.6
	}

	movieGenres := make(map[string]struct{})
	for _, name := range s.genreNames(m.GenreIDs) {
		movieGenres[strings.ToLower(name)] = struct{}{}
	}
	text := strings.ToLower(m.Title + " " + m.Overview)

	if cfg, ok := vibes.ConfigFor(vibe); ok {
		genreMatches := 0
		for _, g := range cfg.Genres {
			if _, ok := movieGenres[strings.ToLower(g)]; ok {
				genreMatches++
			}
		}
		if genreMatches > 0 {
			score *= 1 + float64(genreMatches)*0.3
		}

		keywordMatches := 0
		for _, k := range cfg.Keywords {
			if strings.Contains(text, strings.ToLower(k)) {
				keywordMatches++
			}
		}
		if keywordMatches > 0 {
			score *= 1 + float64(keywordMatches)*0.2
		}

		// Each violated bound is penalized independently.
		if year, ok := m.ReleaseYear(); ok {
			if cfg.YearStart != 0 && year < cfg.YearStart {
				score *= 0.5
			}
			if cfg.YearEnd != 0 && year > cfg.YearEnd {
				score *= 0.5
			}
		}
	}

	if theme != vibes.ThemeNone {
		if cfg, ok := vibes.ThemeConfigFor(theme); ok {
			themeScore := 0.0
			for _, g := range cfg.AdditionalGenres {
				if _, ok := movieGenres[strings.ToLower(g)]; ok {
					themeScore += 0.5
				}
			}
			for _, k := range cfg.Keywords {
				if strings.Contains(text, strings.ToLower(k)) {
					themeScore += 1
				}
			}
			if themeScore > 0 {
				score *= 1 + themeScore*0.4
			}
		}
	}

	return score
}

// Adjust applies the sentiment and alignment factors to a base score. A
// theme alignment of exactly zero is a hard filter: the movie is eliminated
// no matter how well it scored otherwise.
func Adjust(base float64, ms sentiment.MovieSentiment) float64 {
	multiplier := 1.0
	switch ms.Overview.Label {
	case sentiment.LabelPositive:
		multiplier = 1 + ms.Overview.Score*0.1
	case sentiment.LabelNegative:
		multiplier = 1 - ms.Overview.Score*0.05
	}

	if ms.ThemeAlignment == 0.0 {
		return 0
	}

	vibeMultiplier := 1 + ms.VibeAlignment*0.4
	themeMultiplier := 1 + ms.ThemeAlignment*0.5

	return base * multiplier * vibeMultiplier * themeMultiplier
}

// Score computes the full composite score for one movie.
func (s *Scorer) Score(m models.Movie, vibe vibes.Vibe, theme vibes.Theme, ms sentiment.MovieSentiment) float64 {
	return Adjust(s.Base(m, vibe, theme), ms)
}

// Rank drops non-positive scores, sorts descending with a deterministic
// movie-id tie-break, and truncates to limit.
func Rank(scored []models.ScoredMovie, limit int) []models.ScoredMovie {
	kept := make([]models.ScoredMovie, 0, len(scored))
	for _, sm := range scored {
		if sm.Score > 0 {
			kept = append(kept, sm)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Movie.ID < kept[j].Movie.ID
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
