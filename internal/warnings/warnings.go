// internal/warnings/warnings.go
//
// Content warning scores derived from provider keyword tags and overview
// text. Severity is checked highest-first; the first level with a match
// wins. Provider keyword matching is bidirectional substring matching,
// overview matching is plain substring search.
package warnings

import (
	"context"
	"strings"

	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/models"
)

// severityTable holds the indicator keywords for one warning category,
// ordered mild through severe (scores 2, 3, 4, 5; no match scores 0).
type severityTable struct {
	mild     []string
	moderate []string
	strong   []string
	severe   []string
}

var violenceKeywords = severityTable{
	mild:     []string{"action", "fight scene", "martial arts", "battle"},
	moderate: []string{"violence", "fighting", "combat", "weapon", "injury"},
	strong:   []string{"blood", "death", "killing", "gun", "shooting"},
	severe:   []string{"murder", "gore", "graphic violence", "brutal", "torture"},
}

var languageKeywords = severityTable{
	mild:     []string{"mild language", "rude humor"},
	moderate: []string{"language", "cursing", "profanity"},
	strong:   []string{"strong language", "crude humor", "vulgar"},
	severe:   []string{"explicit language", "offensive language", "profane"},
}

var sexualContentKeywords = severityTable{
	mild:     []string{"romance", "kissing", "flirting"},
	moderate: []string{"sensuality", "suggestive content", "romantic scene"},
	strong:   []string{"sexual content", "sexuality", "sexual reference"},
	severe:   []string{"nudity", "sexual situation", "erotic", "sex scene"},
}

var substanceKeywords = severityTable{
	mild:     []string{"drinking", "bar scene", "tobacco"},
	moderate: []string{"alcohol", "smoking", "drunk"},
	strong:   []string{"drug reference", "substance use", "intoxication"},
	severe:   []string{"drugs", "substance abuse", "addiction", "alcoholism"},
}

var productPlacementKeywords = severityTable{
	mild:     []string{"brand", "logo"},
	moderate: []string{"advertising", "promotional"},
	strong:   []string{"product placement", "branded content"},
	severe:   []string{"commercial", "marketing campaign"},
}

// Provider is the slice of the metadata client this service needs.
type Provider interface {
	Keywords(ctx context.Context, movieID int) ([]models.Keyword, error)
}

type Service struct {
	provider Provider
	logger   logger.Logger
}

func NewService(provider Provider, log logger.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   log.WithFields(map[string]interface{}{"component": "warnings"}),
	}
}

// ForMovie computes warning scores for one movie from its provider keyword
// tags plus its overview text. Failures degrade to zero warnings rather
// than failing the recommendation.
func (s *Service) ForMovie(ctx context.Context, movie models.Movie) models.ContentWarning {
	var tags []string
	keywords, err := s.provider.Keywords(ctx, movie.ID)
	if err != nil {
		s.logger.Warn("keyword lookup failed, scoring from overview only", map[string]interface{}{
			"movie_id": movie.ID,
			"error":    err.Error(),
		})
	} else {
		tags = make([]string, len(keywords))
		for i, k := range keywords {
			tags[i] = strings.ToLower(k.Name)
		}
	}

	return Score(tags, movie.Overview)
}

// Score computes all five category scores from lowercased keyword tags and
// raw overview text.
func Score(tags []string, overview string) models.ContentWarning {
	lower := strings.ToLower(overview)
	return models.ContentWarning{
		Violence:         categoryScore(tags, lower, violenceKeywords),
		Language:         categoryScore(tags, lower, languageKeywords),
		SexualContent:    categoryScore(tags, lower, sexualContentKeywords),
		Substances:       categoryScore(tags, lower, substanceKeywords),
		ProductPlacement: categoryScore(tags, lower, productPlacementKeywords),
	}
}

func categoryScore(tags []string, overview string, table severityTable) int {
	switch {
	case matches(tags, overview, table.severe):
		return 5
	case matches(tags, overview, table.strong):
		return 4
	case matches(tags, overview, table.moderate):
		return 3
	case matches(tags, overview, table.mild):
		return 2
	default:
		return 0
	}
}

func matches(tags []string, overview string, indicators []string) bool {
	for _, indicator := range indicators {
		if strings.Contains(overview, indicator) {
			return true
		}
		for _, tag := range tags {
			// Bidirectional: a provider tag "gun violence" matches the
			// indicator "gun", and the tag "gun" matches "gun violence".
			if strings.Contains(tag, indicator) || strings.Contains(indicator, tag) {
				return true
			}
		}
	}
	return false
}
