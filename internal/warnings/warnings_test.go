// internal/warnings/warnings_test.go
package warnings

import (
	"context"
	"errors"
	"testing"

	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/models"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	keywords []models.Keyword
	err      error
}

func (s *stubProvider) Keywords(ctx context.Context, movieID int) ([]models.Keyword, error) {
	return s.keywords, s.err
}

func TestScore_SeverityPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		overview string
		want     models.ContentWarning
	}{
		{
			name: "clean movie scores zero everywhere",
			tags: []string{"friendship", "talking animals"},
			want: models.ContentWarning{},
		},
		{
			name: "severe outranks lower levels",
			tags: []string{"battle", "murder"},
			want: models.ContentWarning{Violence: 5},
		},
		{
			name: "mild violence from overview text",
			// "battle" appears only in the overview.
			overview: "Two kingdoms meet in an epic battle of wits.",
			want:     models.ContentWarning{Violence: 2},
		},
		{
			name:     "moderate from overview",
			overview: "He struggles with alcohol after the war.",
			want:     models.ContentWarning{Substances: 3},
		},
		{
			name: "categories scored independently",
			tags: []string{"romance", "drinking", "logo"},
			want: models.ContentWarning{SexualContent: 2, Substances: 2, ProductPlacement: 2},
		},
		{
			name: "strong language",
			tags: []string{"crude humor"},
			want: models.ContentWarning{Language: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.tags, tt.overview))
		})
	}
}

func TestScore_BidirectionalTagMatching(t *testing.T) {
	// Provider tag "gun violence" contains the strong indicator "gun".
	got := Score([]string{"gun violence"}, "")
	assert.Equal(t, 4, got.Violence)

	// Provider tag "blood" is contained in no indicator but is one itself.
	got = Score([]string{"blood"}, "")
	assert.Equal(t, 4, got.Violence)
}

func TestForMovie_ProviderFailureDegradesToOverviewOnly(t *testing.T) {
	svc := NewService(&stubProvider{err: errors.New("provider down")}, logger.NewNoOpLogger())

	movie := models.Movie{ID: 1, Overview: "A tale of murder and betrayal."}
	got := svc.ForMovie(context.Background(), movie)
	assert.Equal(t, 5, got.Violence, "overview text still scores when keywords are unavailable")

	clean := models.Movie{ID: 2, Overview: "A gentle picnic."}
	assert.Equal(t, models.ContentWarning{}, svc.ForMovie(context.Background(), clean))
}

func TestForMovie_UsesProviderKeywords(t *testing.T) {
	svc := NewService(&stubProvider{
		keywords: []models.Keyword{{ID: 1, Name: "Nudity"}},
	}, logger.NewNoOpLogger())

	got := svc.ForMovie(context.Background(), models.Movie{ID: 3, Overview: "An art film."})
	assert.Equal(t, 5, got.SexualContent, "tags are lowercased before matching")
}
