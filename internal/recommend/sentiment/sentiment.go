// internal/recommend/sentiment/sentiment.go
//
// Keyword-count sentiment classification plus the vibe/theme alignment
// scores. All matching is case-insensitive substring matching over the
// movie's combined title and overview text.
package sentiment

import (
	"strings"

	"family-movie-night/internal/vibes"
)

const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// Result is a sentiment label with its confidence in [0,1].
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// MovieSentiment bundles the three independent signals the composite
// scorer consumes.
type MovieSentiment struct {
	Overview       Result  `json:"overview"`
	VibeAlignment  float64 `json:"vibeAlignment"`
	ThemeAlignment float64 `json:"themeAlignment"`
}

var positiveWords = []string{
	"amazing", "awesome", "beautiful", "brilliant", "charming", "delightful",
	"excellent", "fantastic", "fun", "funny", "great", "heartwarming",
	"hilarious", "incredible", "inspiring", "joyful", "lovely", "magical",
	"outstanding", "perfect", "spectacular", "stunning", "sweet", "touching",
	"thrilling", "uplifting", "wonderful", "exciting", "entertaining",
	"enjoyable", "captivating", "engaging", "enchanting", "cheerful",
}

var negativeWords = []string{
	"awful", "bad", "boring", "terrible", "horrible", "disappointing",
	"depressing", "sad", "tragic", "dark", "disturbing", "frightening",
	"scary", "violent", "cruel", "harsh", "bitter", "grim", "bleak",
	"dreary", "dull", "lifeless", "monotonous", "tedious", "unpleasant",
	"annoying", "frustrating", "confusing", "ridiculous", "stupid",
}

// Analyze classifies text by counting occurrences of fixed positive and
// negative word lists. A positive ratio above 0.6 is POSITIVE, below 0.4 is
// NEGATIVE, everything in between (and zero matches) is NEUTRAL.
func Analyze(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Label: LabelNeutral, Score: 0.5}
	}

	lower := strings.ToLower(text)

	var positive, negative int
	for _, word := range positiveWords {
		positive += strings.Count(lower, word)
	}
	for _, word := range negativeWords {
		negative += strings.Count(lower, word)
	}

	total := positive + negative
	if total == 0 {
		return Result{Label: LabelNeutral, Score: 0.7}
	}

	ratio := float64(positive) / float64(total)
	switch {
	case ratio > 0.6:
		return Result{Label: LabelPositive, Score: min(0.6+ratio*0.4, 1.0)}
	case ratio < 0.4:
		return Result{Label: LabelNegative, Score: min(0.6+(1-ratio)*0.4, 1.0)}
	default:
		return Result{Label: LabelNeutral, Score: 0.7}
	}
}

// VibeAlignment scores how well text matches a vibe's mood keywords: 0 with
// no matches, otherwise a 0.4 base plus up to 0.6 proportional to the
// fraction of keywords matched, capped at 1.0.
func VibeAlignment(text string, keywords []string) float64 {
	if text == "" || len(keywords) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			matches++
		}
	}

	if matches == 0 {
		return 0
	}
	return min(0.4+float64(matches)/float64(len(keywords))*0.6, 1.0)
}

// ThemeAlignment scores theme keyword matches strictly: no keywords means
// no restriction (1.0), zero matches means exactly 0.0, any match scores a
// 0.9 base plus a small bonus per additional match, capped at 1.0.
func ThemeAlignment(text string, keywords []string) float64 {
	if text == "" || len(keywords) == 0 {
		return 1.0
	}

	lower := strings.ToLower(text)
	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			matches++
		}
	}

	if matches == 0 {
		return 0.0
	}
	bonus := min(float64(matches-1)*0.02, 0.1)
	return min(0.9+bonus, 1.0)
}

// AnalyzeMovie computes all three signals for one movie's text. The artsy
// vibe carries an extra gate: text with no animation indicator scores zero
// vibe alignment no matter how many mood keywords match.
func AnalyzeMovie(text string, vibe vibes.Vibe, theme vibes.Theme) MovieSentiment {
	overview := Analyze(text)

	vibeAlignment := VibeAlignment(text, vibes.AlignmentKeywords(vibe))

	themeAlignment := 1.0
	if theme != vibes.ThemeNone {
		themeAlignment = ThemeAlignment(text, vibes.ThemeKeywords(theme))
	}

	if vibe == vibes.VibeArtsy {
		lower := strings.ToLower(text)
		animated := false
		for _, indicator := range vibes.AnimationIndicators {
			if strings.Contains(lower, indicator) {
				animated = true
				break
			}
		}
		if !animated {
			vibeAlignment = 0
		}
	}

	return MovieSentiment{
		Overview:       overview,
		VibeAlignment:  vibeAlignment,
		ThemeAlignment: themeAlignment,
	}
}
