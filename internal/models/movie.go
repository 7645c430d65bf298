// internal/models/movie.go
package models

import (
	"strconv"
	"time"
)

// Movie is one candidate from the metadata provider. Provider-owned and
// read-only: scoring works on copies, never mutates the record.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	Runtime          int     `json:"runtime,omitempty"`
	Certification    string  `json:"certification,omitempty"`
}

// ReleaseYear parses the year out of the provider's YYYY-MM-DD release date.
// ok is false when the date is missing or malformed.
func (m Movie) ReleaseYear() (int, bool) {
	if len(m.ReleaseDate) < 4 {
		return 0, false
	}
	if t, err := time.Parse("2006-01-02", m.ReleaseDate); err == nil {
		return t.Year(), true
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Genre is a provider genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Certification is one entry of the provider's certification list.
type Certification struct {
	Certification string `json:"certification"`
	Meaning       string `json:"meaning"`
	Order         int    `json:"order"`
}

// Keyword is a provider keyword tag attached to a movie.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ScoredMovie pairs a candidate with its composite score for the duration of
// one ranking pass.
type ScoredMovie struct {
	Movie Movie
	Score float64
}

// ContentWarning holds per-category severity on a 0-5 scale, derived from
// provider keywords and overview text.
type ContentWarning struct {
	Violence         int `json:"violence"`
	Language         int `json:"language"`
	SexualContent    int `json:"sexualContent"`
	Substances       int `json:"substances"`
	ProductPlacement int `json:"productPlacement"`
}

// Recommendation is one entry of the final ranked output.
type Recommendation struct {
	Movie    Movie          `json:"movie"`
	Score    float64        `json:"score"`
	Warnings ContentWarning `json:"warnings"`
}
