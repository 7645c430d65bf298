// internal/tmdb/client_test.go
package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"family-movie-night/internal/common/config"
	apperrors "family-movie-night/internal/common/errors"
	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.TMDBConfig {
	return config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Language:     "en-US",
		Region:       "US",
		Timeout:      5000,
	}
}

// newTestServer serves the lookup-table endpoints plus any extra routes the
// test registers, so Initialize always succeeds.
func newTestServer(t *testing.T, extra map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"genres": []models.Genre{
				{ID: 16, Name: "Animation"},
				{ID: 35, Name: "Comedy"},
				{ID: 10751, Name: "Family"},
			},
		})
	})
	mux.HandleFunc("/certification/movie/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"certifications": map[string]interface{}{
				"US": []models.Certification{
					{Certification: "G", Order: 1},
					{Certification: "PG", Order: 2},
					{Certification: "PG-13", Order: 3},
				},
			},
		})
	})
	for pattern, handler := range extra {
		mux.HandleFunc(pattern, handler)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newReadyClient(t *testing.T, extra map[string]http.HandlerFunc) *Client {
	t.Helper()

	srv := newTestServer(t, extra)
	client, err := NewClient(testConfig(srv.URL), logger.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, client.Initialize(context.Background()))
	return client
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.APIKey = "  "

	_, err := NewClient(cfg, logger.NewNoOpLogger())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMissingAPIKey))
}

func TestInitialize_LoadsLookupTables(t *testing.T) {
	client := newReadyClient(t, nil)

	assert.True(t, client.Ready())
	assert.Equal(t, []int{16, 35}, client.GenreIDs([]string{"Animation", "Comedy", "Unknown"}))
	assert.Equal(t, []string{"Family"}, client.GenreNames([]int{10751, 999}))

	certs := client.CertificationList()
	require.Len(t, certs, 3)
	assert.Equal(t, "G", certs[0].Certification)
}

func TestGenreIDs_CaseInsensitive(t *testing.T) {
	client := newReadyClient(t, nil)
	assert.Equal(t, []int{16}, client.GenreIDs([]string{"animation"}))
}

func TestDiscover_RequiresInitialize(t *testing.T) {
	srv := newTestServer(t, nil)
	client, err := NewClient(testConfig(srv.URL), logger.NewTestLogger(t))
	require.NoError(t, err)

	_, err = client.Discover(context.Background(), DiscoverFilters{}, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeProviderNotReady))
}

func TestDiscover_QueryParameters(t *testing.T) {
	var captured url.Values
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/discover/movie": func(w http.ResponseWriter, r *http.Request) {
			captured = r.URL.Query()
			json.NewEncoder(w).Encode(MovieList{Page: 1, TotalPages: 1})
		},
	})

	filters := DiscoverFilters{
		GenreIDs:       []int{16, 35},
		YearStart:      1990,
		YearEnd:        2005,
		MinRating:      6.5,
		Certifications: []string{"G", "PG"},
	}
	_, err := client.Discover(context.Background(), filters, 3)
	require.NoError(t, err)

	assert.Equal(t, "3", captured.Get("page"))
	assert.Equal(t, "vote_average.desc", captured.Get("sort_by"))
	assert.Equal(t, "100", captured.Get("vote_count.gte"))
	assert.Equal(t, "16|35", captured.Get("with_genres"))
	assert.Equal(t, "6.5", captured.Get("vote_average.gte"))
	assert.Equal(t, "1990-01-01", captured.Get("primary_release_date.gte"))
	assert.Equal(t, "2005-12-31", captured.Get("primary_release_date.lte"))
	assert.Equal(t, "US", captured.Get("certification_country"))
	assert.Equal(t, "G|PG", captured.Get("certification"))
	assert.Equal(t, "test-key", captured.Get("api_key"))
	assert.Equal(t, "en-US", captured.Get("language"))
}

func TestDiscover_OmitsEmptyFilters(t *testing.T) {
	var captured url.Values
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/discover/movie": func(w http.ResponseWriter, r *http.Request) {
			captured = r.URL.Query()
			json.NewEncoder(w).Encode(MovieList{Page: 1, TotalPages: 1})
		},
	})

	_, err := client.Discover(context.Background(), DiscoverFilters{}, 0)
	require.NoError(t, err)

	assert.Equal(t, "1", captured.Get("page"), "page floors at 1")
	assert.False(t, captured.Has("with_genres"))
	assert.False(t, captured.Has("certification"))
	assert.False(t, captured.Has("primary_release_date.gte"))
	assert.False(t, captured.Has("vote_average.gte"))
}

func TestDiscover_ServerError(t *testing.T) {
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/discover/movie": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})

	_, err := client.Discover(context.Background(), DiscoverFilters{}, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeProviderRequestFailed))
}

func TestMovieDetails(t *testing.T) {
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/movie/603": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":           603,
				"title":        "The Matrix",
				"vote_average": 8.2,
				"tagline":      "Welcome to the Real World.",
				"genres":       []models.Genre{{ID: 28, Name: "Action"}},
			})
		},
		"/movie/999": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	ctx := context.Background()

	details, err := client.MovieDetails(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", details.Title)
	assert.Equal(t, "Welcome to the Real World.", details.Tagline)
	require.Len(t, details.Genres, 1)

	_, err = client.MovieDetails(ctx, 999)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMovieNotFound))
}

func TestKeywords(t *testing.T) {
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/movie/42/keywords": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":       42,
				"keywords": []models.Keyword{{ID: 1, Name: "friendship"}, {ID: 2, Name: "talking animals"}},
			})
		},
	})

	keywords, err := client.Keywords(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	assert.Equal(t, "friendship", keywords[0].Name)
}

func TestSimilar_FiltersSortsAndCaps(t *testing.T) {
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/movie/42/similar": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(MovieList{
				Page: 1,
				Results: []models.Movie{
					{ID: 1, VoteAverage: 7.0, VoteCount: 500},
					{ID: 2, VoteAverage: 9.0, VoteCount: 50},
					{ID: 3, VoteAverage: 8.0, VoteCount: 200},
					{ID: 4, VoteAverage: 8.0, VoteCount: 300},
					{ID: 5, VoteAverage: 6.0, VoteCount: 1000},
				},
			})
		},
	})

	similar, err := client.Similar(context.Background(), 42, 3)
	require.NoError(t, err)

	// Movie 2 is dropped for low vote count; ties break by ID ascending.
	ids := make([]int, len(similar))
	for i, m := range similar {
		ids[i] = m.ID
	}
	assert.Equal(t, []int{3, 4, 1}, ids)
}

func TestWatchProviders(t *testing.T) {
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/movie/42/watch/providers": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": 42,
				"results": map[string]interface{}{
					"US": WatchProviders{
						Link:     "https://example.test/42",
						Flatrate: []WatchProviderEntry{{ProviderID: 8, ProviderName: "Netflix"}},
					},
				},
			})
		},
		"/movie/43/watch/providers": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": 43, "results": map[string]interface{}{}})
		},
	})
	ctx := context.Background()

	providers, ok, err := client.WatchProviders(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, providers.Flatrate, 1)
	assert.Equal(t, "Netflix", providers.Flatrate[0].ProviderName)

	_, ok, err = client.WatchProviders(ctx, 43)
	require.NoError(t, err)
	assert.False(t, ok, "region without a listing reports absent")
}

func TestSearchByTitle(t *testing.T) {
	var captured url.Values
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/search/movie": func(w http.ResponseWriter, r *http.Request) {
			captured = r.URL.Query()
			json.NewEncoder(w).Encode(MovieList{
				Page:    1,
				Results: []models.Movie{{ID: 7, Title: "Paddington"}},
			})
		},
	})

	list, err := client.SearchByTitle(context.Background(), "Paddington", 1)
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "Paddington", captured.Get("query"))
}

func TestMovieCertification(t *testing.T) {
	client := newReadyClient(t, map[string]http.HandlerFunc{
		"/movie/42/release_dates": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"results": []map[string]interface{}{
					{
						"iso_3166_1": "DE",
						"release_dates": []map[string]interface{}{
							{"certification": "12", "type": 3},
						},
					},
					{
						"iso_3166_1": "US",
						"release_dates": []map[string]interface{}{
							{"certification": "", "type": 1},
							{"certification": "PG", "type": 3},
						},
					},
				},
			})
		},
		"/movie/43/release_dates": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]interface{}{}})
		},
	})
	ctx := context.Background()

	cert, err := client.MovieCertification(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "PG", cert, "theatrical release in the configured region wins")

	cert, err = client.MovieCertification(ctx, 43)
	require.NoError(t, err)
	assert.Empty(t, cert)
}

func TestImageURL(t *testing.T) {
	client := newReadyClient(t, nil)

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", client.ImageURL("/poster.jpg", ""))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/poster.jpg", client.ImageURL("/poster.jpg", "original"))
	assert.Empty(t, client.ImageURL("", "w500"))
}
