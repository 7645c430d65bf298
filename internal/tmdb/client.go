// internal/tmdb/client.go
//
// Client for The Movie Database (TMDB) API v3. It owns the genre and
// certification lookup tables, which are loaded once by Initialize; callers
// must not invoke discovery before initialization completes.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"family-movie-night/internal/common/config"
	apperrors "family-movie-night/internal/common/errors"
	commonhttp "family-movie-night/internal/common/http"
	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/models"
)

// similarMinVotes filters out barely-rated titles from similar-movie lists.
const similarMinVotes = 100

// DiscoverFilters is the query contract for candidate discovery. The genre
// list is OR'd: a movie matching any listed genre is returned.
type DiscoverFilters struct {
	GenreIDs         []int
	YearStart        int
	YearEnd          int
	MinRating        float64
	Certifications   []string
	OriginalLanguage string
	Keywords         []string
}

// MovieList is one page of a discovery or search response.
type MovieList struct {
	Page         int            `json:"page"`
	Results      []models.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// MovieDetails is the full movie record returned by the details endpoint.
type MovieDetails struct {
	models.Movie
	Tagline             string         `json:"tagline"`
	Genres              []models.Genre `json:"genres"`
	ProductionCompanies []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"production_companies"`
}

// WatchProviderEntry is one streaming/rental option.
type WatchProviderEntry struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// WatchProviders groups the availability options for one region.
type WatchProviders struct {
	Link     string               `json:"link"`
	Flatrate []WatchProviderEntry `json:"flatrate"`
	Free     []WatchProviderEntry `json:"free"`
	Rent     []WatchProviderEntry `json:"rent"`
	Buy      []WatchProviderEntry `json:"buy"`
}

type Client struct {
	cfg    config.TMDBConfig
	httpc  *commonhttp.Client
	logger logger.Logger

	mu             sync.RWMutex
	ready          bool
	genreByID      map[int]string
	genreIDByName  map[string]int
	certifications []models.Certification
}

// NewClient validates the provider credential up front: a missing API key
// is a configuration error, never a silent empty result.
func NewClient(cfg config.TMDBConfig, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperrors.NewMissingAPIKeyError("set TMDB_API_KEY or tmdb.api_key in the configuration")
	}

	return &Client{
		cfg:           cfg,
		httpc:         commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger:        log.WithFields(map[string]interface{}{"component": "tmdb"}),
		genreByID:     make(map[int]string),
		genreIDByName: make(map[string]int),
	}, nil
}

// Initialize loads the genre and certification tables. It must complete
// before Discover or the genre lookups are used.
func (c *Client) Initialize(ctx context.Context) error {
	genres, err := c.Genres(ctx)
	if err != nil {
		return fmt.Errorf("load genres: %w", err)
	}

	certifications, err := c.Certifications(ctx)
	if err != nil {
		return fmt.Errorf("load certifications: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.genreByID = make(map[int]string, len(genres))
	c.genreIDByName = make(map[string]int, len(genres))
	for _, g := range genres {
		c.genreByID[g.ID] = g.Name
		c.genreIDByName[strings.ToLower(g.Name)] = g.ID
	}
	c.certifications = certifications
	c.ready = true

	c.logger.Info("provider client initialized", map[string]interface{}{
		"genres":         len(genres),
		"certifications": len(certifications),
	})
	return nil
}

// Ready reports whether Initialize has completed.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

func (c *Client) ensureReady() error {
	if !c.Ready() {
		return apperrors.NewProviderNotReadyError("call Initialize before discovery")
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)

	reqURL := c.cfg.BaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperrors.NewProviderRequestError(err.Error())
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return apperrors.NewProviderRequestError(fmt.Sprintf("GET %s: %v", endpoint, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewMovieNotFoundError(endpoint)
	case resp.StatusCode != http.StatusOK:
		return apperrors.NewProviderRequestError(fmt.Sprintf("GET %s: status %d", endpoint, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewProviderRequestError(fmt.Sprintf("decode %s: %v", endpoint, err))
	}
	return nil
}

// Genres fetches the provider's movie genre list.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var resp struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Certifications fetches the certification list for the configured region.
func (c *Client) Certifications(ctx context.Context) ([]models.Certification, error) {
	var resp struct {
		Certifications map[string][]models.Certification `json:"certifications"`
	}
	if err := c.get(ctx, "/certification/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Certifications[c.cfg.Region], nil
}

// Discover fetches one page of candidates matching the filters, sorted by
// rating descending.
func (c *Client) Discover(ctx context.Context, filters DiscoverFilters, page int) (*MovieList, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "vote_average.desc")
	params.Set("vote_count.gte", "100")

	if len(filters.GenreIDs) > 0 {
		ids := make([]string, len(filters.GenreIDs))
		for i, id := range filters.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		// Pipe separator: genres are OR'd, not AND'd.
		params.Set("with_genres", strings.Join(ids, "|"))
	}

	if filters.MinRating > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(filters.MinRating, 'f', -1, 64))
	}

	if filters.YearStart > 0 {
		params.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", filters.YearStart))
	}
	if filters.YearEnd > 0 {
		params.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", filters.YearEnd))
	}

	if len(filters.Certifications) > 0 {
		params.Set("certification_country", c.cfg.Region)
		params.Set("certification", strings.Join(filters.Certifications, "|"))
	}

	if filters.OriginalLanguage != "" {
		params.Set("with_original_language", filters.OriginalLanguage)
	}

	if len(filters.Keywords) > 0 {
		params.Set("with_keywords", strings.Join(filters.Keywords, "|"))
	}

	var resp MovieList
	if err := c.get(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MovieDetails fetches the full record for one movie.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*MovieDetails, error) {
	var resp MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Keywords fetches the provider keyword tags for one movie.
func (c *Client) Keywords(ctx context.Context, movieID int) ([]models.Keyword, error) {
	var resp struct {
		ID       int              `json:"id"`
		Keywords []models.Keyword `json:"keywords"`
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/keywords", movieID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Keywords, nil
}

// WatchProviders fetches streaming availability for the configured region.
// ok is false when the region has no listing.
func (c *Client) WatchProviders(ctx context.Context, movieID int) (*WatchProviders, bool, error) {
	var resp struct {
		ID      int                       `json:"id"`
		Results map[string]WatchProviders `json:"results"`
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID), nil, &resp); err != nil {
		return nil, false, err
	}

	providers, ok := resp.Results[c.cfg.Region]
	if !ok {
		return nil, false, nil
	}
	return &providers, true, nil
}

// Similar fetches related movies, filtered to well-rated titles and capped.
func (c *Client) Similar(ctx context.Context, movieID, limit int) ([]models.Movie, error) {
	var resp MovieList
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/similar", movieID), nil, &resp); err != nil {
		return nil, err
	}

	filtered := make([]models.Movie, 0, len(resp.Results))
	for _, m := range resp.Results {
		if m.VoteCount >= similarMinVotes {
			filtered = append(filtered, m)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].VoteAverage != filtered[j].VoteAverage {
			return filtered[i].VoteAverage > filtered[j].VoteAverage
		}
		return filtered[i].ID < filtered[j].ID
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// SearchByTitle runs a title search and returns a discover-shaped response.
func (c *Client) SearchByTitle(ctx context.Context, title string, page int) (*MovieList, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", title)
	params.Set("page", strconv.Itoa(page))

	var resp MovieList
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MovieCertification returns the certification of the theatrical release in
// the configured region, or "" when the provider has none.
func (c *Client) MovieCertification(ctx context.Context, movieID int) (string, error) {
	var resp struct {
		Results []struct {
			CountryCode  string `json:"iso_3166_1"`
			ReleaseDates []struct {
				Certification string `json:"certification"`
				Type          int    `json:"type"`
			} `json:"release_dates"`
		} `json:"results"`
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/release_dates", movieID), nil, &resp); err != nil {
		return "", err
	}

	for _, r := range resp.Results {
		if r.CountryCode != c.cfg.Region {
			continue
		}
		// Prefer the theatrical release (type 3), fall back to the first.
		for _, rd := range r.ReleaseDates {
			if rd.Type == 3 && rd.Certification != "" {
				return rd.Certification, nil
			}
		}
		if len(r.ReleaseDates) > 0 {
			return r.ReleaseDates[0].Certification, nil
		}
	}
	return "", nil
}

// ImageURL resolves a provider image path to an absolute URL. Returns ""
// for an empty path.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return c.cfg.ImageBaseURL + "/" + size + path
}

// GenreIDs maps genre names to provider IDs, skipping unknown names.
func (c *Client) GenreIDs(names []string) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]int, 0, len(names))
	for _, name := range names {
		if id, ok := c.genreIDByName[strings.ToLower(name)]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// GenreNames maps provider genre IDs back to names, skipping unknown IDs.
func (c *Client) GenreNames(ids []int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := c.genreByID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// CertificationList returns the certification table loaded at Initialize.
func (c *Client) CertificationList() []models.Certification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Certification, len(c.certifications))
	copy(out, c.certifications)
	return out
}
