// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strconv"

	apperrors "family-movie-night/internal/common/errors"
	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/common/validation"
	"family-movie-night/internal/models"
	"family-movie-night/internal/recommend/engine"
	"family-movie-night/internal/tmdb"
	"family-movie-night/internal/vibes"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recommender is the engine contract the handlers depend on.
type Recommender interface {
	Recommend(ctx context.Context, req engine.Request) ([]models.Recommendation, error)
}

// MovieProvider is the slice of the metadata client the detail endpoint
// depends on.
type MovieProvider interface {
	Ready() bool
	MovieDetails(ctx context.Context, movieID int) (*tmdb.MovieDetails, error)
	Keywords(ctx context.Context, movieID int) ([]models.Keyword, error)
	WatchProviders(ctx context.Context, movieID int) (*tmdb.WatchProviders, bool, error)
	Similar(ctx context.Context, movieID, limit int) ([]models.Movie, error)
	MovieCertification(ctx context.Context, movieID int) (string, error)
	SearchByTitle(ctx context.Context, title string, page int) (*tmdb.MovieList, error)
	ImageURL(path, size string) string
}

type Handler struct {
	recommender  Recommender
	provider     MovieProvider
	similarLimit int
	logger       logger.Logger
}

func NewHandler(recommender Recommender, provider MovieProvider, similarLimit int, log logger.Logger) *Handler {
	if similarLimit <= 0 {
		similarLimit = 8
	}
	return &Handler{
		recommender:  recommender,
		provider:     provider,
		similarLimit: similarLimit,
		logger:       log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Routes builds the service mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/recommendations", h.handleRecommendations)
	mux.HandleFunc("GET /api/movies/{id}", h.handleMovieDetails)
	mux.HandleFunc("GET /api/search", h.handleSearch)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)

	return mux
}

type recommendationRequest struct {
	Vibe        string                    `json:"vibe"`
	Theme       string                    `json:"theme"`
	AgeGroups   []string                  `json:"ageGroups"`
	Preferences models.ContentPreferences `json:"preferences"`
	Limit       int                       `json:"limit"`
}

type recommendationResponse struct {
	RequestID       string                  `json:"requestId"`
	Vibe            string                  `json:"vibe"`
	Theme           string                  `json:"theme"`
	Count           int                     `json:"count"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.logger.WithFields(map[string]interface{}{"request_id": requestID})

	var document map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&document); err != nil {
		h.writeError(w, log, apperrors.NewInvalidRequestError("body is not valid JSON"))
		return
	}

	result, err := validation.Validate(document, validation.RecommendationRequestSchema)
	if err != nil {
		h.writeError(w, log, apperrors.NewInvalidRequestError("schema validation unavailable: "+err.Error()))
		return
	}
	if !result.Valid {
		h.writeValidationError(w, log, result)
		return
	}

	var req recommendationRequest
	raw, _ := json.Marshal(document)
	if err := json.Unmarshal(raw, &req); err != nil {
		h.writeError(w, log, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	vibe, err := vibes.Parse(req.Vibe)
	if err != nil {
		h.writeError(w, log, apperrors.NewInvalidVibeError(req.Vibe))
		return
	}
	theme, err := vibes.ParseTheme(req.Theme)
	if err != nil {
		h.writeError(w, log, apperrors.NewInvalidThemeError(req.Theme))
		return
	}

	ageGroups := make([]models.AgeGroup, 0, len(req.AgeGroups))
	for _, s := range req.AgeGroups {
		group, err := models.ParseAgeGroup(s)
		if err != nil {
			h.writeError(w, log, apperrors.NewInvalidRequestError(err.Error()))
			return
		}
		ageGroups = append(ageGroups, group)
	}

	recommendations, err := h.recommender.Recommend(r.Context(), engine.Request{
		Vibe:  vibe,
		Theme: theme,
		Profile: models.ViewerProfile{
			AgeGroups:   ageGroups,
			Preferences: req.Preferences,
		},
		Limit: req.Limit,
	})
	if err != nil {
		h.writeError(w, log, err)
		return
	}

	h.writeJSON(w, http.StatusOK, recommendationResponse{
		RequestID:       requestID,
		Vibe:            string(vibe),
		Theme:           string(theme),
		Count:           len(recommendations),
		Recommendations: recommendations,
	})
}

type movieDetailResponse struct {
	Movie          tmdb.MovieDetails    `json:"movie"`
	PosterURL      string               `json:"posterUrl,omitempty"`
	BackdropURL    string               `json:"backdropUrl,omitempty"`
	Certification  string               `json:"certification,omitempty"`
	Keywords       []models.Keyword     `json:"keywords,omitempty"`
	WatchProviders *tmdb.WatchProviders `json:"watchProviders,omitempty"`
	Similar        []models.Movie       `json:"similar,omitempty"`
}

// handleMovieDetails returns the full movie record enriched with keywords,
// watch providers and similar titles. Enrichment failures are logged and
// omitted; only the base record is required.
func (h *Handler) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithFields(map[string]interface{}{"request_id": uuid.NewString()})

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeError(w, log, apperrors.NewInvalidRequestError("movie id must be an integer"))
		return
	}

	details, err := h.provider.MovieDetails(r.Context(), id)
	if err != nil {
		h.writeError(w, log, err)
		return
	}

	resp := movieDetailResponse{
		Movie:       *details,
		PosterURL:   h.provider.ImageURL(details.PosterPath, "w500"),
		BackdropURL: h.provider.ImageURL(details.BackdropPath, "original"),
	}

	if cert, err := h.provider.MovieCertification(r.Context(), id); err == nil {
		resp.Certification = cert
	} else {
		log.Warn("certification lookup failed", map[string]interface{}{"movie_id": id, "error": err.Error()})
	}

	if keywords, err := h.provider.Keywords(r.Context(), id); err == nil {
		resp.Keywords = keywords
	} else {
		log.Warn("keyword lookup failed", map[string]interface{}{"movie_id": id, "error": err.Error()})
	}

	if providers, ok, err := h.provider.WatchProviders(r.Context(), id); err == nil && ok {
		resp.WatchProviders = providers
	} else if err != nil {
		log.Warn("watch provider lookup failed", map[string]interface{}{"movie_id": id, "error": err.Error()})
	}

	if similar, err := h.provider.Similar(r.Context(), id, h.similarLimit); err == nil {
		resp.Similar = similar
	} else {
		log.Warn("similar lookup failed", map[string]interface{}{"movie_id": id, "error": err.Error()})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type searchResponse struct {
	Query      string         `json:"query"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	Results    []models.Movie `json:"results"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithFields(map[string]interface{}{"request_id": uuid.NewString()})

	query := r.URL.Query().Get("query")
	if query == "" {
		h.writeError(w, log, apperrors.NewInvalidRequestError("query parameter is required"))
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			h.writeError(w, log, apperrors.NewInvalidRequestError("page must be a positive integer"))
			return
		}
		page = parsed
	}

	list, err := h.provider.SearchByTitle(r.Context(), query, page)
	if err != nil {
		h.writeError(w, log, err)
		return
	}

	h.writeJSON(w, http.StatusOK, searchResponse{
		Query:      query,
		Page:       list.Page,
		TotalPages: list.TotalPages,
		Results:    list.Results,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.provider.Ready() {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "initializing"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status, body := apperrors.ToResponse(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", map[string]interface{}{"code": body.Code, "details": body.Details})
	} else {
		log.Warn("request rejected", map[string]interface{}{"code": body.Code, "details": body.Details})
	}
	h.writeJSON(w, status, body)
}

func (h *Handler) writeValidationError(w http.ResponseWriter, log logger.Logger, result *validation.ValidationResult) {
	details := ""
	for i, ve := range result.Errors {
		if i > 0 {
			details += "; "
		}
		details += fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}
	h.writeError(w, log, apperrors.NewInvalidRequestError(details))
}
