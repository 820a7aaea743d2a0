package verifications

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/risk"
	"github.com/vigiapix/vigia/pkg/handlers"
	"github.com/vigiapix/vigia/pkg/identity"
	"github.com/vigiapix/vigia/pkg/pagination"
	"github.com/vigiapix/vigia/pkg/routes"
)

// Handler provides HTTP endpoints for verification operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// AnalyzeResponse is the wire shape of an analysis outcome. The
// assessment fields are always present; ID and CreatedAt only when the
// save succeeded, SaveError only when it failed.
type AnalyzeResponse struct {
	ID              *uuid.UUID     `json:"id,omitempty"`
	Kind            evidence.Kind  `json:"kind"`
	Score           int            `json:"score"`
	RiskLevel       risk.Level     `json:"risk_level"`
	RiskLabel       string         `json:"risk_label"`
	RiskColor       string         `json:"risk_color"`
	Confidence      float64        `json:"confidence"`
	Reasons         []string       `json:"reasons"`
	Recommendations []string       `json:"recommendations"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Saved           bool           `json:"saved"`
	SaveError       string         `json:"save_error,omitempty"`
	CreatedAt       *time.Time     `json:"created_at,omitempty"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "verifications"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for verification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/verifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Save},
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
		},
	}
}

// Analyze scores an evidence bundle and attempts to persist the result.
// Responds 200 with the assessment even when persistence fails; the
// saved flag and save_error field report the persistence outcome.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthenticated)
		return
	}

	var cmd AnalyzeCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Analyze(r.Context(), caller.Subject, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, toAnalyzeResponse(result))
}

// Save persists a previously produced assessment, allowing clients to
// retry after a failed save during analysis. Responds 201 on success.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthenticated)
		return
	}

	var cmd SaveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	v, err := h.sys.Save(r.Context(), caller.Subject, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, v)
}

// List returns the caller's verifications, newest first, with optional
// query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthenticated)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), caller.Subject, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and
// returns the caller's matching verifications.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthenticated)
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), caller.Subject, req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single verification owned by the caller.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthenticated)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	v, err := h.sys.Find(r.Context(), caller.Subject, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

func toAnalyzeResponse(result *AnalyzeResult) AnalyzeResponse {
	a := result.Assessment
	level := a.Level()

	resp := AnalyzeResponse{
		Kind:            result.Kind,
		Score:           a.Score,
		RiskLevel:       level,
		RiskLabel:       level.Label(),
		RiskColor:       level.Color(),
		Confidence:      a.Confidence,
		Reasons:         a.Reasons,
		Recommendations: a.Recommendations,
		Metadata:        a.Metadata,
		Saved:           result.Saved,
		SaveError:       result.SaveError,
	}

	if result.Verification != nil {
		resp.ID = &result.Verification.ID
		resp.CreatedAt = &result.Verification.CreatedAt
	}

	return resp
}
