// Package api exposes the crawl-aggregate-cache pipeline over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"telspec/phoneapi/internal/catalog"
	"telspec/phoneapi/logger"
	apperrors "telspec/phoneapi/pkg/errors"
	"telspec/phoneapi/services/aggregator"
)

// phonesResponse is the JSON body for a successful request.
type phonesResponse struct {
	Total      int             `json:"total"`
	TimeTaken  string          `json:"timeTaken"`
	Results    []catalog.Phone `json:"results"`
	Cached     bool            `json:"cached"`
	TotalPages int             `json:"totalPages,omitempty"`
}

// errorResponse is the JSON body for any failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the phone aggregation endpoint.
type Handler struct {
	agg *aggregator.Aggregator
	log *logger.Logger
}

// NewHandler creates the HTTP handler around an aggregator.
func NewHandler(agg *aggregator.Aggregator) *Handler {
	return &Handler{
		agg: agg,
		log: logger.ForComponent("api"),
	}
}

// Phones handles GET /api/phones. An absent phone parameter means a
// full-catalog sweep; refresh=true bypasses the cache read; page/limit
// paginate the already-deduplicated result set client-side.
func (h *Handler) Phones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query, page, limit, err := parseParams(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	result, err := h.agg.Aggregate(r.Context(), query)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if !query.FullCatalog() && len(result.Items) == 0 {
		h.respondError(w, apperrors.NewNotFound("api", fmt.Sprintf("no phones matched %q", query.Term)))
		return
	}

	resp := phonesResponse{
		Total:     len(result.Items),
		TimeTaken: fmt.Sprintf("%.2f", result.Elapsed.Seconds()),
		Results:   result.Items,
		Cached:    result.Cached,
	}
	if resp.Results == nil {
		resp.Results = []catalog.Phone{}
	}

	if limit > 0 {
		resp.TotalPages = (resp.Total + limit - 1) / limit
		start := (page - 1) * limit
		end := min(start+limit, resp.Total)
		if start >= resp.Total {
			resp.Results = []catalog.Phone{}
		} else {
			resp.Results = resp.Results[start:end]
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseParams validates the query string into a catalog query plus
// optional client-side pagination bounds (limit 0 disables pagination).
func parseParams(r *http.Request) (catalog.Query, int, int, error) {
	values := r.URL.Query()

	query := catalog.Query{
		Term:    values.Get("phone"),
		Refresh: values.Get("refresh") == "true" || values.Get("refresh") == "1",
	}

	page, limit := 1, 0
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return query, 0, 0, apperrors.NewValidation("api", "limit must be a positive integer")
		}
		limit = n
	}
	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return query, 0, 0, apperrors.NewValidation("api", "page must be a positive integer")
		}
		page = n
	}

	return query, page, limit, nil
}

// respondError maps classified errors onto HTTP statuses. Anything not
// explicitly classified is reported as a generic internal failure; raw
// error detail stays in the logs.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			writeError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeNotFound:
			writeError(w, http.StatusNotFound, appErr.Message)
			return
		}
	}

	h.log.Error().Err(err).Msg("Request failed")
	writeError(w, http.StatusInternalServerError, "failed to fetch catalog data")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
