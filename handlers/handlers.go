// Package handlers contains the HTTP layer. Handlers parse and validate
// requests, delegate to services with the request's resolved organization
// context, and translate domain errors to HTTP responses. No business rules
// live here.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/contentpulse/contentpulse-backend/middleware"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/contentpulse/contentpulse-backend/utils"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// requireTenancy extracts the resolved organization context from the request,
// writing a 403 response when the tenancy middleware did not run or failed
func requireTenancy(w http.ResponseWriter, r *http.Request) (*tenancy.Context, bool) {
	tc := middleware.GetTenancyFromContext(r.Context())
	if tc == nil {
		_ = utils.WriteForbidden(w, "No organization context")
		return nil, false
	}
	return tc, true
}

// pathUUID parses a chi URL parameter as a UUID, writing a 400 response on failure
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(chi.URLParam(r, param), param)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return uuid.Nil, false
	}
	return id, true
}

// pagination extracts limit/offset query parameters with bounded defaults
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
