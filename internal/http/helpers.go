package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/storage"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStorageError maps storage and validation failures to statuses;
// anything unrecognized is a 500 with the detail kept out of the body.
func writeStorageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, storage.ErrBudgetExists):
		writeError(w, http.StatusConflict, "budget already exists for category")
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody decodes a JSON request body into v, rejecting unknown
// fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parsePageRequest reads page/size query params. Absent or malformed
// values fall back to zero, which disables pagination downstream.
func parsePageRequest(r *http.Request) core.PageRequest {
	var req core.PageRequest
	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			req.Page = p
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("size")); v != "" {
		if s, err := strconv.Atoi(v); err == nil {
			req.Size = s
		}
	}
	return req
}

// parseSortKey validates the sort query param. Unknown tokens are a
// client error, not a silent default.
func parseSortKey(w http.ResponseWriter, r *http.Request) (core.SortKey, bool) {
	key, err := core.ParseSortKey(strings.TrimSpace(r.URL.Query().Get("sort")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return key, true
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
