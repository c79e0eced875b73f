// ABOUTME: JSON envelope helpers and the mapping from board error kinds to HTTP status codes.
// ABOUTME: Every API response body is either {"ok":true,"data":...} or {"ok":false,"error":...,"kind":...}.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/2389-research/kanban/board"
)

const maxBodyBytes = 1 << 20

// Error kinds reported in failure envelopes.
const (
	KindValidation        = "validation"
	KindNotFound          = "not_found"
	KindConflict          = "conflict"
	KindInvalidTransition = "invalid_transition"
	KindState             = "state"
	KindInternal          = "internal"
)

type envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{OK: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, envelope{OK: false, Error: msg, Kind: kind})
}

// classify maps a board error onto an HTTP status and envelope kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, board.ErrValidation):
		return http.StatusBadRequest, KindValidation
	case errors.Is(err, board.ErrNotFound):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, board.ErrConflict):
		return http.StatusConflict, KindConflict
	case errors.Is(err, board.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, KindInvalidTransition
	case errors.Is(err, board.ErrState):
		return http.StatusInternalServerError, KindState
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		log.Printf("component=web action=request_failed method=%s path=%s kind=%s err=%v", r.Method, r.URL.Path, kind, err)
	}
	writeFailure(w, status, kind, err.Error())
}

// decodeBody reads a single JSON object into dst. Failures are reported as
// validation errors.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeFailure(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if dec.More() {
		writeFailure(w, http.StatusBadRequest, KindValidation, "invalid request body: trailing data after JSON object")
		return false
	}
	return true
}
