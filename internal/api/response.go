package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"poolRegistry/internal/pool"
)

const (
	statusOK    = "OK"
	statusError = "ERROR"
)

type pagination struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

type envelope struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Status: statusOK, Data: data})
}

// writeError is the only place failures become HTTP responses.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := classify(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", code),
			zap.Error(err),
		)
	}
	writeJSON(w, code, errorEnvelope{Status: statusError, Error: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, pool.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, pool.ErrNotFound):
		return http.StatusNotFound, pool.ErrNotFound.Error()
	case errors.Is(err, pool.ErrResolverFailure):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, pool.ErrStoreFailure):
		return http.StatusInternalServerError, "database error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
