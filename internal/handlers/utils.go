package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rkandala/newsrag/internal/adapter"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

var logH = logger_i.NewLogger("Handlers")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// too late for a clean status code, just log it
		logH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logH.Warn("context cancelled")
		return false
	default:
		return true
	}
}
