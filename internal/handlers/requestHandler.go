package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rkandala/newsrag/internal/adapter"
	"github.com/rkandala/newsrag/internal/adapter/utils"
	"github.com/rkandala/newsrag/internal/api"
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
	"github.com/rkandala/newsrag/internal/rag/vectorDB"
)

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// PostIngestHandler queues a background ingestion run and returns the
// job id to poll. Symbols are optional; an empty list refreshes each
// source's latest feed.
func (h *Handler) PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}

	var requestData api.IngestRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logH.Error("Couldn't close the ingest request reader", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil && !errors.Is(err, io.EOF) {
		logH.Warn("Bad Ingest Request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	if requestData.Limit < 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "limit must not be negative")
		return
	}

	data := newJobData{
		id:      utils.GetNewUUID(),
		symbols: requestData.Symbols,
		limit:   requestData.Limit,
		traceId: r.Context().Value(config.TRACE_ID_KEY).(string),
	}
	h.createNewJob(data)

	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(data.id))
}

// GetStatusHandler reports the current state of one job.
func (h *Handler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	result, isFound := h.getJobStatus(idString, r.Context().Value(config.TRACE_ID_KEY).(string))
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// GetSearchHandler answers a semantic query over the indexed news.
// Query params: q (required), symbol, top_k, ensure ("true" ingests
// the symbol first when it has no documents yet).
func (h *Handler) GetSearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "q is required")
		return
	}
	symbol := r.URL.Query().Get("symbol")

	topK := 0
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteErrorResponse(w, http.StatusBadRequest, "", "top_k must be a positive integer")
			return
		}
		topK = parsed
	}

	var results []newsModel.SearchResult
	var err error
	if r.URL.Query().Get("ensure") == "true" {
		results, err = h.ragService.SearchIndexed(r.Context(), query, topK, symbol, config.DefaultIngestLimit)
	} else {
		results, err = h.ragService.Search(r.Context(), query, topK, symbol)
	}
	if err != nil {
		h.writeDependencyError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(query, symbol, results))
}

// GetCountHandler reports how many chunks are indexed.
func (h *Handler) GetCountHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	count, err := h.ragService.DocumentCount(r.Context())
	if err != nil {
		h.writeDependencyError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.CountResponse{Documents: count})
}

func (h *Handler) writeDependencyError(w http.ResponseWriter, err error) {
	var unavailable *vectorDB.StoreUnavailableError
	if errors.As(err, &unavailable) {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Vector store unavailable")
		return
	}
	h.logger.Error("Request failed", "error", err)
	WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
}
