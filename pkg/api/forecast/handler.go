// Package forecast exposes the forecast pipeline over HTTP. The handler is a
// thin RPC boundary: decode, run, audit, encode.
package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"forecast_agent/pkg/core/corpus"
	coreforecast "forecast_agent/pkg/core/forecast"
	"forecast_agent/pkg/core/store"
)

// Handler holds dependencies for the forecast endpoint.
type Handler struct {
	Synthesizer *coreforecast.Synthesizer
	Audit       *store.RequestLogRepo
}

// NewHandler creates a forecast handler. audit may be a repo with no
// database, in which case audit writes are no-ops.
func NewHandler(s *coreforecast.Synthesizer, audit *store.RequestLogRepo) *Handler {
	return &Handler{Synthesizer: s, Audit: audit}
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleForecast serves POST /api/forecast.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req coreforecast.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quarters < 0 {
		http.Error(w, "quarters must not be negative", http.StatusBadRequest)
		return
	}

	requestID := uuid.NewString()
	ctx := r.Context()

	// Best-effort audit of the incoming request; failure never blocks the run.
	reqPayload, _ := json.Marshal(req)
	h.Audit.Begin(ctx, requestID, "/api/forecast", string(reqPayload))

	result, err := h.Synthesizer.Run(ctx, req)
	if err != nil {
		fmt.Printf("[API] Forecast request %s failed: %v\n", requestID, err)
		errPayload, _ := json.Marshal(errorResponse{Error: err.Error()})
		h.Audit.Finish(ctx, requestID, string(errPayload))

		if errors.Is(err, corpus.ErrDirNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	result.RequestID = requestID

	respPayload, err := json.Marshal(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.Audit.Finish(ctx, requestID, string(respPayload))

	w.Header().Set("Content-Type", "application/json")
	w.Write(respPayload)
}
