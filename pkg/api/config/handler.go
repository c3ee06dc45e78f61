package config

import (
	"encoding/json"
	"fmt"
	"net/http"

	"forecast_agent/pkg/core/llm"
)

type Response struct {
	ActiveProvider string   `json:"active_provider"`
	Available      []string `json:"available"`
	Ticker         string   `json:"ticker"`
	ReportsDir     string   `json:"reports_dir"`
	TranscriptsDir string   `json:"transcripts_dir"`
}

type SwitchRequest struct {
	Provider string `json:"provider"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	LLMMgr         *llm.Manager
	Ticker         string
	ReportsDir     string
	TranscriptsDir string
}

// NewHandler creates a new config handler
func NewHandler(mgr *llm.Manager, ticker, reportsDir, transcriptsDir string) *Handler {
	return &Handler{
		LLMMgr:         mgr,
		Ticker:         ticker,
		ReportsDir:     reportsDir,
		TranscriptsDir: transcriptsDir,
	}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	resp := Response{
		ActiveProvider: h.LLMMgr.ActiveProvider(),
		Available:      h.LLMMgr.Available(),
		Ticker:         h.Ticker,
		ReportsDir:     h.ReportsDir,
		TranscriptsDir: h.TranscriptsDir,
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SwitchRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.LLMMgr.SetActiveProvider(req.Provider)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fmt.Fprintf(w, "Success: Switched to %s", req.Provider)
}
