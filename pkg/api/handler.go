package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chronolabs/chrono/pkg/engine"
)

// MetricsRecorder is an interface for recording command metrics
type MetricsRecorder interface {
	RecordCommand(command string, applied bool)
}

// TimerHandler serves the timer API for front ends: commands mutate the
// engine, queries read its current snapshot.
type TimerHandler struct {
	engine          *engine.Engine
	metricsRecorder MetricsRecorder
}

// NewTimerHandler creates a handler over the given engine
func NewTimerHandler(e *engine.Engine) *TimerHandler {
	return &TimerHandler{engine: e}
}

// SetMetricsRecorder sets the metrics recorder for the handler
func (h *TimerHandler) SetMetricsRecorder(recorder MetricsRecorder) {
	h.metricsRecorder = recorder
}

// RegisterRoutes registers all API routes
func (h *TimerHandler) RegisterRoutes(r *mux.Router) {
	// Command routes
	r.HandleFunc("/timer/start", h.StartTimer).Methods("POST")
	r.HandleFunc("/timer/pause", h.PauseTimer).Methods("POST")
	r.HandleFunc("/timer/resume", h.ResumeTimer).Methods("POST")
	r.HandleFunc("/timer/reset", h.ResetTimer).Methods("POST")
	r.HandleFunc("/timer/stop", h.StopTimer).Methods("POST")

	// Query routes
	r.HandleFunc("/timer", h.GetTimer).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
}

// CommandResponse is returned by every command route. Commands never fail:
// a redundant command returns 200 with Applied set to false.
type CommandResponse struct {
	Command string          `json:"command"`
	Applied bool            `json:"applied"`
	Timer   engine.Snapshot `json:"timer"`
}

// StartTimer handles POST /timer/start
func (h *TimerHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, engine.CommandStart)
}

// PauseTimer handles POST /timer/pause
func (h *TimerHandler) PauseTimer(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, engine.CommandPause)
}

// ResumeTimer handles POST /timer/resume
func (h *TimerHandler) ResumeTimer(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, engine.CommandResume)
}

// ResetTimer handles POST /timer/reset
func (h *TimerHandler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, engine.CommandReset)
}

// StopTimer handles POST /timer/stop
func (h *TimerHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, engine.CommandStop)
}

func (h *TimerHandler) runCommand(w http.ResponseWriter, cmd engine.Command) {
	applied := h.engine.Apply(cmd)

	if h.metricsRecorder != nil {
		h.metricsRecorder.RecordCommand(string(cmd), applied)
	}

	resp := CommandResponse{
		Command: string(cmd),
		Applied: applied,
		Timer:   h.engine.Snapshot(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode %s response: %v", cmd, err)
	}
}

// GetTimer handles GET /timer
func (h *TimerHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.engine.Snapshot()); err != nil {
		log.Printf("Failed to encode timer snapshot: %v", err)
	}
}

// Health handles GET /health
func (h *TimerHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
