package handler

import (
	"net/http"

	"github.com/ayo6706/transfer-simulator/internal/simulation"
)

// StatusSource reports the live state of a run.
type StatusSource interface {
	Status() simulation.Status
}

type SimulationHandler struct {
	source StatusSource
}

func NewSimulationHandler(source StatusSource) *SimulationHandler {
	return &SimulationHandler{source: source}
}

// GetStatus returns the current run status. It answers 503 until a run is attached.
func (h *SimulationHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		RespondError(w, r, http.StatusServiceUnavailable, "simulation/not-started", "no simulation is attached")
		return
	}
	RespondJSON(w, http.StatusOK, h.source.Status())
}
