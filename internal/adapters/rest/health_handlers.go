package rest

import (
	"net/http"

	"search-service/internal/core/port/usecases_port"
)

type HealthHandler struct {
	readinessUC usecases_port.ReadinessUseCasePort
}

func NewHealthHandler(readinessUC usecases_port.ReadinessUseCasePort) *HealthHandler {
	return &HealthHandler{readinessUC: readinessUC}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready always answers 200; a failed dependency shows up as "degraded".
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.readinessUC.Execute(r.Context()))
}
