// File: internal/handlers/health_handler.go
package handlers

import (
	"net/http"

	"github.com/homellm/homechat/internal/domain"
	"github.com/homellm/homechat/internal/services/llm"
)

// HealthHandler reports inference backend reachability and passes the
// model listing through.
type HealthHandler struct {
	provider     llm.Provider
	defaultModel string
}

func NewHealthHandler(provider llm.Provider, defaultModel string) *HealthHandler {
	return &HealthHandler{provider: provider, defaultModel: defaultModel}
}

// Health answers healthy exactly when the inference backend responds
// to a probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.provider.GetStatus(r.Context())
	if !status.IsHealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"detail": status.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Models lists the models the backend offers. When the backend is down
// the known catalog is returned so the picker still renders.
func (h *HealthHandler) Models(w http.ResponseWriter, r *http.Request) {
	models, err := h.provider.ListModels(r.Context())
	if err != nil || len(models) == 0 {
		models = domain.KnownModels
	}

	descriptions := make(map[string]string, len(models))
	for _, m := range models {
		if desc, ok := domain.ModelDescriptions[m]; ok {
			descriptions[m] = desc
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"models":        models,
		"descriptions":  descriptions,
		"default_model": h.defaultModel,
	})
}
