package httptransport

import (
	"net/http"
)

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK

	for name, checker := range h.health {
		if checker == nil {
			continue
		}
		if resp.Components == nil {
			resp.Components = make(map[string]string, len(h.health))
		}
		if err := checker.Health(r.Context()); err != nil {
			resp.Components[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = "ok"
	}

	writeJSON(w, status, resp)
}
