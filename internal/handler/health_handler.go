package handler

import (
	"context"
	"net/http"

	"altairis-api/pkg/apierror"
)

type healthPinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db healthPinger
}

func NewHealthHandler(db healthPinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports liveness of the service and its database. A failed ping
// surfaces as 503 so load balancers stop routing to the instance.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		writeError(w, apierror.New("SERVICE_UNAVAILABLE", "database unreachable", "", http.StatusServiceUnavailable))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, nil)
}
