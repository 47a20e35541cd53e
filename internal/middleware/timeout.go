package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"altairis-api/internal/model"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout caps request handling time. The cutoff body uses the same
// envelope as every other error so clients never need a special case.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = defaultRequestTimeout
	}

	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "REQUEST_TIMEOUT",
			Message: "Request timed out",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, limit, string(body))
	}
}
