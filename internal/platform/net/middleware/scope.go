package middleware

import (
	"net/http"

	"bandwatch/internal/platform/logger"
	pnet "bandwatch/internal/platform/net"
)

// ScopeLogger copies the chi request id into the logger context so every
// downstream log line carries request_id
// mount after RequestID
func ScopeLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rid := pnet.RequestID(r.Context()); rid != "" {
			r = r.WithContext(logger.WithRequest(r.Context(), rid))
		}
		next.ServeHTTP(w, r)
	})
}
