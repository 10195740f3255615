package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"bandwatch/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// compose with CORS configured in main as needed
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.ScopeLogger,

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),

		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/healthz"),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}
