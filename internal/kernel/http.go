// Package kernel assembles the HTTP stack: global middleware, health and
// metrics endpoints, and the API routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/priyamehta/aarohi/app/routes"
	"github.com/priyamehta/aarohi/pkg/metrics"
	"github.com/priyamehta/aarohi/pkg/middleware"
	"github.com/priyamehta/aarohi/pkg/reqid"
	"github.com/priyamehta/aarohi/pkg/response"
	"github.com/priyamehta/aarohi/pkg/router"
)

// NewRouter builds the application router with the full middleware stack.
//
// Order matters: metrics wraps everything so even rate-limited requests are
// counted; recovery sits above the request log so panics still produce a
// log line with the request id.
func NewRouter() (*router.Router, error) {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, response.M{"status": "up"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	if err := routes.RegisterAPI(r); err != nil {
		return nil, err
	}
	return r, nil
}
