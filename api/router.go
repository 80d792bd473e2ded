package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
	"github.com/vishnu190806/emergency-supply-chain-management-system/metrics"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers stay unaware of
// the server lifecycle.
func NewRouter(queue *dispatch.Queue, prom *metrics.PromSink) http.Handler {
	mux := http.NewServeMux()

	qh := &QueueHandler{Queue: queue, Prom: prom}

	mux.HandleFunc("/health", Health)
	mux.HandleFunc("/api/requests", qh.Enqueue)
	mux.HandleFunc("/api/queue", qh.List)
	mux.HandleFunc("/api/dispatch", qh.Dispatch)
	mux.Handle("/metrics", metrics.Handler())

	return loggingMiddleware(mux)
}

// loggingMiddleware logs one line per request with method, path, and
// duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.Debugf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
