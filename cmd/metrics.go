package cmd

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harmonet_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "harmonet_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	figuredSolutions = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "harmonet_figured_solutions",
		Help:    "Complete progressions per realized figured bass line.",
		Buckets: prometheus.ExponentialBuckets(1, 10, 10),
	})

	rulesReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harmonet_rules_reloads_total",
		Help: "Rules file reloads by result.",
	}, []string{"result"})
)

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	})
}
