package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snuttools/snutt-proxy/lib/logging"
)

var logger = logging.GetLogger("metrics")

var (
	ErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snutt_proxy_error",
		Help: "The total number of errors when processing requests",
	})

	RequestHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snutt_proxy_requests",
		Help:    "Request histogram",
		Buckets: []float64{.1, .25, 1, 2.5, 5, 20},
	}, []string{"method", "status", "route"})

	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snutt_proxy_cache_results",
		Help: "Counter for lecture cache lookups by provenance (HIT, COALESCE, MISS)",
	}, []string{"result"})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snutt_proxy_upstream_requests",
		Help: "Counter for requests issued to the upstream catalog API by status class",
	}, []string{"status"})

	RateLimitedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snutt_proxy_rate_limited",
		Help: "Counter for requests denied by the fixed-window rate limiter",
	})
)

func StartMetrics(addr string) {
	prometheus.MustRegister(RequestHistogram)
	http.Handle("/metrics", promhttp.Handler())
	logger.Info("Starting metrics server on " + addr)
	err := http.ListenAndServe(addr, nil)
	if err != nil {
		logger.Error(err)
		return
	}
}

func ObserveRequestHistogram(route string, status string, method string, elapsed float64) {
	RequestHistogram.With(map[string]string{"route": route, "status": status, "method": method}).Observe(elapsed)
}
