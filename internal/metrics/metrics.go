package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asistencia_gateway_calls_total",
			Help: "Logical backend calls by action and outcome",
		},
		[]string{"tenant", "action", "outcome"},
	)

	GatewayAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asistencia_gateway_attempts_total",
			Help: "Network attempts made by the backend gateway",
		},
		[]string{"tenant", "action"},
	)

	GatewayCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asistencia_gateway_call_duration_seconds",
			Help:    "Duration of logical backend calls including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asistencia_cache_lookups_total",
			Help: "Result cache lookups by key and result",
		},
		[]string{"key", "result"},
	)

	SessionExpirationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "asistencia_session_expirations_total",
			Help: "Sessions cleared by the inactivity monitor",
		},
	)

	ActiveWorkspaces = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "asistencia_active_workspaces",
			Help: "Chats with an open workspace",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(
		GatewayCallsTotal,
		GatewayAttemptsTotal,
		GatewayCallDuration,
		CacheLookupsTotal,
		SessionExpirationsTotal,
		ActiveWorkspaces,
	)
}

// NewRouter отдает /metrics и /healthz
func NewRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: NewRouter(),
	}
}
