package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface on top of client_golang
// collectors. It also exposes [Prometheus.RecordRequest] for the HTTP
// server's own middleware.
type Prometheus struct {
	LayoutsTotal    prometheus.Counter
	LayoutDuration  prometheus.Histogram
	LayoutCrossings prometheus.Gauge
	LayoutRating    prometheus.Gauge
	GraphNodes      prometheus.Gauge
	GraphEdges      prometheus.Gauge
	ExpiredTotal    prometheus.Counter

	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	StoreSnapshotsTotal    *prometheus.CounterVec

	ClientRequestsTotal   *prometheus.CounterVec
	ClientRequestDuration *prometheus.HistogramVec
	ClientErrorsTotal     *prometheus.CounterVec

	ServerRequestsTotal   *prometheus.CounterVec
	ServerRequestDuration *prometheus.HistogramVec
}

// NewPrometheus creates and registers the zonelink collectors on reg.
// A nil reg uses a fresh registry, which keeps tests isolated.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Prometheus{
		LayoutsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "zonelink_layouts_total",
			Help: "Total number of full re-layouts",
		}),
		LayoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "zonelink_layout_duration_seconds",
			Help:    "Wall time of a full re-layout",
			Buckets: prometheus.DefBuckets,
		}),
		LayoutCrossings: f.NewGauge(prometheus.GaugeOpts{
			Name: "zonelink_layout_crossings",
			Help: "Edge crossings in the committed layout",
		}),
		LayoutRating: f.NewGauge(prometheus.GaugeOpts{
			Name: "zonelink_layout_rating",
			Help: "Overall rating of the committed layout",
		}),
		GraphNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "zonelink_graph_nodes",
			Help: "Zones currently in the graph",
		}),
		GraphEdges: f.NewGauge(prometheus.GaugeOpts{
			Name: "zonelink_graph_edges",
			Help: "Connections currently in the graph",
		}),
		ExpiredTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "zonelink_expired_connections_total",
			Help: "Connections removed by expiry sweeps",
		}),

		StoreOperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zonelink_store_operations_total",
			Help: "Store operations by backend, operation and status",
		}, []string{"backend", "op", "status"}),
		StoreOperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zonelink_store_operation_duration_seconds",
			Help:    "Store operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "op"}),
		StoreSnapshotsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zonelink_store_snapshots_total",
			Help: "Remote snapshots delivered to watchers",
		}, []string{"backend"}),

		ClientRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zonelink_http_client_requests_total",
			Help: "Outgoing HTTP requests by host and status",
		}, []string{"method", "host", "status"}),
		ClientRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zonelink_http_client_request_duration_seconds",
			Help:    "Outgoing HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "host"}),
		ClientErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zonelink_http_client_errors_total",
			Help: "Outgoing HTTP requests that failed before a response",
		}, []string{"method", "host"}),

		ServerRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zonelink_http_requests_total",
			Help: "Total number of HTTP requests served",
		}, []string{"method", "route", "status"}),
		ServerRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zonelink_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *Prometheus) OnLayoutStart(_ context.Context, nodes, edges int) {
	p.GraphNodes.Set(float64(nodes))
	p.GraphEdges.Set(float64(edges))
}

func (p *Prometheus) OnLayoutComplete(_ context.Context, stats LayoutStats) {
	p.LayoutsTotal.Inc()
	p.LayoutDuration.Observe(stats.Duration.Seconds())
	p.LayoutCrossings.Set(float64(stats.Crossings))
	p.LayoutRating.Set(stats.Rating)
}

func (p *Prometheus) OnExpired(_ context.Context, count int) {
	p.ExpiredTotal.Add(float64(count))
}

func (p *Prometheus) OnOperation(_ context.Context, backend, op string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.StoreOperationsTotal.WithLabelValues(backend, op, status).Inc()
	p.StoreOperationDuration.WithLabelValues(backend, op).Observe(duration.Seconds())
}

func (p *Prometheus) OnSnapshot(_ context.Context, backend string, _ int) {
	p.StoreSnapshotsTotal.WithLabelValues(backend).Inc()
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, method, host, _ string, statusCode int, duration time.Duration) {
	p.ClientRequestsTotal.WithLabelValues(method, host, strconv.Itoa(statusCode)).Inc()
	p.ClientRequestDuration.WithLabelValues(method, host).Observe(duration.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, method, host, _ string, _ error) {
	p.ClientErrorsTotal.WithLabelValues(method, host).Inc()
}

// RecordRequest records one request served by the HTTP API.
func (p *Prometheus) RecordRequest(method, route string, status int, duration time.Duration) {
	p.ServerRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.ServerRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
