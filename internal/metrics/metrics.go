// Package metrics exposes the AESP runtime's Prometheus instrumentation:
// per-channel client counts, broadcast fan-out and queue depth, drop
// counters, breakpoint hit counters and CLI request counts. Grounded on
// kstaniek-go-ampio-server/internal/metrics, the only repo in the
// reference corpus with a working Prometheus wiring.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChannelClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aesp_channel_clients",
		Help: "Current number of connected clients per channel.",
	}, []string{"channel"})

	ChannelBroadcastFanout = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aesp_channel_broadcast_fanout",
		Help: "Number of clients targeted by the most recent broadcast on a channel.",
	}, []string{"channel"})

	ChannelQueueDepthMax = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aesp_channel_queue_depth_max",
		Help: "Maximum observed outbound queue depth among clients of a channel.",
	}, []string{"channel"})

	ChannelQueueDepthAvg = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aesp_channel_queue_depth_avg",
		Help: "Approximate average outbound queue depth among clients of a channel.",
	}, []string{"channel"})

	ChannelDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aesp_channel_drops_total",
		Help: "Total frames dropped (drop-oldest back-pressure) per channel.",
	}, []string{"channel"})

	BreakpointHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aesp_breakpoint_hits_total",
		Help: "Total breakpoint hits by kind (substituted, watched).",
	}, []string{"kind"})

	CLIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aesp_cli_requests_total",
		Help: "Total CLI requests received by verb.",
	}, []string{"verb"})

	CLIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aesp_cli_request_duration_seconds",
		Help:    "CLI request handling latency by verb.",
		Buckets: prometheus.DefBuckets,
	}, []string{"verb"})

	ControlRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aesp_control_requests_total",
		Help: "Total AESP control requests received by message type.",
	}, []string{"type"})

	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aesp_errors_total",
		Help: "Error counters by taxonomy category.",
	}, []string{"category", "kind"})

	FrameCounter = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aesp_frame_counter",
		Help: "Monotonic video frame counter of the running emulation.",
	})

	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aesp_build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
)

// InitBuildInfo records build metadata once at startup.
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
}

// Handler returns the promhttp handler to mount on the optional metrics
// listener.
func Handler() http.Handler { return promhttp.Handler() }

// SetQueueDepth records a snapshot of max/avg outbound queue depth for a
// channel's clients.
func SetQueueDepth(channel string, max, avg int) {
	ChannelQueueDepthMax.WithLabelValues(channel).Set(float64(max))
	ChannelQueueDepthAvg.WithLabelValues(channel).Set(float64(avg))
}
