// Package metrics exposes Prometheus collectors for the Logseq RPC layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RPCCalls counts Logseq API calls by method and outcome
	// (ok, remote_error, transport_error).
	RPCCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logseqmcp_rpc_calls_total",
		Help: "Logseq API calls issued, by method and outcome",
	}, []string{"method", "outcome"})

	// RPCDuration observes wall-clock time per Logseq API call.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "logseqmcp_rpc_duration_seconds",
		Help:    "Logseq API call duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// BlocksInserted counts blocks created by tree synchronization.
	BlocksInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logseqmcp_blocks_inserted_total",
		Help: "Blocks created by replace_children tree inserts",
	})

	// BlocksDeleted counts blocks removed by tree synchronization.
	BlocksDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logseqmcp_blocks_deleted_total",
		Help: "Blocks deleted by replace_children teardown",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
