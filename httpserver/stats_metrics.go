// +build metrics

package httpserver

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statsTotalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "server",
		Name:      "connections_total",
		Help:      "Total number of connections accepted.",
	})
	statsActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "server",
		Name:      "active_connections",
		Help:      "Current number of open connections.",
	})
	statsTotalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "server",
		Name:      "requests_total",
		Help:      "Total number of requests handled.",
	})
	statsBytesRead = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "server",
		Name:      "bytes_read_total",
		Help:      "Total bytes read from connections.",
	})
	statsBytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "server",
		Name:      "bytes_written_total",
		Help:      "Total bytes written to connections.",
	})
	statsRequestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "server",
		Name:      "request_errors_total",
		Help:      "Total number of request-handling errors.",
	})
)

// published holds the totals already added to the Prometheus counters.
var published struct {
	sync.Mutex
	conns, reqs, bytesRead, bytesWritten, reqErrors uint64
}

// PublishPrometheus exports the current values of s as Prometheus
// metrics. Call periodically from a background goroutine, the same
// polling pattern the teacher's buffer-pool metrics file documents.
func (s *Stats) PublishPrometheus() {
	published.Lock()
	defer published.Unlock()
	conns, reqs := s.TotalConnections.Load(), s.TotalRequests.Load()
	bytesRead, bytesWritten := s.BytesRead.Load(), s.BytesWritten.Load()
	reqErrors := s.RequestErrors.Load()
	// Counters only receive the growth since the previous call.
	statsTotalConnections.Add(float64(conns - published.conns))
	statsActiveConnections.Set(float64(s.ActiveConnections.Load()))
	statsTotalRequests.Add(float64(reqs - published.reqs))
	statsBytesRead.Add(float64(bytesRead - published.bytesRead))
	statsBytesWritten.Add(float64(bytesWritten - published.bytesWritten))
	statsRequestErrors.Add(float64(reqErrors - published.reqErrors))
	published.conns, published.reqs = conns, reqs
	published.bytesRead, published.bytesWritten = bytesRead, bytesWritten
	published.reqErrors = reqErrors
}
