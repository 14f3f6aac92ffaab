package gowa

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	wametrics "github.com/dantte-lp/gowa/internal/metrics"
)

// testCollector returns a Collector registered against a private
// registry, so tests can construct one repeatedly without colliding
// with prometheus.DefaultRegisterer.
func testCollector(t *testing.T) *wametrics.Collector {
	t.Helper()

	return wametrics.NewCollector(prometheus.NewRegistry())
}
