package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	soilComputedTotal  atomic.Uint64
	soilPersistedTotal atomic.Uint64
	soilFailedTotal    atomic.Uint64

	healthMu     sync.Mutex
	healthTotals = map[string]uint64{}

	soilDuration = newHistogram([]float64{0.05, 0.1, 0.25, 0.5, 1, 5, 25, 100, 500})
)

// IncSoilComputed counts one engine evaluation and its soil-health label.
func IncSoilComputed(label string) {
	soilComputedTotal.Add(1)
	healthMu.Lock()
	healthTotals[label]++
	healthMu.Unlock()
}

// IncSoilPersisted counts one analysis stored by a repository.
func IncSoilPersisted() {
	soilPersistedTotal.Add(1)
}

// IncSoilFailed counts one analysis request that failed after validation.
func IncSoilFailed() {
	soilFailedTotal.Add(1)
}

// ObserveSoilDurationMs records how long an analysis request took in milliseconds.
func ObserveSoilDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	soilDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "soil_analysis_computed_total", "Total soil parameter sets scored", soilComputedTotal.Load())
	writeCounter(&buf, "soil_analysis_persisted_total", "Total soil analyses stored", soilPersistedTotal.Load())
	writeCounter(&buf, "soil_analysis_failed_total", "Total soil analysis requests that failed", soilFailedTotal.Load())
	writeLabeledCounter(&buf, "soil_health_total", "Scored soil parameter sets by health label", "label", healthSnapshot())
	writeHistogram(&buf, "soil_analysis_duration_ms", "Soil analysis duration in milliseconds", soilDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func healthSnapshot() map[string]uint64 {
	healthMu.Lock()
	defer healthMu.Unlock()
	out := make(map[string]uint64, len(healthTotals))
	for k, v := range healthTotals {
		out[k] = v
	}
	return out
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already counts every bucket whose bound covers the value.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in fractional milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
