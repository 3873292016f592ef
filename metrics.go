package qsearch

import (
	"sync"
	"time"
)

// Metrics tracks pool throughput and job latency.
type Metrics struct {
	mu                 sync.RWMutex
	WorkerCount        int
	JobQueueSize       int
	JobCount           int64
	Failures           int64
	Retries            int64
	SchedulingFailures int64
	TotalJobTime       time.Duration
	AverageJobLatency  time.Duration
	P95JobLatency      time.Duration
	P99JobLatency      time.Duration
	JobSuccessRate     float64

	latencies  []float64
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]float64, 0, 1000), // Store last 1000 measurements
		windowSize: 1000,
	}
}

func (m *Metrics) recordJobExecution(startTime time.Time, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalJobTime += duration
	m.JobCount++
	if !success {
		m.Failures++
	}
	m.JobSuccessRate = float64(m.JobCount-m.Failures) / float64(m.JobCount)

	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) recordRetry() {
	m.mu.Lock()
	m.Retries++
	m.mu.Unlock()
}

func (m *Metrics) recordSchedulingFailure() {
	m.mu.Lock()
	m.SchedulingFailures++
	m.mu.Unlock()
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageJobLatency = m.TotalJobTime / time.Duration(m.JobCount)

	m.latencies = append(m.latencies, float64(duration))
	if len(m.latencies) > m.windowSize {
		m.latencies = m.latencies[1:]
	}

	m.P95JobLatency = time.Duration(Quantile(0.95, m.latencies))
	m.P99JobLatency = time.Duration(Quantile(0.99, m.latencies))
}

// Export returns a flat snapshot suitable for logging.
func (m *Metrics) Export() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{
		"worker_count":        m.WorkerCount,
		"queue_size":          m.JobQueueSize,
		"jobs":                m.JobCount,
		"failures":            m.Failures,
		"retries":             m.Retries,
		"scheduling_failures": m.SchedulingFailures,
		"success_rate":        m.JobSuccessRate,
		"avg_latency_ms":      m.AverageJobLatency.Milliseconds(),
		"p95_latency_ms":      m.P95JobLatency.Milliseconds(),
		"p99_latency_ms":      m.P99JobLatency.Milliseconds(),
	}
}
