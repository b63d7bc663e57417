package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Call metrics
	activeCalls = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "santa_gateway_active_calls",
		Help: "Number of active santa calls",
	})

	totalCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_gateway_calls_total",
		Help: "Total number of calls processed",
	})

	callDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "santa_gateway_call_duration_seconds",
		Help:    "Duration of santa calls in seconds",
		Buckets: []float64{10, 30, 60, 120, 180, 240, 300, 360},
	})

	callsByOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_gateway_call_outcomes_total",
		Help: "Calls ended, by outcome",
	}, []string{"outcome"}) // "completed", "empty_room", "timeout", "error"

	// TTS metrics
	ttsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_gateway_tts_requests_total",
		Help: "Total number of TTS synthesis requests",
	}, []string{"status"})

	ttsLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "santa_gateway_tts_latency_seconds",
		Help:    "TTS synthesis latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	})

	// STT metrics
	sttRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_gateway_stt_requests_total",
		Help: "Total number of STT requests",
	}, []string{"status"})

	// Status reporter metrics
	statusReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_gateway_status_reports_total",
		Help: "Call status reports sent to the backend",
	}, []string{"status"})

	// Audio metrics
	framesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_gateway_frames_emitted_total",
		Help: "Total audio frames delivered to rooms",
	})

	audioBytesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_gateway_audio_bytes_total",
		Help: "Total audio bytes processed",
	}, []string{"direction"}) // direction: "in" or "out"

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_gateway_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})

	// Circuit breaker metrics
	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "santa_gateway_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
	}, []string{"service"})

	circuitBreakerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_gateway_circuit_breaker_failures_total",
		Help: "Total circuit breaker failures",
	}, []string{"service"})
)

// Metrics tracks metrics for a single call
type Metrics struct {
	roomName     string
	startTime    time.Time
	ttsStartTime time.Time
	mu           sync.Mutex
}

// NewCallMetrics creates a new metrics tracker for a call
func NewCallMetrics(roomName string) *Metrics {
	return &Metrics{
		roomName:  roomName,
		startTime: time.Now(),
	}
}

// RecordCallStart records the start of a call
func (m *Metrics) RecordCallStart() {
	activeCalls.Inc()
	totalCalls.Inc()
}

// RecordCallEnd records the end of a call with its outcome
func (m *Metrics) RecordCallEnd(outcome string) {
	activeCalls.Dec()
	callDuration.Observe(time.Since(m.startTime).Seconds())
	callsByOutcome.WithLabelValues(outcome).Inc()
}

// RecordTTSStart records the start of a synthesis request
func (m *Metrics) RecordTTSStart() {
	m.mu.Lock()
	m.ttsStartTime = time.Now()
	m.mu.Unlock()
}

// RecordTTSEnd records the end of a synthesis request
func (m *Metrics) RecordTTSEnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ttsStartTime.IsZero() {
		ttsLatency.Observe(time.Since(m.ttsStartTime).Seconds())
	}

	status := "success"
	if !success {
		status = "error"
	}
	ttsRequests.WithLabelValues(status).Inc()
}

// RecordSTTResult records an STT transcription result
func (m *Metrics) RecordSTTResult(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	sttRequests.WithLabelValues(status).Inc()
}

// RecordStatusReport records the result of a backend status report
func RecordStatusReport(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	statusReports.WithLabelValues(status).Inc()
}

// RecordFrameEmitted counts one delivered audio frame
func RecordFrameEmitted() {
	framesEmitted.Inc()
}

// RecordError records an error
func (m *Metrics) RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordAudioBytes records audio bytes processed
func (m *Metrics) RecordAudioBytes(direction string, bytes int64) {
	audioBytesProcessed.WithLabelValues(direction).Add(float64(bytes))
}

// UpdateCircuitBreakerState updates circuit breaker state metric
func UpdateCircuitBreakerState(service string, state int) {
	circuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// IncrementCircuitBreakerFailures increments circuit breaker failure counter
func IncrementCircuitBreakerFailures(service string) {
	circuitBreakerFailures.WithLabelValues(service).Inc()
}
