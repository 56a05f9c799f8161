package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicevedic_questions_total",
			Help: "Questions answered, by outcome",
		},
		[]string{"outcome", "language"},
	)

	KnowledgeLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voicevedic_knowledge_latency_seconds",
			Help:    "Knowledge API latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	TranslationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicevedic_translation_failures_total",
			Help: "Translation calls that fell back to the original text",
		},
		[]string{"target"},
	)

	PlaybackErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicevedic_playback_errors_total",
			Help: "Speech playback failures by class",
		},
		[]string{"class"},
	)

	EngineReady = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicevedic_engine_ready_total",
			Help: "Voice engine readiness transitions by mode",
		},
		[]string{"mode"},
	)

	CaptureSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicevedic_capture_sessions_total",
			Help: "Voice capture sessions by result",
		},
		[]string{"result"},
	)
)
