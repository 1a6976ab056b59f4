package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 流水线指标
var (
	interactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admithub",
		Subsystem: "assistant",
		Name:      "interactions_total",
		Help:      "Total processed user inquiries by intent and channel.",
	}, []string{"intent", "channel"})

	lowConfidenceTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "admithub",
		Subsystem: "assistant",
		Name:      "low_confidence_total",
		Help:      "Inquiries classified below the confidence threshold.",
	})

	processingSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "admithub",
		Subsystem: "assistant",
		Name:      "processing_seconds",
		Help:      "End to end inquiry processing latency.",
		Buckets:   prometheus.DefBuckets,
	})

	retrievalDocuments = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "admithub",
		Subsystem: "retrieval",
		Name:      "documents_returned",
		Help:      "Number of knowledge entries returned per retrieval.",
		Buckets:   []float64{0, 1, 2, 3, 5, 10},
	})

	trainingRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "admithub",
		Subsystem: "nlu",
		Name:      "training_runs_total",
		Help:      "Classifier training runs, including hot reloads.",
	})

	followupEmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "admithub",
		Subsystem: "followup",
		Name:      "emails_total",
		Help:      "Follow-up emails by delivery outcome.",
	}, []string{"outcome"})
)
