package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sampling_documents_rendered_total",
		Help: "Documents rendered and stored, by document type and level.",
	}, []string{"doc_type", "level"})

	RenderedPages = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sampling_document_pages",
		Help:    "Pages per rendered document.",
		Buckets: []float64{1, 2, 3, 5, 8, 13},
	})

	ExtractionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sampling_extraction_failures_total",
		Help: "Formulation files that could not be read, by kind.",
	}, []string{"kind"})

	VersionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sampling_version_conflicts_total",
		Help: "Document writes that found their allocated file name taken.",
	})

	PlanSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sampling_plan_saves_total",
		Help: "Production day saves by outcome.",
	}, []string{"outcome"})
)
