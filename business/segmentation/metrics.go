package segmentation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segment_predictions_total",
			Help: "Count of segment predictions by assigned segment and pricing availability.",
		},
		[]string{"segment", "pricing"},
	)

	InvalidInputTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "segment_invalid_input_total",
		Help: "Count of prediction requests rejected as invalid input.",
	})
)

func init() {
	prometheus.MustRegister(PredictionsTotal, InvalidInputTotal)
}
