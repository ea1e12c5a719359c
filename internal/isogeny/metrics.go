package isogeny

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "sidh"
	subsystem = "isogeny"
)

var (
	buildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "builds_total",
		Help:      "Number of isogenies computed from a kernel generator",
	})
	pointEvaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "point_evaluations_total",
			Help:      "Number of points pushed through an isogeny, by evaluation algorithm",
		},
		[]string{"algorithm"},
	)
	scalarMultiplications = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "scalar_multiplications_total",
		Help:      "Number of multiplications of kernel generators by l during chain walks",
	})
	chainWalks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chain_walks_total",
			Help:      "Number of completed l^e chain walks, by walker",
		},
		[]string{"walker"},
	)
)

func init() {
	prometheus.MustRegister(
		buildsTotal,
		pointEvaluations,
		scalarMultiplications,
		chainWalks,
	)
}
