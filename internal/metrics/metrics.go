// Package metrics exposes solver checkpoints as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"knapsack/internal/opt"
)

const namespace = "knapsack"

// Reporter records every checkpoint it receives. It is safe for concurrent use.
type Reporter struct {
	gatherer prometheus.Gatherer

	bestFitness    *prometheus.GaugeVec
	currentFitness *prometheus.GaugeVec
	bestSize       *prometheus.GaugeVec
	temperature    *prometheus.GaugeVec
	perturbations  *prometheus.GaugeVec
	checkpoints    *prometheus.CounterVec
}

// NewReporter registers the solver collectors on reg. A nil reg gets a fresh
// private registry.
func NewReporter(reg *prometheus.Registry) *Reporter {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	labels := []string{"algorithm"}

	return &Reporter{
		gatherer: reg,
		bestFitness: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Fitness of the best solution found so far.",
		}, labels),
		currentFitness: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_fitness",
			Help:      "Fitness of the current solution or best population member.",
		}, labels),
		bestSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_size",
			Help:      "Total size of the best solution found so far.",
		}, labels),
		temperature: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature",
			Help:      "Current annealing temperature.",
		}, labels),
		perturbations: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "perturbations",
			Help:      "Perturbations performed so far in the current run.",
		}, labels),
		checkpoints: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoints_total",
			Help:      "Progress checkpoints reported.",
		}, labels),
	}
}

func (r *Reporter) Report(p opt.Progress) {
	algo := p.Algorithm
	r.bestFitness.WithLabelValues(algo).Set(p.BestFitness)
	r.currentFitness.WithLabelValues(algo).Set(p.CurrentFitness)
	r.bestSize.WithLabelValues(algo).Set(float64(p.BestSize))
	if p.Temperature > 0 {
		r.temperature.WithLabelValues(algo).Set(p.Temperature)
		r.perturbations.WithLabelValues(algo).Set(float64(p.Perturbations))
	}
	r.checkpoints.WithLabelValues(algo).Inc()
}

// Handler serves the collectors registered by NewReporter.
func (r *Reporter) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
