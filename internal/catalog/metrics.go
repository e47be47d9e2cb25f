package catalog

import "github.com/prometheus/client_golang/prometheus"

const (
	entityCategory = "category"
	entityProduct  = "product"

	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Metrics counts successful catalog mutations.
type Metrics struct {
	Mutations *prometheus.CounterVec
}

// statsReporter is implemented by stores that can report their size cheaply.
type statsReporter interface {
	Stats() (categories, products int)
}

func NewMetrics(reg prometheus.Registerer, store Store) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_mutations_total",
				Help: "Successful catalog writes by entity and operation",
			},
			[]string{"entity", "op"},
		),
	}
	reg.MustRegister(m.Mutations)

	if sr, ok := store.(statsReporter); ok {
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "catalog_categories",
				Help: "Categories currently held",
			}, func() float64 {
				n, _ := sr.Stats()
				return float64(n)
			}),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "catalog_products",
				Help: "Products currently held across all categories",
			}, func() float64 {
				_, n := sr.Stats()
				return float64(n)
			}),
		)
	}

	return m
}

func (m *Metrics) observe(entity, op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(entity, op).Inc()
}
