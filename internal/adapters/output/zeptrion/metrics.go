package zeptrion

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts hub requests per endpoint. Attach with WithMetrics; the
// client works without it.
type Metrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zeptrion_hub_requests_total",
			Help: "Requests issued to the hub, by endpoint.",
		}, []string{"endpoint"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zeptrion_hub_request_errors_total",
			Help: "Hub requests that failed, by endpoint.",
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	if err := reg.Register(m.requests); err != nil {
		return err
	}
	return reg.Register(m.errors)
}

func (m *Metrics) observe(endpoint string, err error) {
	m.requests.WithLabelValues(endpoint).Inc()
	if err != nil {
		m.errors.WithLabelValues(endpoint).Inc()
	}
}
