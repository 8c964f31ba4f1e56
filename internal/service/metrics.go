package service

import "github.com/prometheus/client_golang/prometheus"

// Print outcomes.
const (
	OutcomeSent     = "sent"
	OutcomeInvalid  = "invalid"
	OutcomeFetch    = "fetch_failed"
	OutcomeDelivery = "delivery_failed"
)

// Metrics counts print requests by outcome. A nil *Metrics records nothing.
type Metrics struct {
	requests    *prometheus.CounterVec
	attachments prometheus.Counter
}

// NewMetrics registers the print counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "print_requests_total",
				Help: "Print requests handled, by outcome.",
			},
			[]string{"outcome"},
		),
		attachments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "print_attachments_total",
			Help: "Documents delivered as email attachments.",
		}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.attachments} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(outcome string, attachments int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	if attachments > 0 {
		m.attachments.Add(float64(attachments))
	}
}
