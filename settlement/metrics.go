package settlement

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitfsorg/libservicemarket-go/ledger"
	"github.com/bitfsorg/libservicemarket-go/market"
)

// Result label values of servicemarket_settlements_total.
const (
	ResultCommitted          = "committed"
	ResultInequivalentAmount = "inequivalent_amount"
	ResultSoulbound          = "soulbound"
	ResultInsufficient       = "insufficient_balance"
	ResultUnauthorized       = "unauthorized"
	ResultError              = "error"
)

// Metrics holds the settlement collectors and the registry they are
// registered on. A nil *Metrics records nothing.
type Metrics struct {
	// Registry holds the settlement collectors; serve it with promhttp.HandlerFor.
	Registry *prometheus.Registry

	settlements *prometheus.CounterVec
	volume      *prometheus.CounterVec
	royalty     prometheus.Counter
}

// NewMetrics creates the settlement collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		settlements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "servicemarket",
				Name:      "settlements_total",
				Help:      "Total number of settlements by mode and result.",
			},
			[]string{"mode", "result"},
		),
		volume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "servicemarket",
				Name:      "payment_volume_total",
				Help:      "Payment token units settled by committed purchases.",
			},
			[]string{"mode"},
		),
		royalty: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "servicemarket",
				Name:      "royalty_total",
				Help:      "Payment token units routed through the holding account.",
			},
		),
	}
	m.Registry.MustRegister(m.settlements, m.volume, m.royalty)
	return m
}

func (m *Metrics) committed(r *Receipt) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(string(r.Mode), ResultCommitted).Inc()
	m.volume.WithLabelValues(string(r.Mode)).Add(float64(r.TokenAmount))
	m.royalty.Add(float64(r.Royalty))
}

func (m *Metrics) aborted(mode Mode, err error) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(string(mode), resultOf(err)).Inc()
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, market.ErrInequivalentAmount):
		return ResultInequivalentAmount
	case errors.Is(err, market.ErrSoulboundViolation):
		return ResultSoulbound
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return ResultInsufficient
	case errors.Is(err, ledger.ErrUnauthorized):
		return ResultUnauthorized
	default:
		return ResultError
	}
}
