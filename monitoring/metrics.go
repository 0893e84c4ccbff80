package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var (
	ticketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_operations_total",
			Help: "Total ticket operations by outcome",
		},
		[]string{"operation", "status"},
	)

	activeTickets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tickets_total",
			Help: "Current number of active parking tickets",
		},
	)

	sessionMinutes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parking_session_minutes",
			Help:    "Duration of completed parking sessions in minutes",
			Buckets: prometheus.ExponentialBuckets(15, 2, 10),
		},
	)

	feeAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parking_fee_amount",
			Help:    "Charged parking fees",
			Buckets: prometheus.ExponentialBuckets(2.5, 2, 8),
		},
	)
)

// TrackTicketOperation records the outcome of an entry/exit/pay call.
func TrackTicketOperation(operation, status string) {
	ticketOperations.WithLabelValues(operation, status).Inc()
}

// ObserveParkingSession records a completed session's duration and fee.
func ObserveParkingSession(minutes float64, fee decimal.Decimal) {
	sessionMinutes.Observe(minutes)
	feeAmount.Observe(fee.InexactFloat64())
}

// Monitor periodically refreshes gauges from Redis.
type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	return &Monitor{redis: redisClient}
}

// Run collects metrics until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectActiveTickets(ctx)
		}
	}
}

func (m *Monitor) collectActiveTickets(ctx context.Context) {
	keys, err := m.redis.Keys(ctx, "plate:active:*").Result()
	if err != nil {
		return
	}

	var total int64
	for _, key := range keys {
		count, err := m.redis.SCard(ctx, key).Result()
		if err != nil {
			continue
		}
		total += count
	}
	activeTickets.Set(float64(total))
}
