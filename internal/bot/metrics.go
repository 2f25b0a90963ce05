package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bot's Prometheus collectors.
type Metrics struct {
	UpdatesProcessed     prometheus.Counter
	CommandsProcessed    *prometheus.CounterVec
	ErrorsTotal          prometheus.Counter
	RateLimited          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	BookingsCreated      prometheus.Counter
	BookingsCancelled    prometheus.Counter
}

// NewMetrics registers the collectors on reg. A nil reg means the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		UpdatesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bookbnb_bot",
			Name:      "updates_processed_total",
			Help:      "Total number of Telegram updates processed",
		}),
		CommandsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookbnb_bot",
			Name:      "commands_processed_total",
			Help:      "Commands processed by name",
		}, []string{"command"}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bookbnb_bot",
			Name:      "errors_total",
			Help:      "Handler errors and recovered panics",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bookbnb_bot",
			Name:      "rate_limited_total",
			Help:      "Updates dropped by the per-chat rate limit",
		}),
		UpdateProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookbnb_bot",
			Name:      "update_processing_time_seconds",
			Help:      "Time spent processing updates",
			Buckets:   prometheus.DefBuckets,
		}),
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bookbnb_bot",
			Name:      "bookings_created_total",
			Help:      "Bookings created from the bot",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bookbnb_bot",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled from the bot",
		}),
	}
}

func (b *Bot) countCommand(command string) {
	if b.metrics != nil {
		b.metrics.CommandsProcessed.WithLabelValues(command).Inc()
	}
}

func (b *Bot) countError() {
	if b.metrics != nil {
		b.metrics.ErrorsTotal.Inc()
	}
}
