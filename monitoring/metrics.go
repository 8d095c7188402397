package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	scanOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_scan_operations_total",
			Help: "QR scan operations by outcome",
		},
		[]string{"outcome"},
	)

	refundTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refund_transitions_total",
			Help: "Refund pipeline transitions by target status",
		},
		[]string{"status"},
	)

	identityResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_resolutions_total",
			Help: "Session identity resolutions by resolved type",
		},
		[]string{"user_type"},
	)

	watcherDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_watcher_dropped_changes_total",
			Help: "Record changes dropped because a subscriber was slow",
		},
		[]string{"collection"},
	)

	activeScanSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qr_active_scan_sessions",
			Help: "Currently open QR scan sessions",
		},
	)
)

func TrackScan(outcome string) {
	scanOperations.WithLabelValues(outcome).Inc()
}

func TrackRefundTransition(status string) {
	refundTransitions.WithLabelValues(status).Inc()
}

func TrackIdentityResolution(userType string) {
	if userType == "" {
		userType = "none"
	}
	identityResolutions.WithLabelValues(userType).Inc()
}

func TrackWatcherDrop(collection string) {
	watcherDrops.WithLabelValues(collection).Inc()
}

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}

	// Start metrics collection
	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.collectScanSessions(context.Background())
	}
}

func (m *Monitor) collectScanSessions(ctx context.Context) {
	keys, err := m.redis.Keys(ctx, "qr:session:*").Result()
	if err != nil {
		return
	}
	activeScanSessions.Set(float64(len(keys)))
}
