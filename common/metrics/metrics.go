package metrics

import (
	"log/slog"

	"go.opentelemetry.io/otel"
)

// Metrics groups the infrastructure instruments shared by the BFF and the CLI.
type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics
	Remote    *RemoteMetrics
	Health    *HealthMetrics
	logger    *slog.Logger
}

func New(serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	messaging, err := NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	remote, err := NewRemoteMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return &Metrics{
		Database:  database,
		Messaging: messaging,
		Remote:    remote,
		Health:    health,
		logger:    logger,
	}, nil
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database:  &DatabaseMetrics{},
		Messaging: &MessagingMetrics{},
		Remote:    &RemoteMetrics{},
		Health:    &HealthMetrics{dependencies: make(map[string]*DependencyStatus)},
	}
}

// latencyBuckets: 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s, 10s
var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}
