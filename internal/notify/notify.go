package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"lanwatch/internal/config"
	"lanwatch/internal/types"
)

// Notifier delivers one device lifecycle event
type Notifier interface {
	Notify(ctx context.Context, event types.DeviceEvent) error
}

// Manager fans device events out to all configured notifiers.
// Delivery is best effort: failures are logged and never reach the
// discovery engine or the API.
type Manager struct {
	config    *config.NotifyConfig
	logger    *zap.Logger
	notifiers []Notifier
	wg        sync.WaitGroup
}

// NewManager creates new notification manager
func NewManager(cfg *config.NotifyConfig, logger *zap.Logger) *Manager {
	m := &Manager{
		config: cfg,
		logger: logger,
	}

	if cfg.Enabled && cfg.Webhook.Enabled {
		m.notifiers = append(m.notifiers, NewWebhookNotifier(&cfg.Webhook, logger))
	}

	return m
}

// NotifyDeviceEvents dispatches merge transition events asynchronously
func (m *Manager) NotifyDeviceEvents(events []types.DeviceEvent) {
	if !m.config.Enabled || len(m.notifiers) == 0 || len(events) == 0 {
		return
	}

	for _, event := range events {
		for _, n := range m.notifiers {
			m.wg.Add(1)
			go func(n Notifier, event types.DeviceEvent) {
				defer m.wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()

				if err := n.Notify(ctx, event); err != nil {
					m.logger.Warn("Failed to deliver device event",
						zap.String("event_type", string(event.Type)),
						zap.String("ip", event.Device.IP),
						zap.Error(err))
				}
			}(n, event)
		}
	}
}

// Stop waits for in-flight deliveries to finish
func (m *Manager) Stop() error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		m.logger.Warn("Notification manager stop timed out")
	}
	return nil
}
