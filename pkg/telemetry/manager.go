// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Stetchy/systeminformation/pkg/metrics"
	"github.com/go-logr/logr"
)

// Manager runs the enabled collectors on the configured interval and
// publishes their results to the metrics router.
type Manager struct {
	config   CollectionConfig
	logger   logr.Logger
	nodeName string
	registry *Registry
	router   metrics.Router
}

type ManagerOptions struct {
	Config   CollectionConfig
	Logger   logr.Logger
	NodeName string
	Registry *Registry
	Router   metrics.Router // Optional metrics router
}

func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Logger.GetSink() == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}

	// Get node name from environment if not provided
	nodeName := opts.NodeName
	if nodeName == "" {
		nodeName = os.Getenv("NODE_NAME")
		if nodeName == "" {
			hostname, err := os.Hostname()
			if err != nil {
				return nil, fmt.Errorf("failed to get hostname: %w", err)
			}
			nodeName = hostname
		}
	}

	// Apply defaults to config
	config := opts.Config
	config.ApplyDefaults()

	// Override paths for containerized environments
	if os.Getenv("HOST_PROC") != "" {
		config.HostProcPath = os.Getenv("HOST_PROC")
	}
	if os.Getenv("HOST_SYS") != "" {
		config.HostSysPath = os.Getenv("HOST_SYS")
	}

	return &Manager{
		config:   config,
		logger:   opts.Logger.WithName("telemetry-manager"),
		nodeName: nodeName,
		registry: opts.Registry,
		router:   opts.Router,
	}, nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() CollectionConfig {
	return m.config
}

// GetNodeName returns the node name
func (m *Manager) GetNodeName() string {
	return m.nodeName
}

// Run collects static identity once, then runs the time-varying collectors
// on the configured interval until the context is cancelled. A failing
// collector is reported as unavailable for that cycle; it never aborts the
// rest of the cycle.
func (m *Manager) Run(ctx context.Context) error {
	var static, periodic []Collector
	for _, c := range m.registry.Enabled(m.config) {
		if c.Capabilities().Static {
			static = append(static, c)
		} else {
			periodic = append(periodic, c)
		}
	}

	for _, c := range static {
		m.collectAndPublish(ctx, c)
	}

	if len(periodic) == 0 {
		m.logger.Info("no periodic collectors enabled")
		<-ctx.Done()
		return nil
	}

	m.logger.Info("starting collection loop",
		"interval", m.config.Interval, "collectors", len(periodic))

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("collection loop stopped")
			return nil
		case <-ticker.C:
			for _, c := range periodic {
				m.collectAndPublish(ctx, c)
			}
		}
	}
}

func (m *Manager) collectAndPublish(ctx context.Context, c Collector) {
	data, err := c.Collect(ctx)
	if err != nil {
		m.logger.Error(err, "metric unavailable", "type", c.Type())
		return
	}
	if err := m.publish(c.Type(), data); err != nil {
		m.logger.Error(err, "failed to publish collector data", "type", c.Type())
	}
}

func (m *Manager) publish(metricType MetricType, data any) error {
	if m.router == nil {
		return nil // Silently ignore if no router
	}

	event := metrics.MetricEvent{
		Timestamp:  time.Now(),
		Source:     "telemetry-collector",
		NodeName:   m.nodeName,
		MetricType: metrics.MetricType(metricType),
		EventType:  eventTypeFor(metricType),
		Data:       data,
	}
	return m.router.Publish(event)
}

func eventTypeFor(metricType MetricType) metrics.EventType {
	switch metricType {
	case MetricTypeCPUInfo, MetricTypeNetworkInfo:
		return metrics.EventTypeSnapshot
	default:
		return metrics.EventTypeGauge
	}
}
