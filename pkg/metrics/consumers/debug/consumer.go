// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package debug logs metric events through the agent's logger. It is meant
// for local development and for verifying a deployment's pipeline without
// standing up an OTLP endpoint.
package debug

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/Stetchy/systeminformation/pkg/metrics"
	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

const consumerName = "debug"

// Consumer logs each event it receives. Handling never blocks and never
// fails; the health counters exist so the router's stats surface something
// meaningful.
type Consumer struct {
	config Config
	logger logr.Logger

	eventsProcessed atomic.Uint64
}

func NewConsumer(config Config, logger logr.Logger) (*Consumer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Consumer{
		config: config,
		logger: logger.WithName("debug-consumer"),
	}, nil
}

func (c *Consumer) Name() string {
	return consumerName
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("Starting debug consumer", "log_level", c.config.LogLevel)
	return nil
}

func (c *Consumer) HandleEvent(event metrics.MetricEvent) error {
	if !c.config.ShouldLogMetricType(string(event.MetricType)) {
		return nil
	}
	c.eventsProcessed.Add(1)

	keysAndValues := []any{"metric_type", event.MetricType}
	if c.config.LogLevel >= LogLevelDetails {
		keysAndValues = append(keysAndValues,
			"event_type", event.EventType,
			"source", event.Source,
			"node", event.NodeName,
			"summary", summarize(event.Data),
		)
	}
	if c.config.LogLevel >= LogLevelVerbose {
		keysAndValues = append(keysAndValues, "data", event.Data)
	}

	c.logger.Info("metrics event", keysAndValues...)
	return nil
}

func (c *Consumer) Health() metrics.ConsumerHealth {
	return metrics.ConsumerHealth{
		Healthy:     true,
		EventsCount: c.eventsProcessed.Load(),
	}
}

// summarize renders a one-line digest of the known payload types.
func summarize(data any) string {
	switch v := data.(type) {
	case *telemetry.CPULoad:
		if !v.Total.Defined {
			return "cpu: warming up"
		}
		busy := 100.0 - v.Total.IdlePercent
		return fmt.Sprintf("cpu: %.1f%% busy over %dms across %d cores",
			busy, v.Total.ElapsedMs, len(v.Cores))
	case *telemetry.LoadAverage:
		return fmt.Sprintf("load: %.2f %.2f %.2f (cores=%d)",
			v.Load1Min, v.Load5Min, v.Load15Min, v.CoreCount)
	case []telemetry.InterfaceRate:
		defined := 0
		for _, r := range v {
			if r.Defined {
				defined++
			}
		}
		return fmt.Sprintf("network: %d interfaces (%d with rates)", len(v), defined)
	case *telemetry.CPUInfo:
		return fmt.Sprintf("cpuinfo: %s (%d logical / %d physical)",
			v.ModelName, v.LogicalCores, v.PhysicalCores)
	case []telemetry.NetworkInfo:
		return fmt.Sprintf("netinfo: %d interfaces", len(v))
	default:
		return fmt.Sprintf("%T", data)
	}
}
