// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/go-logr/logr"
)

// LoadCollector reads the OS-native load averages and normalizes them by
// the logical core count. The load average is reported side by side with
// the tick-derived CPU percentages; the two are never reconciled.
type LoadCollector struct {
	telemetry.BaseCollector
	loadSource telemetry.LoadAvgSource
	tickSource telemetry.CPUTickSource

	// cached after the first successful read; core count changes are rare
	// enough that a stale normalization until restart is acceptable
	coreCount int32
}

func NewLoadCollector(logger logr.Logger, config telemetry.CollectionConfig, loadSource telemetry.LoadAvgSource, tickSource telemetry.CPUTickSource) *LoadCollector {
	return &LoadCollector{
		BaseCollector: telemetry.NewBaseCollector(
			telemetry.MetricTypeLoad,
			"System Load Collector",
			logger,
			config,
			telemetry.CollectorCapabilities{},
		),
		loadSource: loadSource,
		tickSource: tickSource,
	}
}

func (c *LoadCollector) Collect(ctx context.Context) (any, error) {
	avg, err := c.loadSource.LoadAverage(ctx)
	if err != nil {
		return nil, err
	}

	if c.coreCount == 0 {
		count, err := c.tickSource.CoreCount(ctx)
		if err != nil {
			c.Logger().V(1).Info("core count unavailable, skipping normalization", "error", err)
		} else {
			c.coreCount = count
		}
	}

	normalized := telemetry.NormalizeLoadAverage(avg, c.coreCount)
	return &normalized, nil
}
