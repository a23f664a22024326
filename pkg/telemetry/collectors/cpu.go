// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"context"
	"time"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/go-logr/logr"
)

// CPUCollector derives per-core and aggregate CPU utilization from the tick
// source. Acquisition is skipped entirely while the sampler's debounce
// window is open; the previous derivation is served instead.
type CPUCollector struct {
	telemetry.BaseCollector
	source  telemetry.CPUTickSource
	sampler *telemetry.CPUSampler
}

func NewCPUCollector(logger logr.Logger, config telemetry.CollectionConfig, source telemetry.CPUTickSource) *CPUCollector {
	return &CPUCollector{
		BaseCollector: telemetry.NewBaseCollector(
			telemetry.MetricTypeCPU,
			"CPU Load Collector",
			logger,
			config,
			telemetry.CollectorCapabilities{},
		),
		source:  source,
		sampler: telemetry.NewCPUSampler(config.CPUSampleInterval, logger),
	}
}

func (c *CPUCollector) Collect(ctx context.Context) (any, error) {
	if !c.sampler.ShouldRefresh(time.Now()) {
		if last := c.sampler.Current(); last != nil {
			c.Logger().V(2).Info("serving cached CPU load")
			return last, nil
		}
	}

	snap, err := c.source.Ticks(ctx)
	if err != nil {
		return nil, err
	}
	return c.sampler.Observe(snap), nil
}
