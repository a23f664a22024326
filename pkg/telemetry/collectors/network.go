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

// NetworkCollector derives per-interface throughput. config.Interfaces
// restricts the sampled set; empty means every interface the source
// currently knows about, re-enumerated each cycle so hot-plugged
// interfaces appear without restart.
type NetworkCollector struct {
	telemetry.BaseCollector
	sampler *telemetry.NetworkSampler
}

func NewNetworkCollector(logger logr.Logger, config telemetry.CollectionConfig, source telemetry.NetCounterSource) *NetworkCollector {
	return &NetworkCollector{
		BaseCollector: telemetry.NewBaseCollector(
			telemetry.MetricTypeNetwork,
			"Network Throughput Collector",
			logger,
			config,
			telemetry.CollectorCapabilities{},
		),
		sampler: telemetry.NewNetworkSampler(source, config.NetworkSampleInterval, logger),
	}
}

func (c *NetworkCollector) Collect(ctx context.Context) (any, error) {
	return c.sampler.ObserveAll(ctx, c.Config().Interfaces)
}
