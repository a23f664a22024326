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

// NetworkInfoCollector scrapes static network interface identity once at
// startup.
type NetworkInfoCollector struct {
	telemetry.BaseCollector
	source telemetry.NetInfoSource
}

func NewNetworkInfoCollector(logger logr.Logger, config telemetry.CollectionConfig, source telemetry.NetInfoSource) *NetworkInfoCollector {
	return &NetworkInfoCollector{
		BaseCollector: telemetry.NewBaseCollector(
			telemetry.MetricTypeNetworkInfo,
			"Network Info Collector",
			logger,
			config,
			telemetry.CollectorCapabilities{Static: true},
		),
		source: source,
	}
}

func (c *NetworkInfoCollector) Collect(ctx context.Context) (any, error) {
	return c.source.NetworkInfo(ctx)
}
