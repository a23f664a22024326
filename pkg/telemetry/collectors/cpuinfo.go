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

// CPUInfoCollector scrapes static CPU hardware identity. Marked static so
// the manager collects it once at startup rather than every cycle.
type CPUInfoCollector struct {
	telemetry.BaseCollector
	source telemetry.CPUInfoSource
}

func NewCPUInfoCollector(logger logr.Logger, config telemetry.CollectionConfig, source telemetry.CPUInfoSource) *CPUInfoCollector {
	return &CPUInfoCollector{
		BaseCollector: telemetry.NewBaseCollector(
			telemetry.MetricTypeCPUInfo,
			"CPU Info Collector",
			logger,
			config,
			telemetry.CollectorCapabilities{Static: true},
		),
		source: source,
	}
}

func (c *CPUInfoCollector) Collect(ctx context.Context) (any, error) {
	return c.source.CPUInfo(ctx)
}
