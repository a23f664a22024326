// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors

import (
	"fmt"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/Stetchy/systeminformation/pkg/telemetry/sources"
	"github.com/go-logr/logr"
)

// RegisterAll registers one collector per metric type against the given
// platform source. Which of them actually run is decided later by
// config.EnabledCollectors.
func RegisterAll(registry *telemetry.Registry, logger logr.Logger, config telemetry.CollectionConfig, source sources.Source) error {
	all := []telemetry.Collector{
		NewCPUCollector(logger, config, source),
		NewLoadCollector(logger, config, source, source),
		NewNetworkCollector(logger, config, source),
		NewCPUInfoCollector(logger, config, source),
		NewNetworkInfoCollector(logger, config, source),
	}
	for _, c := range all {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("failed to register %s: %w", c.Name(), err)
		}
	}
	return nil
}
