// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package telemetry

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// Collector performs one-shot collection of a single metric type
type Collector interface {
	Type() MetricType
	Name() string

	// Collect performs a single collection and returns the metrics
	Collect(ctx context.Context) (any, error)

	Capabilities() CollectorCapabilities
}

type CollectorCapabilities struct {
	// Static collectors produce hardware identity that does not change at
	// runtime; the manager collects them once instead of every cycle.
	Static       bool
	RequiresRoot bool
}

type BaseCollector struct {
	metricType   MetricType
	name         string
	logger       logr.Logger
	config       CollectionConfig
	capabilities CollectorCapabilities
}

func NewBaseCollector(metricType MetricType, name string, logger logr.Logger, config CollectionConfig, capabilities CollectorCapabilities) BaseCollector {
	return BaseCollector{
		metricType:   metricType,
		name:         name,
		logger:       logger.WithName(string(metricType)),
		config:       config,
		capabilities: capabilities,
	}
}

func (b *BaseCollector) Type() MetricType {
	return b.metricType
}

func (b *BaseCollector) Name() string {
	return b.name
}

func (b *BaseCollector) Capabilities() CollectorCapabilities {
	return b.capabilities
}

func (b *BaseCollector) Logger() logr.Logger {
	return b.logger
}

func (b *BaseCollector) Config() CollectionConfig {
	return b.config
}

// Registry holds the collectors for one agent instance. It is an explicit
// owned object rather than package-global state so independent instances
// (e.g. in tests) never cross-contaminate.
type Registry struct {
	collectors map[MetricType]Collector
	logger     logr.Logger
}

func NewRegistry(logger logr.Logger) *Registry {
	return &Registry{
		collectors: make(map[MetricType]Collector),
		logger:     logger.WithName("registry"),
	}
}

func (r *Registry) Register(collector Collector) error {
	if collector == nil {
		return fmt.Errorf("cannot register nil collector")
	}

	metricType := collector.Type()
	if _, exists := r.collectors[metricType]; exists {
		return fmt.Errorf("collector for metric type %s already registered", metricType)
	}

	r.collectors[metricType] = collector
	r.logger.Info("registered collector", "type", metricType, "name", collector.Name())
	return nil
}

func (r *Registry) Get(metricType MetricType) (Collector, bool) {
	collector, ok := r.collectors[metricType]
	return collector, ok
}

func (r *Registry) All() []Collector {
	collectors := make([]Collector, 0, len(r.collectors))
	for _, collector := range r.collectors {
		collectors = append(collectors, collector)
	}
	return collectors
}

// Enabled returns the registered collectors enabled by config.
func (r *Registry) Enabled(config CollectionConfig) []Collector {
	var enabled []Collector
	for metricType, collector := range r.collectors {
		if config.EnabledCollectors[metricType] {
			enabled = append(enabled, collector)
		}
	}
	return enabled
}
