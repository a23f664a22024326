// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package metrics

import (
	"time"
)

// MetricType represents the type of telemetry metric.
// IMPORTANT: This type mirrors pkg/telemetry's MetricType to avoid an import
// cycle: the telemetry manager imports this package for the Router interface,
// so this package cannot import telemetry. Keep the constants in sync.
type MetricType string

const (
	// Time-varying metrics
	MetricTypeCPU     MetricType = "cpu"
	MetricTypeLoad    MetricType = "load"
	MetricTypeNetwork MetricType = "network"
	// Static hardware identity
	MetricTypeCPUInfo     MetricType = "cpu_info"
	MetricTypeNetworkInfo MetricType = "network_info"
)

// MetricEvent represents a metrics event flowing through the pipeline.
//
// The Data field contains the actual metric payload, one of the telemetry
// types from pkg/telemetry:
//   - *telemetry.CPULoad for MetricTypeCPU
//   - *telemetry.LoadAverage for MetricTypeLoad
//   - []telemetry.InterfaceRate for MetricTypeNetwork
//   - *telemetry.CPUInfo for MetricTypeCPUInfo
//   - []telemetry.NetworkInfo for MetricTypeNetworkInfo
type MetricEvent struct {
	// Event metadata
	Timestamp time.Time
	Source    string // e.g., "telemetry-collector"
	NodeName  string

	// Metric identification
	MetricType MetricType
	EventType  EventType

	// Metric data
	Data any
}

// EventType indicates the nature of the metric event
type EventType string

const (
	EventTypeGauge    EventType = "gauge"    // Point-in-time value
	EventTypeCounter  EventType = "counter"  // Monotonically increasing value
	EventTypeSnapshot EventType = "snapshot" // Complete snapshot of data
)

// Router defines the interface for routing metrics events to consumers
type Router interface {
	// Publish emits a metrics event to all registered consumers
	Publish(event MetricEvent) error

	// PublishBatch emits multiple metrics events efficiently
	PublishBatch(events []MetricEvent) error
}
