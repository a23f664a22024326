// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package metrics

import "context"

// Consumer is a delivery target registered with a MetricsRouter. The router
// calls HandleEvent synchronously from the collection loop, so handlers must
// return quickly; anything slow (network export, batching) belongs in the
// consumer's own machinery behind Start.
//
// Event payloads arrive in Data typed by MetricType: *telemetry.CPULoad for
// MetricTypeCPU, *telemetry.LoadAverage for MetricTypeLoad,
// []telemetry.InterfaceRate for MetricTypeNetwork, and *telemetry.CPUInfo /
// []telemetry.NetworkInfo for the one-shot info types. A consumer handed an
// unexpected payload type should fail the event, never panic.
type Consumer interface {
	// Name identifies the consumer within a router. Registration rejects
	// duplicate names.
	Name() string

	// HandleEvent delivers one event. A returned error is counted against
	// this consumer but does not stop delivery to the others.
	HandleEvent(event MetricEvent) error

	// Start runs the consumer until ctx is cancelled. The router calls it
	// during registration, before any event is delivered.
	Start(ctx context.Context) error

	// Health reports the consumer's current delivery state.
	Health() ConsumerHealth
}

// ConsumerHealth is a point-in-time snapshot of a consumer's delivery
// state, surfaced through RouterStats. EventsCount and ErrorsCount are
// cumulative since Start. LastError is the most recent HandleEvent failure
// and stays set after recovery; consumers whose delivery cannot fail leave
// it nil.
type ConsumerHealth struct {
	Healthy     bool
	LastError   error
	EventsCount uint64
	ErrorsCount uint64
}
