// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package otel

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricSDK "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Stetchy/systeminformation/pkg/metrics"
	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

func newTestTransformer(t *testing.T) (*transformer, *metricSDK.ManualReader) {
	t.Helper()
	reader := metricSDK.NewManualReader()
	provider := metricSDK.NewMeterProvider(metricSDK.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return newTransformer(provider.Meter("test"), logr.Discard()), reader
}

func collectedMetricNames(t *testing.T, reader *metricSDK.ManualReader) []string {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var names []string
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}
	return names
}

func TestRecordCPULoad(t *testing.T) {
	tr, reader := newTestTransformer(t)

	event := metrics.MetricEvent{
		MetricType: metrics.MetricTypeCPU,
		NodeName:   "node-1",
		Data: &telemetry.CPULoad{
			Total: telemetry.CoreLoad{
				CPUIndex: telemetry.AggregateCPUIndex,
				Defined:  true, ElapsedMs: 1000,
				UserPercent: 25.0, IdlePercent: 75.0,
			},
			Cores: []telemetry.CoreLoad{
				{CPUIndex: 0, Defined: true, UserPercent: 25.0, IdlePercent: 75.0},
			},
		},
	}
	require.NoError(t, tr.record(event))

	names := collectedMetricNames(t, reader)
	assert.Contains(t, names, "system.cpu.utilization")
}

func TestRecordCPULoad_UndefinedIsSkipped(t *testing.T) {
	tr, reader := newTestTransformer(t)

	event := metrics.MetricEvent{
		MetricType: metrics.MetricTypeCPU,
		Data:       &telemetry.CPULoad{},
	}
	require.NoError(t, tr.record(event))

	assert.Empty(t, collectedMetricNames(t, reader))
}

func TestRecordLoadAverage(t *testing.T) {
	tr, reader := newTestTransformer(t)

	event := metrics.MetricEvent{
		MetricType: metrics.MetricTypeLoad,
		Data: &telemetry.LoadAverage{
			Load1Min: 1.5, Load5Min: 1.0, Load15Min: 0.5,
			CoreCount: 4, Normalized1Min: 0.375,
		},
	}
	require.NoError(t, tr.record(event))

	names := collectedMetricNames(t, reader)
	assert.Contains(t, names, "system.cpu.load_average.1m")
	assert.Contains(t, names, "system.cpu.load_average.15m")
	assert.Contains(t, names, "system.cpu.load_average.1m.normalized")
}

func TestRecordNetworkRates(t *testing.T) {
	tr, reader := newTestTransformer(t)

	event := metrics.MetricEvent{
		MetricType: metrics.MetricTypeNetwork,
		Data: []telemetry.InterfaceRate{
			{Name: "eth0", Defined: true, ElapsedMs: 1000, RxBytesPerSec: 2000, TxBytesPerSec: 1000, RxErrorsDelta: 1},
			{Name: "eth1"}, // undefined, skipped
		},
	}
	require.NoError(t, tr.record(event))

	names := collectedMetricNames(t, reader)
	assert.Contains(t, names, "system.network.io.rate")
	assert.Contains(t, names, "system.network.errors")
}

// counterSum adds up every data point of the named Int64 counter, across all
// attribute sets.
func counterSum(t *testing.T, reader *metricSDK.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var sum int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			data, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "expected %s to be an int64 sum", name)
			for _, dp := range data.DataPoints {
				sum += dp.Value
			}
		}
	}
	return sum
}

func TestRecordNetworkRates_CacheServedDeltasNotReAdded(t *testing.T) {
	tr, reader := newTestTransformer(t)

	fresh := metrics.MetricEvent{
		MetricType: metrics.MetricTypeNetwork,
		Data: []telemetry.InterfaceRate{
			{Name: "eth0", Defined: true, ElapsedMs: 1000, RxErrorsDelta: 5},
		},
	}
	require.NoError(t, tr.record(fresh))

	// A cache-served rate repeats the last window's fields with a zero
	// window. Its increments must not land in the monotonic counter again,
	// even if a producer left them populated.
	served := metrics.MetricEvent{
		MetricType: metrics.MetricTypeNetwork,
		Data: []telemetry.InterfaceRate{
			{Name: "eth0", Defined: true, ElapsedMs: 0, RxErrorsDelta: 5},
		},
	}
	require.NoError(t, tr.record(served))

	assert.Equal(t, int64(5), counterSum(t, reader, "system.network.errors"))
}

func TestRecord_WrongPayloadType(t *testing.T) {
	tr, _ := newTestTransformer(t)

	event := metrics.MetricEvent{
		MetricType: metrics.MetricTypeCPU,
		Data:       "not a cpu load",
	}
	assert.Error(t, tr.record(event))
}

func TestRecordCPUInfo(t *testing.T) {
	tr, reader := newTestTransformer(t)

	event := metrics.MetricEvent{
		MetricType: metrics.MetricTypeCPUInfo,
		Data: &telemetry.CPUInfo{
			ModelName: "test-cpu", LogicalCores: 8, PhysicalCores: 4,
		},
	}
	require.NoError(t, tr.record(event))

	names := collectedMetricNames(t, reader)
	assert.Contains(t, names, "system.cpu.logical.count")
	assert.Contains(t, names, "system.cpu.physical.count")
}
