// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package debug

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stetchy/systeminformation/pkg/metrics"
	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

func TestNewConsumer_ValidatesConfig(t *testing.T) {
	_, err := NewConsumer(Config{LogLevel: LogLevel(7)}, logr.Discard())
	assert.ErrorIs(t, err, ErrInvalidLogLevel)

	c, err := NewConsumer(DefaultConfig(), logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Name())
}

func TestHandleEvent_LogsAndCounts(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{})

	c, err := NewConsumer(DefaultConfig(), logger)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	lines = nil // drop the "Starting debug consumer" startup line

	event := metrics.MetricEvent{
		MetricType: metrics.MetricTypeCPU,
		EventType:  metrics.EventTypeGauge,
		Source:     "telemetry-collector",
		NodeName:   "node-1",
		Data: &telemetry.CPULoad{
			Total: telemetry.CoreLoad{Defined: true, ElapsedMs: 1000, IdlePercent: 75.0},
		},
	}
	require.NoError(t, c.HandleEvent(event))

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "cpu")
	assert.Contains(t, lines[0], "25.0% busy")
	assert.Equal(t, uint64(1), c.Health().EventsCount)
}

func TestHandleEvent_FiltersMetricTypes(t *testing.T) {
	config := DefaultConfig()
	config.MetricTypeFilter = []string{"network"}

	c, err := NewConsumer(config, logr.Discard())
	require.NoError(t, err)

	require.NoError(t, c.HandleEvent(metrics.MetricEvent{MetricType: metrics.MetricTypeCPU}))
	assert.Zero(t, c.Health().EventsCount)

	require.NoError(t, c.HandleEvent(metrics.MetricEvent{MetricType: metrics.MetricTypeNetwork}))
	assert.Equal(t, uint64(1), c.Health().EventsCount)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name:     "undefined cpu load",
			data:     &telemetry.CPULoad{},
			expected: "cpu: warming up",
		},
		{
			name: "load average",
			data: &telemetry.LoadAverage{Load1Min: 1.5, Load5Min: 1.0, Load15Min: 0.5, CoreCount: 4},
			expected: "load: 1.50 1.00 0.50 (cores=4)",
		},
		{
			name: "interface rates",
			data: []telemetry.InterfaceRate{
				{Name: "eth0", Defined: true},
				{Name: "eth1"},
			},
			expected: "network: 2 interfaces (1 with rates)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, summarize(tt.data))
		})
	}
}
