// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package telemetry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Stetchy/systeminformation/pkg/metrics"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRouter struct {
	mu     sync.Mutex
	events []metrics.MetricEvent
}

func (r *recordingRouter) Publish(event metrics.MetricEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingRouter) PublishBatch(events []metrics.MetricEvent) error {
	for _, e := range events {
		if err := r.Publish(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingRouter) byType(metricType metrics.MetricType) []metrics.MetricEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []metrics.MetricEvent
	for _, e := range r.events {
		if e.MetricType == metricType {
			out = append(out, e)
		}
	}
	return out
}

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager(ManagerOptions{Registry: NewRegistry(logr.Discard())})
	assert.Error(t, err, "logger is required")

	_, err = NewManager(ManagerOptions{Logger: logr.Discard()})
	assert.Error(t, err, "registry is required")
}

func TestNewManager_AppliesDefaults(t *testing.T) {
	m, err := NewManager(ManagerOptions{
		Logger:   testr.New(t),
		Registry: NewRegistry(logr.Discard()),
		NodeName: "test-node",
	})
	require.NoError(t, err)

	config := m.GetConfig()
	assert.Equal(t, time.Second, config.Interval)
	assert.Equal(t, "/proc", config.HostProcPath)
	assert.Equal(t, "test-node", m.GetNodeName())
}

func TestManager_Run(t *testing.T) {
	registry := NewRegistry(logr.Discard())
	periodic := newStubCollector(MetricTypeCPU, false)
	periodic.result = &CPULoad{}
	static := newStubCollector(MetricTypeCPUInfo, true)
	static.result = &CPUInfo{ModelName: "test"}
	require.NoError(t, registry.Register(periodic))
	require.NoError(t, registry.Register(static))

	router := &recordingRouter{}
	m, err := NewManager(ManagerOptions{
		Config: CollectionConfig{
			Interval: 10 * time.Millisecond,
			EnabledCollectors: map[MetricType]bool{
				MetricTypeCPU:     true,
				MetricTypeCPUInfo: true,
			},
		},
		Logger:   testr.New(t),
		Registry: registry,
		NodeName: "test-node",
		Router:   router,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, m.Run(ctx))

	// Static identity is collected exactly once
	assert.Equal(t, 1, static.collected)
	staticEvents := router.byType(metrics.MetricTypeCPUInfo)
	require.Len(t, staticEvents, 1)
	assert.Equal(t, metrics.EventTypeSnapshot, staticEvents[0].EventType)
	assert.Equal(t, "test-node", staticEvents[0].NodeName)

	// The periodic collector ran several cycles
	assert.GreaterOrEqual(t, periodic.collected, 2)
	cpuEvents := router.byType(metrics.MetricTypeCPU)
	require.NotEmpty(t, cpuEvents)
	assert.Equal(t, metrics.EventTypeGauge, cpuEvents[0].EventType)
}

func TestManager_CollectorErrorDoesNotAbortCycle(t *testing.T) {
	registry := NewRegistry(logr.Discard())
	failing := newStubCollector(MetricTypeCPU, false)
	failing.err = fmt.Errorf("source unavailable")
	healthy := newStubCollector(MetricTypeLoad, false)
	healthy.result = &LoadAverage{Load1Min: 1.0}
	require.NoError(t, registry.Register(failing))
	require.NoError(t, registry.Register(healthy))

	router := &recordingRouter{}
	m, err := NewManager(ManagerOptions{
		Config: CollectionConfig{
			Interval: 10 * time.Millisecond,
			EnabledCollectors: map[MetricType]bool{
				MetricTypeCPU:  true,
				MetricTypeLoad: true,
			},
		},
		Logger:   testr.New(t),
		Registry: registry,
		NodeName: "test-node",
		Router:   router,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, m.Run(ctx))

	assert.Empty(t, router.byType(metrics.MetricTypeCPU))
	assert.NotEmpty(t, router.byType(metrics.MetricTypeLoad))
}

func TestManager_NoRouter(t *testing.T) {
	registry := NewRegistry(logr.Discard())
	periodic := newStubCollector(MetricTypeCPU, false)
	periodic.result = &CPULoad{}
	require.NoError(t, registry.Register(periodic))

	m, err := NewManager(ManagerOptions{
		Config: CollectionConfig{
			Interval:          10 * time.Millisecond,
			EnabledCollectors: map[MetricType]bool{MetricTypeCPU: true},
		},
		Logger:   testr.New(t),
		Registry: registry,
		NodeName: "test-node",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, m.Run(ctx))
}
