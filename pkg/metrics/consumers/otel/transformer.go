// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package otel

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Stetchy/systeminformation/pkg/metrics"
	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

// transformer converts metric events into OpenTelemetry instruments.
//
// Recording uses context.Background(): this is a metrics-only pipeline with
// no trace context to propagate, and gauge recording is instant.
type transformer struct {
	meter  metric.Meter
	logger logr.Logger

	// instruments are cached per name; creating one is not free
	mu          sync.Mutex
	instruments map[string]any
}

func newTransformer(meter metric.Meter, logger logr.Logger) *transformer {
	return &transformer{
		meter:       meter,
		logger:      logger.WithName("otel-transformer"),
		instruments: make(map[string]any),
	}
}

func (t *transformer) record(event metrics.MetricEvent) error {
	ctx := context.Background()
	attrs := []attribute.KeyValue{nodeAttribute(event)}

	switch event.MetricType {
	case metrics.MetricTypeCPU:
		return t.recordCPULoad(ctx, event.Data, attrs)
	case metrics.MetricTypeLoad:
		return t.recordLoadAverage(ctx, event.Data, attrs)
	case metrics.MetricTypeNetwork:
		return t.recordNetworkRates(ctx, event.Data, attrs)
	case metrics.MetricTypeCPUInfo:
		return t.recordCPUInfo(ctx, event.Data, attrs)
	case metrics.MetricTypeNetworkInfo:
		return t.recordNetworkInfo(ctx, event.Data, attrs)
	default:
		t.logger.V(1).Info("unhandled metric type", "metric_type", event.MetricType)
		return nil
	}
}

func (t *transformer) recordCPULoad(ctx context.Context, data any, attrs []attribute.KeyValue) error {
	load, ok := data.(*telemetry.CPULoad)
	if !ok {
		return fmt.Errorf("expected *telemetry.CPULoad, got %T", data)
	}
	if !load.Total.Defined {
		// Nothing to report until the second snapshot
		return nil
	}

	t.recordCoreLoad(ctx, load.Total, "total", attrs)
	for _, core := range load.Cores {
		if !core.Defined {
			continue
		}
		t.recordCoreLoad(ctx, core, strconv.Itoa(int(core.CPUIndex)), attrs)
	}
	return nil
}

func (t *transformer) recordCoreLoad(ctx context.Context, core telemetry.CoreLoad, cpu string, attrs []attribute.KeyValue) {
	gauge, err := t.float64Gauge("system.cpu.utilization",
		"Share of elapsed CPU time spent in each state", "%")
	if err != nil {
		return
	}

	states := []struct {
		name  string
		value float64
	}{
		{"user", core.UserPercent},
		{"system", core.SystemPercent},
		{"nice", core.NicePercent},
		{"irq", core.IRQPercent},
		{"idle", core.IdlePercent},
	}
	for _, s := range states {
		stateAttrs := append(append([]attribute.KeyValue{}, attrs...),
			attribute.String("cpu", cpu),
			attribute.String("state", s.name))
		gauge.Record(ctx, s.value, metric.WithAttributes(stateAttrs...))
	}
}

func (t *transformer) recordLoadAverage(ctx context.Context, data any, attrs []attribute.KeyValue) error {
	avg, ok := data.(*telemetry.LoadAverage)
	if !ok {
		return fmt.Errorf("expected *telemetry.LoadAverage, got %T", data)
	}

	windows := []struct {
		name  string
		desc  string
		value float64
	}{
		{"system.cpu.load_average.1m", "System load average over 1 minute", avg.Load1Min},
		{"system.cpu.load_average.5m", "System load average over 5 minutes", avg.Load5Min},
		{"system.cpu.load_average.15m", "System load average over 15 minutes", avg.Load15Min},
	}
	for _, w := range windows {
		if gauge, err := t.float64Gauge(w.name, w.desc, "1"); err == nil {
			gauge.Record(ctx, w.value, metric.WithAttributes(attrs...))
		}
	}

	if avg.CoreCount > 0 {
		if gauge, err := t.float64Gauge("system.cpu.load_average.1m.normalized",
			"1 minute load average divided by logical core count", "1"); err == nil {
			gauge.Record(ctx, avg.Normalized1Min, metric.WithAttributes(attrs...))
		}
	}
	return nil
}

func (t *transformer) recordNetworkRates(ctx context.Context, data any, attrs []attribute.KeyValue) error {
	rates, ok := data.([]telemetry.InterfaceRate)
	if !ok {
		return fmt.Errorf("expected []telemetry.InterfaceRate, got %T", data)
	}

	throughput, err := t.float64Gauge("system.network.io.rate",
		"Network throughput over the last sampling window", "By/s")
	if err != nil {
		return err
	}
	errorsCounter, err := t.int64Counter("system.network.errors",
		"Interface errors observed", "{errors}")
	if err != nil {
		return err
	}
	droppedCounter, err := t.int64Counter("system.network.dropped",
		"Packets dropped by the interface", "{packets}")
	if err != nil {
		return err
	}

	for _, rate := range rates {
		if !rate.Defined {
			continue
		}
		ifaceAttrs := append(append([]attribute.KeyValue{}, attrs...),
			attribute.String("interface", rate.Name))

		rx := append(append([]attribute.KeyValue{}, ifaceAttrs...),
			attribute.String("direction", "receive"))
		tx := append(append([]attribute.KeyValue{}, ifaceAttrs...),
			attribute.String("direction", "transmit"))

		throughput.Record(ctx, rate.RxBytesPerSec, metric.WithAttributes(rx...))
		throughput.Record(ctx, rate.TxBytesPerSec, metric.WithAttributes(tx...))

		// A zero window marks a cache-served rate; its error and drop
		// increments already went into the counters when the window was
		// fresh.
		if rate.ElapsedMs > 0 {
			errorsCounter.Add(ctx, int64(rate.RxErrorsDelta), metric.WithAttributes(rx...))
			errorsCounter.Add(ctx, int64(rate.TxErrorsDelta), metric.WithAttributes(tx...))
			droppedCounter.Add(ctx, int64(rate.RxDroppedDelta), metric.WithAttributes(rx...))
			droppedCounter.Add(ctx, int64(rate.TxDroppedDelta), metric.WithAttributes(tx...))
		}
	}
	return nil
}

func (t *transformer) recordCPUInfo(ctx context.Context, data any, attrs []attribute.KeyValue) error {
	info, ok := data.(*telemetry.CPUInfo)
	if !ok {
		return fmt.Errorf("expected *telemetry.CPUInfo, got %T", data)
	}

	infoAttrs := append(append([]attribute.KeyValue{}, attrs...),
		attribute.String("model", info.ModelName),
		attribute.String("vendor", info.VendorID))

	if gauge, err := t.int64Gauge("system.cpu.logical.count",
		"Number of logical cores", "{cores}"); err == nil {
		gauge.Record(ctx, int64(info.LogicalCores), metric.WithAttributes(infoAttrs...))
	}
	if gauge, err := t.int64Gauge("system.cpu.physical.count",
		"Number of physical cores", "{cores}"); err == nil {
		gauge.Record(ctx, int64(info.PhysicalCores), metric.WithAttributes(infoAttrs...))
	}
	return nil
}

func (t *transformer) recordNetworkInfo(ctx context.Context, data any, attrs []attribute.KeyValue) error {
	infos, ok := data.([]telemetry.NetworkInfo)
	if !ok {
		return fmt.Errorf("expected []telemetry.NetworkInfo, got %T", data)
	}

	gauge, err := t.int64Gauge("system.network.interface.info",
		"Static interface identity; the value is always 1", "1")
	if err != nil {
		return err
	}
	for _, info := range infos {
		infoAttrs := append(append([]attribute.KeyValue{}, attrs...),
			attribute.String("interface", info.Interface),
			attribute.String("mac", info.MACAddress),
			attribute.String("operstate", info.OperState),
			attribute.Int("mtu", int(info.MTU)))
		gauge.Record(ctx, 1, metric.WithAttributes(infoAttrs...))
	}
	return nil
}

func (t *transformer) float64Gauge(name, description, unit string) (metric.Float64Gauge, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if inst, ok := t.instruments[name]; ok {
		return inst.(metric.Float64Gauge), nil
	}
	gauge, err := t.meter.Float64Gauge(name,
		metric.WithDescription(description),
		metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	t.instruments[name] = gauge
	return gauge, nil
}

func (t *transformer) int64Gauge(name, description, unit string) (metric.Int64Gauge, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if inst, ok := t.instruments[name]; ok {
		return inst.(metric.Int64Gauge), nil
	}
	gauge, err := t.meter.Int64Gauge(name,
		metric.WithDescription(description),
		metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	t.instruments[name] = gauge
	return gauge, nil
}

func (t *transformer) int64Counter(name, description, unit string) (metric.Int64Counter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if inst, ok := t.instruments[name]; ok {
		return inst.(metric.Int64Counter), nil
	}
	counter, err := t.meter.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	t.instruments[name] = counter
	return counter, nil
}
