// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package collectors_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

// fakeTickSource serves scripted snapshots in order, then keeps serving the
// last one.
type fakeTickSource struct {
	snapshots      []telemetry.CPUTickSnapshot
	next           int
	coreCount      int32
	coreCountCalls int
	err            error
}

func (f *fakeTickSource) Ticks(ctx context.Context) (telemetry.CPUTickSnapshot, error) {
	if f.err != nil {
		return telemetry.CPUTickSnapshot{}, f.err
	}
	if f.next >= len(f.snapshots) {
		return f.snapshots[len(f.snapshots)-1], nil
	}
	snap := f.snapshots[f.next]
	f.next++
	return snap, nil
}

func (f *fakeTickSource) CoreCount(ctx context.Context) (int32, error) {
	f.coreCountCalls++
	if f.err != nil {
		return 0, f.err
	}
	return f.coreCount, nil
}

type fakeLoadSource struct {
	avg telemetry.LoadAverage
	err error
}

func (f *fakeLoadSource) LoadAverage(ctx context.Context) (telemetry.LoadAverage, error) {
	if f.err != nil {
		return telemetry.LoadAverage{}, f.err
	}
	return f.avg, nil
}

// fakeNetSource serves per-interface counters keyed by name; each Counters
// call advances the interface's scripted sequence.
type fakeNetSource struct {
	interfaces []string
	counters   map[string][]telemetry.InterfaceCounters
	position   map[string]int
}

func (f *fakeNetSource) Counters(ctx context.Context, iface string) (telemetry.InterfaceCounters, error) {
	seq, ok := f.counters[iface]
	if !ok {
		return telemetry.InterfaceCounters{}, fmt.Errorf("interface %s not found", iface)
	}
	if f.position == nil {
		f.position = make(map[string]int)
	}
	pos := f.position[iface]
	if pos >= len(seq) {
		pos = len(seq) - 1
	}
	f.position[iface] = pos + 1
	return seq[pos], nil
}

func (f *fakeNetSource) Interfaces(ctx context.Context) ([]string, error) {
	return f.interfaces, nil
}

func tickSnapshot(ts time.Time, cores ...telemetry.CPUTicks) telemetry.CPUTickSnapshot {
	return telemetry.CPUTickSnapshot{Timestamp: ts, Cores: cores}
}
