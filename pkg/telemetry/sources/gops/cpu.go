// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package gops

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
)

// gopsutil reports CPU time in seconds of CPU time as float64; the sampler
// differences integer ticks. Scaling by the conventional USER_HZ keeps the
// counters monotonic with centisecond resolution, which is far finer than
// any sane sampling window.
const ticksPerSecond = 100

func toTicks(seconds float64) uint64 {
	return uint64(seconds * ticksPerSecond)
}

// Ticks returns one per-core reading. The counters are folded the same way
// the Linux source folds /proc/stat fields: system absorbs steal, irq
// absorbs softirq, idle absorbs iowait.
func (s *Source) Ticks(ctx context.Context) (telemetry.CPUTickSnapshot, error) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return telemetry.CPUTickSnapshot{}, fmt.Errorf("failed to read per-core CPU times: %w", err)
	}
	if len(times) == 0 {
		return telemetry.CPUTickSnapshot{}, fmt.Errorf("no per-core CPU times reported")
	}

	snap := telemetry.CPUTickSnapshot{Timestamp: time.Now()}
	for _, t := range times {
		// gopsutil names cores "cpu0", "cpu1", ...
		num, err := strconv.ParseInt(strings.TrimPrefix(t.CPU, "cpu"), 10, 32)
		if err != nil {
			s.logger.V(2).Info("skipping unparseable core name", "cpu", t.CPU)
			continue
		}
		snap.Cores = append(snap.Cores, telemetry.CPUTicks{
			CPUIndex: int32(num),
			User:     toTicks(t.User),
			Nice:     toTicks(t.Nice),
			System:   toTicks(t.System + t.Steal),
			IRQ:      toTicks(t.Irq + t.Softirq),
			Idle:     toTicks(t.Idle + t.Iowait),
		})
	}
	if len(snap.Cores) == 0 {
		return telemetry.CPUTickSnapshot{}, fmt.Errorf("no recognizable cores in CPU times")
	}
	return snap, nil
}

func (s *Source) CoreCount(ctx context.Context) (int32, error) {
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to count logical cores: %w", err)
	}
	return int32(count), nil
}

// LoadAverage reads the OS-native load averages. Not meaningful on Windows;
// gopsutil surfaces that as an error which the collector reports upward.
func (s *Source) LoadAverage(ctx context.Context) (telemetry.LoadAverage, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return telemetry.LoadAverage{}, fmt.Errorf("failed to read load averages: %w", err)
	}
	return telemetry.LoadAverage{
		Load1Min:  avg.Load1,
		Load5Min:  avg.Load5,
		Load15Min: avg.Load15,
	}, nil
}
