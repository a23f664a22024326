// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package procfs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

// Ticks reads and parses /proc/stat for per-core CPU tick counters.
//
// CPU lines format: cpu<N> user nice system idle iowait irq softirq [steal guest guest_nice]
// Values are in USER_HZ units. The aggregate "cpu" line is skipped; the
// sampler derives its own aggregate from the per-core sum so that the
// aggregate and the cores always describe the same instant.
//
// The raw fields are folded into the five counters the sampler tracks:
// user, nice, system (+steal), irq (+softirq), idle (+iowait). The folding
// keeps the five shares summing to the full elapsed tick total.
//
// Reference: https://www.kernel.org/doc/html/latest/filesystems/proc.html#proc-stat
func (s *Source) Ticks(ctx context.Context) (telemetry.CPUTickSnapshot, error) {
	statData, err := os.ReadFile(s.statPath)
	if err != nil {
		return telemetry.CPUTickSnapshot{}, fmt.Errorf("failed to read %s: %w", s.statPath, err)
	}

	snap := telemetry.CPUTickSnapshot{Timestamp: time.Now()}

	for _, line := range strings.Split(string(statData), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "cpu") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 8 {
			// Need at least: cpuN user nice system idle iowait irq softirq
			continue
		}

		cpuName := fields[0]
		if cpuName == "cpu" {
			continue
		}
		// Must be "cpu" followed by a number (not "cpufreq" etc)
		num, err := strconv.ParseInt(strings.TrimPrefix(cpuName, "cpu"), 10, 32)
		if err != nil {
			continue
		}

		parse := func(field string) uint64 {
			val, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				s.logger.V(2).Info("failed to parse tick field",
					"cpu", cpuName, "value", field, "error", err)
				return 0
			}
			return val
		}

		user := parse(fields[1])
		nice := parse(fields[2])
		system := parse(fields[3])
		idle := parse(fields[4])
		iowait := parse(fields[5])
		irq := parse(fields[6])
		softirq := parse(fields[7])

		var steal uint64
		if len(fields) > 8 {
			steal = parse(fields[8])
		}

		snap.Cores = append(snap.Cores, telemetry.CPUTicks{
			CPUIndex: int32(num),
			User:     user,
			Nice:     nice,
			System:   system + steal,
			IRQ:      irq + softirq,
			Idle:     idle + iowait,
		})
	}

	if len(snap.Cores) == 0 {
		return telemetry.CPUTickSnapshot{}, fmt.Errorf("no CPU statistics found in %s", s.statPath)
	}
	return snap, nil
}

// CoreCount returns the number of online logical cores, preferring the
// kernel's own /sys/devices/system/cpu/online cpulist over counting
// /proc/stat lines.
func (s *Source) CoreCount(ctx context.Context) (int32, error) {
	if data, err := os.ReadFile(s.onlineCPUPath); err == nil {
		cpus, err := ParseCPUList(strings.TrimSpace(string(data)))
		if err == nil && len(cpus) > 0 {
			return int32(len(cpus)), nil
		}
		s.logger.V(1).Info("failed to parse online cpulist, falling back to /proc/stat",
			"path", s.onlineCPUPath, "error", err)
	}

	snap, err := s.Ticks(ctx)
	if err != nil {
		return 0, err
	}
	return int32(len(snap.Cores)), nil
}
