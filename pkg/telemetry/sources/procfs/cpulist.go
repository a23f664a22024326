// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package procfs

import (
	"strconv"
	"strings"
)

// ParseCPUList parses CPU list in the kernel-standardized format.
//
// Format specification:
// - Comma-separated list of individual CPUs and ranges
// - Range format: "start-end" (inclusive, e.g., "0-3" means CPUs 0, 1, 2, 3)
// - Single CPU format: just the number (e.g., "5")
// - Mixed format: "0-3,6,8-10" means CPUs 0, 1, 2, 3, 6, 8, 9, 10
//
// This format is used by /sys/devices/system/cpu/online and the cpuset
// cgroup files.
func ParseCPUList(cpuList string) ([]int, error) {
	cpus := make([]int, 0)

	cpuList = strings.TrimSpace(cpuList)
	if cpuList == "" {
		return cpus, nil
	}

	ranges := strings.Split(cpuList, ",")
	for _, r := range ranges {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}

		if strings.Contains(r, "-") {
			parts := strings.Split(r, "-")
			if len(parts) != 2 {
				return nil, &ErrInvalidCPURange{Input: r, Reason: "invalid range format"}
			}

			start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
			if err != nil {
				return nil, &ErrInvalidCPURange{Input: r, Reason: "invalid start CPU ID: " + err.Error()}
			}

			end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, &ErrInvalidCPURange{Input: r, Reason: "invalid end CPU ID: " + err.Error()}
			}

			if start > end {
				return nil, &ErrInvalidCPURange{Input: r, Reason: "range start exceeds end"}
			}

			for cpu := start; cpu <= end; cpu++ {
				cpus = append(cpus, cpu)
			}
		} else {
			cpu, err := strconv.Atoi(r)
			if err != nil {
				return nil, &ErrInvalidCPURange{Input: r, Reason: "invalid CPU ID: " + err.Error()}
			}
			cpus = append(cpus, cpu)
		}
	}

	return cpus, nil
}

// ErrInvalidCPURange represents an error in parsing CPU range format
type ErrInvalidCPURange struct {
	Input  string
	Reason string
}

func (e *ErrInvalidCPURange) Error() string {
	return "invalid CPU range '" + e.Input + "': " + e.Reason
}
