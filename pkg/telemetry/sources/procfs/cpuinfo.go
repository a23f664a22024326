// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package procfs

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

// CPUInfo reads static CPU identity from /proc/cpuinfo.
//
// The file repeats a key/value block per logical processor. Identity fields
// (model name, vendor, cache size, flags) are taken from the first block;
// the logical core count is the number of "processor" entries; the physical
// core count is the number of distinct (physical id, core id) pairs, falling
// back to the logical count when topology fields are absent (common in VMs).
func (s *Source) CPUInfo(ctx context.Context) (*telemetry.CPUInfo, error) {
	file, err := os.Open(s.cpuinfoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.cpuinfoPath, err)
	}
	defer file.Close()

	info := &telemetry.CPUInfo{}
	physicalCores := make(map[string]bool)
	var physicalID string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "processor":
			info.LogicalCores++
		case "model name":
			if info.ModelName == "" {
				info.ModelName = value
			}
		case "vendor_id":
			if info.VendorID == "" {
				info.VendorID = value
			}
		case "cpu MHz":
			if info.CPUMHz == 0 {
				if mhz, err := strconv.ParseFloat(value, 64); err == nil {
					info.CPUMHz = mhz
				}
			}
		case "cache size":
			if info.CacheSize == "" {
				info.CacheSize = value
			}
		case "flags":
			if len(info.Flags) == 0 {
				info.Flags = strings.Fields(value)
			}
		case "physical id":
			physicalID = value
		case "core id":
			physicalCores[physicalID+":"+value] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", s.cpuinfoPath, err)
	}

	if info.LogicalCores == 0 {
		return nil, fmt.Errorf("no processor entries found in %s", s.cpuinfoPath)
	}

	if len(physicalCores) > 0 {
		info.PhysicalCores = int32(len(physicalCores))
	} else {
		// Topology unavailable (virtualized environments); fall back to
		// logical count.
		info.PhysicalCores = info.LogicalCores
	}

	return info, nil
}
