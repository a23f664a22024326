// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package gops

import (
	"context"
	"fmt"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/shirou/gopsutil/v3/cpu"
)

// CPUInfo reads static CPU identity. Identity fields come from the first
// reported package; counts come from the core enumeration so they stay
// consistent with what the tick source samples.
func (s *Source) CPUInfo(ctx context.Context) (*telemetry.CPUInfo, error) {
	stats, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read CPU info: %w", err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("no CPU info reported")
	}

	info := &telemetry.CPUInfo{
		ModelName: stats[0].ModelName,
		VendorID:  stats[0].VendorID,
		CPUMHz:    stats[0].Mhz,
		Flags:     stats[0].Flags,
	}
	if stats[0].CacheSize > 0 {
		info.CacheSize = fmt.Sprintf("%d KB", stats[0].CacheSize)
	}

	if logical, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.LogicalCores = int32(logical)
	} else {
		info.LogicalCores = int32(len(stats))
	}
	if physical, err := cpu.CountsWithContext(ctx, false); err == nil && physical > 0 {
		info.PhysicalCores = int32(physical)
	} else {
		info.PhysicalCores = info.LogicalCores
	}

	return info, nil
}
