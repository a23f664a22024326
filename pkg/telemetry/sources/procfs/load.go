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

	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

// LoadAverage reads and parses /proc/loadavg.
//
// Format: 0.00 0.01 0.05 1/234 5678
// Where: 1min 5min 15min running/total lastpid
//
// Only the three load averages are consumed; normalization by core count is
// the CPU sampler's job since this source does not know which core set the
// caller samples.
func (s *Source) LoadAverage(ctx context.Context) (telemetry.LoadAverage, error) {
	loadavgData, err := os.ReadFile(s.loadavgPath)
	if err != nil {
		return telemetry.LoadAverage{}, fmt.Errorf("failed to read %s: %w", s.loadavgPath, err)
	}

	fields := strings.Fields(string(loadavgData))
	if len(fields) < 3 {
		return telemetry.LoadAverage{}, fmt.Errorf("unexpected format in %s: %s", s.loadavgPath, string(loadavgData))
	}

	var avg telemetry.LoadAverage
	if avg.Load1Min, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return telemetry.LoadAverage{}, fmt.Errorf("failed to parse 1min load: %w", err)
	}
	if avg.Load5Min, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return telemetry.LoadAverage{}, fmt.Errorf("failed to parse 5min load: %w", err)
	}
	if avg.Load15Min, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return telemetry.LoadAverage{}, fmt.Errorf("failed to parse 15min load: %w", err)
	}
	return avg, nil
}
