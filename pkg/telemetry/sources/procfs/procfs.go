// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package procfs acquires raw telemetry snapshots from the Linux proc and
// sys filesystems. It is the Linux variant of the source interfaces in
// pkg/telemetry; the samplers themselves never touch the filesystem.
package procfs

import (
	"path/filepath"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/go-logr/logr"
)

// Source reads cumulative counters and hardware identity from /proc and
// /sys. Paths are configurable so containerized agents can point at the
// host's mounts, and so tests can point at fixture trees.
type Source struct {
	logger          logr.Logger
	statPath        string
	loadavgPath     string
	cpuinfoPath     string
	onlineCPUPath   string
	procNetDevPath  string
	sysClassNetPath string
}

// Compile-time interface checks
var (
	_ telemetry.CPUTickSource    = (*Source)(nil)
	_ telemetry.NetCounterSource = (*Source)(nil)
	_ telemetry.LoadAvgSource    = (*Source)(nil)
	_ telemetry.CPUInfoSource    = (*Source)(nil)
	_ telemetry.NetInfoSource    = (*Source)(nil)
)

func New(logger logr.Logger, config telemetry.CollectionConfig) (*Source, error) {
	if err := config.Validate(telemetry.ValidateOptions{
		RequireHostProcPath: true,
		RequireHostSysPath:  true,
	}); err != nil {
		return nil, err
	}

	return &Source{
		logger:          logger.WithName("procfs"),
		statPath:        filepath.Join(config.HostProcPath, "stat"),
		loadavgPath:     filepath.Join(config.HostProcPath, "loadavg"),
		cpuinfoPath:     filepath.Join(config.HostProcPath, "cpuinfo"),
		onlineCPUPath:   filepath.Join(config.HostSysPath, "devices", "system", "cpu", "online"),
		procNetDevPath:  filepath.Join(config.HostProcPath, "net", "dev"),
		sysClassNetPath: filepath.Join(config.HostSysPath, "class", "net"),
	}, nil
}
