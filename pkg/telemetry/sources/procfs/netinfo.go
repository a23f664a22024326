// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package procfs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

// NetworkInfo reads static identity for every enumerated interface from
// /sys/class/net/[interface]/.
//
// Files read from sysfs:
// - address: MAC address
// - mtu: Maximum transmission unit
// - speed: Link speed in Mbps
// - duplex: Duplex mode ("full" or "half")
// - operstate: Operational state (e.g., "up", "down", "unknown")
// - carrier: Physical link detection (1 = link detected, 0 = no link)
// - device/driver: Driver symlink
//
// Some of these files do not exist for virtual interfaces (lo, docker0,
// etc.) or return errors while the interface is down; those fields are left
// zero rather than failing the enumeration.
func (s *Source) NetworkInfo(ctx context.Context) ([]telemetry.NetworkInfo, error) {
	names, err := s.Interfaces(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]telemetry.NetworkInfo, 0, len(names))
	for _, name := range names {
		ifacePath := filepath.Join(s.sysClassNetPath, name)
		info := telemetry.NetworkInfo{Interface: name}

		if data, err := os.ReadFile(filepath.Join(ifacePath, "address")); err == nil {
			info.MACAddress = strings.TrimSpace(string(data))
		}
		if data, err := os.ReadFile(filepath.Join(ifacePath, "mtu")); err == nil {
			if mtu, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32); err == nil {
				info.MTU = uint32(mtu)
			}
		}
		if data, err := os.ReadFile(filepath.Join(ifacePath, "speed")); err == nil {
			if speed, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64); err == nil {
				info.Speed = speed
			}
		}
		if data, err := os.ReadFile(filepath.Join(ifacePath, "duplex")); err == nil {
			info.Duplex = strings.TrimSpace(string(data))
		}
		if data, err := os.ReadFile(filepath.Join(ifacePath, "carrier")); err == nil {
			info.LinkDetected = strings.TrimSpace(string(data)) == "1"
		}
		if target, err := os.Readlink(filepath.Join(ifacePath, "device", "driver")); err == nil {
			info.Driver = filepath.Base(target)
		}
		info.OperState = s.readOperState(name)

		infos = append(infos, info)
	}

	return infos, nil
}
