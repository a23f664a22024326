// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package gops

import (
	"context"
	"fmt"
	"time"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
	gnet "github.com/shirou/gopsutil/v3/net"
)

// Counters returns one reading for the named interface. gopsutil returns
// all interfaces in one syscall; an interface absent from that set yields
// an error so the sampler resolves it to the undefined sentinel.
func (s *Source) Counters(ctx context.Context, iface string) (telemetry.InterfaceCounters, error) {
	stats, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return telemetry.InterfaceCounters{}, fmt.Errorf("failed to read interface counters: %w", err)
	}
	for _, stat := range stats {
		if stat.Name != iface {
			continue
		}
		return telemetry.InterfaceCounters{
			Name:      stat.Name,
			Timestamp: time.Now(),
			RxBytes:   stat.BytesRecv,
			TxBytes:   stat.BytesSent,
			RxErrors:  stat.Errin,
			TxErrors:  stat.Errout,
			RxDropped: stat.Dropin,
			TxDropped: stat.Dropout,
			OperState: s.operState(ctx, iface),
		}, nil
	}
	return telemetry.InterfaceCounters{}, fmt.Errorf("interface %s not found", iface)
}

// Interfaces enumerates interfaces that expose counters, so the wildcard
// sampling path never asks for an interface Counters cannot serve.
func (s *Source) Interfaces(ctx context.Context) ([]string, error) {
	stats, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate interfaces: %w", err)
	}
	names := make([]string, 0, len(stats))
	for _, stat := range stats {
		names = append(names, stat.Name)
	}
	return names, nil
}

// operState approximates the Linux operstate from the interface flag set.
func (s *Source) operState(ctx context.Context, iface string) string {
	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return "unknown"
	}
	for _, i := range ifaces {
		if i.Name != iface {
			continue
		}
		for _, flag := range i.Flags {
			if flag == "up" {
				return "up"
			}
		}
		return "down"
	}
	return "unknown"
}

// NetworkInfo reads static interface identity. Driver, speed and duplex are
// Linux sysfs concepts with no portable equivalent; those fields stay zero.
func (s *Source) NetworkInfo(ctx context.Context) ([]telemetry.NetworkInfo, error) {
	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate interfaces: %w", err)
	}

	infos := make([]telemetry.NetworkInfo, 0, len(ifaces))
	for _, i := range ifaces {
		info := telemetry.NetworkInfo{
			Interface:  i.Name,
			MACAddress: i.HardwareAddr,
			MTU:        uint32(i.MTU),
			OperState:  "down",
		}
		for _, flag := range i.Flags {
			if flag == "up" {
				info.OperState = "up"
				info.LinkDetected = true
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}
