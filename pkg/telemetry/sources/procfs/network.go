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
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

// Counters reads one interface's cumulative counters from /proc/net/dev
// plus its operational state from /sys/class/net/[interface]/operstate.
//
// /proc/net/dev format:
//
//	Inter-|   Receive                                                |  Transmit
//	 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
//	    lo: 1234567   12345    0    0    0     0          0         0 1234567   12345    0    0    0     0       0          0
//
// The first two lines are headers. All counter values are cumulative since
// interface initialization. An interface missing from the file yields an
// error so the sampler can resolve it to the undefined sentinel.
func (s *Source) Counters(ctx context.Context, iface string) (telemetry.InterfaceCounters, error) {
	all, err := s.readNetDev()
	if err != nil {
		return telemetry.InterfaceCounters{}, err
	}

	counters, ok := all[iface]
	if !ok {
		return telemetry.InterfaceCounters{}, fmt.Errorf("interface %s not found in %s", iface, s.procNetDevPath)
	}

	counters.OperState = s.readOperState(iface)
	return counters, nil
}

// Interfaces enumerates the currently known interfaces in /proc/net/dev
// order.
func (s *Source) Interfaces(ctx context.Context) ([]string, error) {
	file, err := os.Open(s.procNetDevPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.procNetDevPath, err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum <= 2 {
			continue
		}
		parts := strings.Split(scanner.Text(), ":")
		if len(parts) != 2 {
			continue
		}
		names = append(names, strings.TrimSpace(parts[0]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", s.procNetDevPath, err)
	}
	return names, nil
}

// readNetDev parses all of /proc/net/dev in one pass. The counters of every
// interface come from the same read, so a multi-interface cycle sees an
// internally consistent file even though each interface is resolved
// separately.
func (s *Source) readNetDev() (map[string]telemetry.InterfaceCounters, error) {
	file, err := os.Open(s.procNetDevPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.procNetDevPath, err)
	}
	defer file.Close()

	now := time.Now()
	stats := make(map[string]telemetry.InterfaceCounters)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip the two header lines
		if lineNum <= 2 {
			continue
		}

		// Format: interface_name: rx_bytes rx_packets ... tx_compressed
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}

		ifaceName := strings.TrimSpace(parts[0])
		fields := strings.Fields(parts[1])
		if len(fields) < 16 {
			s.logger.V(2).Info("skipping malformed interface line",
				"interface", ifaceName, "fields", len(fields))
			continue
		}

		parse := func(field string) uint64 {
			val, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				s.logger.V(2).Info("failed to parse counter",
					"interface", ifaceName, "value", field, "error", err)
				return 0
			}
			return val
		}

		stats[ifaceName] = telemetry.InterfaceCounters{
			Name:      ifaceName,
			Timestamp: now,
			// Receive statistics (columns 1-8); bytes, errs, drop
			RxBytes:   parse(fields[0]),
			RxErrors:  parse(fields[2]),
			RxDropped: parse(fields[3]),
			// Transmit statistics (columns 9-16)
			TxBytes:   parse(fields[8]),
			TxErrors:  parse(fields[10]),
			TxDropped: parse(fields[11]),
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", s.procNetDevPath, err)
	}
	return stats, nil
}

// readOperState reads /sys/class/net/[interface]/operstate. The file may
// not exist for virtual interfaces; "unknown" is reported in that case
// rather than an error.
func (s *Source) readOperState(iface string) string {
	operstatePath := filepath.Join(s.sysClassNetPath, iface, "operstate")
	data, err := os.ReadFile(operstatePath)
	if err != nil {
		return "unknown"
	}
	state := strings.TrimSpace(string(data))
	if state == "" {
		return "unknown"
	}
	return state
}
