// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package procfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validNetDevContent = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo: 1234567   12345    0    0    0     0          0         0 1234567   12345    0    0    0     0       0          0
  eth0: 9876543   98765    5    2    0     0          0         0 5432109   54321    3    1    0     0       0          0
`

func TestCounters(t *testing.T) {
	source := createTestSource(t,
		map[string]string{"net/dev": validNetDevContent},
		map[string]string{"class/net/eth0/operstate": "up\n"},
	)

	counters, err := source.Counters(context.Background(), "eth0")
	require.NoError(t, err)

	assert.Equal(t, "eth0", counters.Name)
	assert.Equal(t, uint64(9876543), counters.RxBytes)
	assert.Equal(t, uint64(5), counters.RxErrors)
	assert.Equal(t, uint64(2), counters.RxDropped)
	assert.Equal(t, uint64(5432109), counters.TxBytes)
	assert.Equal(t, uint64(3), counters.TxErrors)
	assert.Equal(t, uint64(1), counters.TxDropped)
	assert.Equal(t, "up", counters.OperState)
	assert.False(t, counters.Timestamp.IsZero())
}

func TestCounters_MissingInterface(t *testing.T) {
	source := createTestSource(t, map[string]string{"net/dev": validNetDevContent}, nil)

	_, err := source.Counters(context.Background(), "eth7")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "eth7")
}

func TestCounters_MissingOperState(t *testing.T) {
	// No /sys/class/net entry; state degrades to "unknown" instead of
	// failing the read.
	source := createTestSource(t, map[string]string{"net/dev": validNetDevContent}, nil)

	counters, err := source.Counters(context.Background(), "lo")
	require.NoError(t, err)
	assert.Equal(t, "unknown", counters.OperState)
}

func TestCounters_MissingNetDev(t *testing.T) {
	source := createTestSource(t, nil, nil)

	_, err := source.Counters(context.Background(), "eth0")
	assert.Error(t, err)
}

func TestInterfaces(t *testing.T) {
	source := createTestSource(t, map[string]string{"net/dev": validNetDevContent}, nil)

	names, err := source.Interfaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lo", "eth0"}, names)
}

func TestInterfaces_SkipsMalformedLines(t *testing.T) {
	content := `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo: 100 1 0 0 0 0 0 0 100 1 0 0 0 0 0 0
garbage line without separator
`
	source := createTestSource(t, map[string]string{"net/dev": content}, nil)

	names, err := source.Interfaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lo"}, names)
}
