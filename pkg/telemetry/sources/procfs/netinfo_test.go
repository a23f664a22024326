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

func TestNetworkInfo(t *testing.T) {
	source := createTestSource(t,
		map[string]string{"net/dev": validNetDevContent},
		map[string]string{
			"class/net/eth0/address":   "aa:bb:cc:dd:ee:ff\n",
			"class/net/eth0/mtu":       "1500\n",
			"class/net/eth0/speed":     "1000\n",
			"class/net/eth0/duplex":    "full\n",
			"class/net/eth0/carrier":   "1\n",
			"class/net/eth0/operstate": "up\n",
			"class/net/lo/mtu":         "65536\n",
			"class/net/lo/operstate":   "unknown\n",
		},
	)

	infos, err := source.NetworkInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	lo := infos[0]
	assert.Equal(t, "lo", lo.Interface)
	assert.Equal(t, uint32(65536), lo.MTU)
	// Virtual interfaces have no address/speed/duplex files; those fields
	// stay zero.
	assert.Empty(t, lo.MACAddress)
	assert.Zero(t, lo.Speed)
	assert.False(t, lo.LinkDetected)

	eth0 := infos[1]
	assert.Equal(t, "eth0", eth0.Interface)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", eth0.MACAddress)
	assert.Equal(t, uint32(1500), eth0.MTU)
	assert.Equal(t, uint64(1000), eth0.Speed)
	assert.Equal(t, "full", eth0.Duplex)
	assert.True(t, eth0.LinkDetected)
	assert.Equal(t, "up", eth0.OperState)
}

func TestNetworkInfo_MissingNetDev(t *testing.T) {
	source := createTestSource(t, nil, nil)

	_, err := source.NetworkInfo(context.Background())
	assert.Error(t, err)
}
