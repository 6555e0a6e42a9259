package codecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/spigot/types"
)

func TestKeys(t *testing.T) {
	pool := &PoolCodec{Pool: &types.Pool{Name: "pool0"}}
	assert.Equal(t, "/spigot/meta/pools/pool0", pool.Key())
	assert.Equal(t, "", (&PoolCodec{Pool: &types.Pool{}}).Key())

	lease := &LeaseCodec{Lease: &types.Lease{PoolName: "pool0", Address: "10.0.0.2"}}
	assert.Equal(t, "/spigot/pools/pool0/leases/10.0.0.2", lease.Key())
	assert.Equal(t, "", (&LeaseCodec{Lease: &types.Lease{PoolName: "pool0"}}).Key())

	multi := &LeaseMultiGetCodec{PoolName: "pool0"}
	assert.Equal(t, "/spigot/pools/pool0/leases/", multi.Prefix())
}

func TestLeaseRoundTrip(t *testing.T) {
	original := &LeaseCodec{Lease: &types.Lease{
		PoolName: "pool0",
		Address:  "10.0.0.2",
		Owner:    types.OwnerKey{ContainerID: "c1", InterfaceName: "eth0"},
		Seq:      7,
		Released: true,
	}}
	encoded, err := original.Encode()
	require.NoError(t, err)

	decoded := &LeaseCodec{Lease: &types.Lease{}}
	require.NoError(t, decoded.Decode(encoded))
	assert.Equal(t, original.Lease, decoded.Lease)
}

func TestMultiGetCollectsErrors(t *testing.T) {
	multi := &LeaseMultiGetCodec{PoolName: "pool0"}
	multi.Decode(`{"poolName":"pool0","address":"10.0.0.2"}`, 1)
	multi.Decode(`{{{`, 1)
	assert.Len(t, multi.Codecs, 1)
	assert.Len(t, multi.Errors, 1)
	assert.Equal(t, int64(1), multi.Codecs[0].Version())
}
