package allocator

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	boltstore "github.com/projecteru2/spigot/store/bolt"
	storeMocks "github.com/projecteru2/spigot/store/mocks"
	"github.com/projecteru2/spigot/types"
)

func newTestAllocator(t *testing.T, pools ...types.Pool) *AllocatorImpl {
	stor, err := boltstore.NewBolt(filepath.Join(t.TempDir(), "spigot.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = stor.Close()
	})

	alloc := NewAllocator(stor)
	for _, pool := range pools {
		require.NoError(t, alloc.RegisterPool(context.Background(), pool))
	}
	return alloc
}

func owner(id string) types.OwnerKey {
	return types.OwnerKey{ContainerID: id, InterfaceName: "eth0"}
}

func TestReserveLowestFreeFirst(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{
		Name:    "pool0",
		CIDR:    "10.0.0.0/24",
		Gateway: "10.0.0.1",
	})
	ctx := context.Background()

	first, err := alloc.Reserve(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", first.Address)
	assert.Equal(t, uint64(1), first.Seq)

	second, err := alloc.Reserve(ctx, "pool0", owner("c2"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.3", second.Address)
	assert.Equal(t, uint64(2), second.Seq)
}

func TestReserveSkipsExclusions(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{
		Name:    "pool0",
		CIDR:    "10.0.0.0/28",
		Gateway: "10.0.0.1",
		Exclude: []string{"10.0.0.2", "10.0.0.4/30"},
	})
	ctx := context.Background()

	lease, err := alloc.Reserve(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.3", lease.Address)

	lease, err = alloc.Reserve(ctx, "pool0", owner("c2"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.8", lease.Address)
}

func TestReserveUnknownPool(t *testing.T) {
	alloc := newTestAllocator(t)

	_, err := alloc.Reserve(context.Background(), "nosuch", owner("c1"))
	assert.Equal(t, types.ErrPoolNotFound, errors.Cause(err))
}

func TestReserveExhaustion(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{
		Name:    "tiny",
		CIDR:    "10.0.0.0/30",
		Gateway: "10.0.0.1",
	})
	ctx := context.Background()

	lease, err := alloc.Reserve(ctx, "tiny", owner("c1"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", lease.Address)

	_, err = alloc.Reserve(ctx, "tiny", owner("c2"))
	assert.Equal(t, types.ErrPoolExhausted, errors.Cause(err))
}

func TestReserveIsIdempotentPerOwner(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	first, err := alloc.Reserve(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	again, err := alloc.Reserve(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	assert.Equal(t, first.Address, again.Address)
	assert.Equal(t, first.Seq, again.Seq)
}

func TestReleaseOwnerMismatch(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	lease, err := alloc.Reserve(ctx, "pool0", owner("c1"))
	require.NoError(t, err)

	err = alloc.Release(ctx, "pool0", lease.Address, owner("intruder"))
	assert.Equal(t, types.ErrOwnerMismatch, errors.Cause(err))

	// the lease must be left intact
	held, err := alloc.FindByOwner(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	require.NotNil(t, held)
	assert.Equal(t, lease.Address, held.Address)
}

func TestReleaseThenReserveReturnsAddressToPool(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{
		Name:    "tiny",
		CIDR:    "10.0.0.0/30",
		Gateway: "10.0.0.1",
	})
	ctx := context.Background()

	lease, err := alloc.Reserve(ctx, "tiny", owner("c1"))
	require.NoError(t, err)
	require.NoError(t, alloc.Release(ctx, "tiny", lease.Address, owner("c1")))

	// the sole usable address is free again
	lease2, err := alloc.Reserve(ctx, "tiny", owner("c2"))
	require.NoError(t, err)
	assert.Equal(t, lease.Address, lease2.Address)
	assert.True(t, lease2.Seq > lease.Seq)
}

func TestReleaseReleasedLease(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	lease, err := alloc.Reserve(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	require.NoError(t, alloc.Release(ctx, "pool0", lease.Address, owner("c1")))

	err = alloc.Release(ctx, "pool0", lease.Address, owner("c1"))
	assert.Equal(t, types.ErrLeaseNotFound, errors.Cause(err))
}

func TestReaffirm(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	lease, err := alloc.Reaffirm(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	assert.Nil(t, lease)

	reserved, err := alloc.Reserve(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	lease, err = alloc.Reaffirm(ctx, "pool0", owner("c1"))
	require.NoError(t, err)
	require.NotNil(t, lease)
	assert.Equal(t, reserved.Address, lease.Address)
}

func TestConcurrentReservesAreDistinct(t *testing.T) {
	alloc := newTestAllocator(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	const parallel = 20
	var (
		wg        sync.WaitGroup
		mutex     sync.Mutex
		addresses = map[string]string{}
	)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := owner(string(rune('a' + i)))
			lease, err := alloc.Reserve(ctx, "pool0", key)
			if !assert.NoError(t, err) {
				return
			}
			mutex.Lock()
			defer mutex.Unlock()
			if prev, taken := addresses[lease.Address]; taken {
				t.Errorf("address %s handed to both %s and %s", lease.Address, prev, key)
			}
			addresses[lease.Address] = key.ContainerID
		}(i)
	}
	wg.Wait()
	assert.Len(t, addresses, parallel)
}

func TestReserveStoreFailure(t *testing.T) {
	stor := &storeMocks.Store{}
	stor.On("Get", mock.Anything, mock.Anything).Return(types.ErrStoreUnavailable)

	alloc := NewAllocator(stor)
	_, err := alloc.Reserve(context.Background(), "pool0", owner("c1"))
	assert.Equal(t, types.ErrStoreUnavailable, errors.Cause(err))
}

func TestRegisterPoolRejectsBadDefinition(t *testing.T) {
	alloc := newTestAllocator(t)
	ctx := context.Background()

	err := alloc.RegisterPool(ctx, types.Pool{Name: "bad", CIDR: "not-a-cidr"})
	assert.Equal(t, types.ErrInvalidPool, errors.Cause(err))

	err = alloc.RegisterPool(ctx, types.Pool{Name: "bad", CIDR: "10.0.0.0/24", Gateway: "192.168.0.1"})
	assert.Equal(t, types.ErrInvalidPool, errors.Cause(err))
}
