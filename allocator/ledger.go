package allocator

import (
	"context"

	"github.com/projecteru2/spigot/codecs"
	"github.com/projecteru2/spigot/store"
	"github.com/projecteru2/spigot/types"
)

// Leases returns a snapshot of every lease record in the pool, released
// tombstones included.
func (impl *AllocatorImpl) Leases(ctx context.Context, poolName string) ([]types.Lease, error) {
	snapshot, err := impl.leaseSnapshot(ctx, poolName)
	if err != nil {
		return nil, err
	}
	leases := make([]types.Lease, 0, len(snapshot))
	for _, c := range snapshot {
		leases = append(leases, *c.Lease)
	}
	return leases, nil
}

// FindByOwner returns owner's live lease in the pool, nil when none exists.
func (impl *AllocatorImpl) FindByOwner(ctx context.Context, poolName string, owner types.OwnerKey) (*types.Lease, error) {
	snapshot, err := impl.leaseSnapshot(ctx, poolName)
	if err != nil {
		return nil, err
	}
	for _, c := range snapshot {
		if c.Lease.Held() && c.Lease.Owner.Equals(owner) {
			return c.Lease, nil
		}
	}
	return nil, nil
}

// FindByAddress returns the live lease at address, nil when the address is
// free or tombstoned.
func (impl *AllocatorImpl) FindByAddress(ctx context.Context, poolName string, address string) (*types.Lease, error) {
	lease := &types.Lease{PoolName: poolName, Address: address}
	if err := impl.Get(ctx, &codecs.LeaseCodec{Lease: lease}); err != nil {
		if store.IsNotExists(err) {
			return nil, nil
		}
		return nil, err
	}
	if lease.Released {
		return nil, nil
	}
	return lease, nil
}

// MarkReleased tombstones the lease at address regardless of owner.
// Releasing an address that holds no live lease is a no-op, so delayed
// duplicate teardown stays harmless.
func (impl *AllocatorImpl) MarkReleased(ctx context.Context, poolName string, address string) error {
	unlock := impl.lockPool(poolName)
	defer unlock()
	return impl.markReleased(ctx, poolName, address)
}

func (impl *AllocatorImpl) markReleased(ctx context.Context, poolName string, address string) error {
	for {
		lease := &types.Lease{PoolName: poolName, Address: address}
		leaseCodec := &codecs.LeaseCodec{Lease: lease}
		if err := impl.Get(ctx, leaseCodec); err != nil {
			if store.IsNotExists(err) {
				return nil
			}
			return err
		}
		if lease.Released {
			return nil
		}
		lease.Released = true
		ok, err := impl.Update(ctx, leaseCodec)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
}

// Sweep tombstones every live lease whose owner the predicate reports
// gone, and returns how many it released. Covers leaks from teardown
// calls that never ran.
func (impl *AllocatorImpl) Sweep(ctx context.Context, poolName string, isOwnerAlive func(types.OwnerKey) bool) (int, error) {
	logger := impl.Logger("Sweep")
	unlock := impl.lockPool(poolName)
	defer unlock()

	snapshot, err := impl.leaseSnapshot(ctx, poolName)
	if err != nil {
		return 0, err
	}
	released := 0
	for _, c := range snapshot {
		if !c.Lease.Held() || isOwnerAlive(c.Lease.Owner) {
			continue
		}
		if err := impl.markReleased(ctx, poolName, c.Lease.Address); err != nil {
			return released, err
		}
		logger.Infof("released orphaned lease %s in pool %s, owner %s", c.Lease.Address, poolName, c.Lease.Owner)
		released++
	}
	return released, nil
}
