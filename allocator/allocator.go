package allocator

import (
	"context"
	"sync"

	"github.com/projecteru2/spigot/codecs"
	"github.com/projecteru2/spigot/store"
	"github.com/projecteru2/spigot/types"
	"github.com/projecteru2/spigot/utils"
)

// Allocator hands out and reclaims addresses within configured pools.
// Reserve always picks the lowest free address, so allocation order is
// reproducible for a given pool state.
type Allocator interface {
	RegisterPool(ctx context.Context, pool types.Pool) error
	Pool(ctx context.Context, poolName string) (*types.Pool, error)
	Pools(ctx context.Context) ([]types.Pool, error)

	Reserve(ctx context.Context, poolName string, owner types.OwnerKey) (*types.Lease, error)
	Release(ctx context.Context, poolName string, address string, owner types.OwnerKey) error
	Reaffirm(ctx context.Context, poolName string, owner types.OwnerKey) (*types.Lease, error)

	Leases(ctx context.Context, poolName string) ([]types.Lease, error)
	FindByOwner(ctx context.Context, poolName string, owner types.OwnerKey) (*types.Lease, error)
	FindByAddress(ctx context.Context, poolName string, address string) (*types.Lease, error)
	MarkReleased(ctx context.Context, poolName string, address string) error
	Sweep(ctx context.Context, poolName string, isOwnerAlive func(types.OwnerKey) bool) (int, error)
}

// AllocatorImpl .
type AllocatorImpl struct {
	utils.LoggerFactory
	store.Store

	mutex     sync.Mutex
	poolLocks map[string]*sync.Mutex
}

// NewAllocator .
func NewAllocator(stor store.Store) *AllocatorImpl {
	return &AllocatorImpl{
		LoggerFactory: utils.NewObjectLogger("AllocatorImpl"),
		Store:         stor,
		poolLocks:     make(map[string]*sync.Mutex),
	}
}

// RegisterPool persists a pool definition, overwriting a prior one of the
// same name. Existing leases are untouched.
func (impl *AllocatorImpl) RegisterPool(ctx context.Context, pool types.Pool) error {
	if err := pool.Validate(); err != nil {
		return err
	}
	return impl.Put(ctx, &codecs.PoolCodec{Pool: &pool})
}

// Pool .
func (impl *AllocatorImpl) Pool(ctx context.Context, poolName string) (*types.Pool, error) {
	pool := &types.Pool{Name: poolName}
	if err := impl.Get(ctx, &codecs.PoolCodec{Pool: pool}); err != nil {
		if store.IsNotExists(err) {
			return nil, types.ErrPoolNotFound
		}
		return nil, err
	}
	return pool, nil
}

// Pools .
func (impl *AllocatorImpl) Pools(ctx context.Context) ([]types.Pool, error) {
	multi := &codecs.PoolMultiGetCodec{}
	if err := impl.List(ctx, multi); err != nil {
		return nil, err
	}
	if len(multi.Errors) > 0 {
		return nil, multi.Errors[0]
	}
	pools := make([]types.Pool, 0, len(multi.Codecs))
	for _, c := range multi.Codecs {
		pools = append(pools, *c.Pool)
	}
	return pools, nil
}

// Reserve commits the lowest free address of the pool to owner.
// The scan and the conditional commit run under the pool's critical
// section; a lost cross-process race just rescans, so two concurrent
// reserves can never end up holding the same address.
func (impl *AllocatorImpl) Reserve(ctx context.Context, poolName string, owner types.OwnerKey) (*types.Lease, error) {
	logger := impl.Logger("Reserve")
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	unlock := impl.lockPool(poolName)
	defer unlock()

	pool, err := impl.Pool(ctx, poolName)
	if err != nil {
		return nil, err
	}

	for {
		snapshot, err := impl.leaseSnapshot(ctx, poolName)
		if err != nil {
			return nil, err
		}
		// a lease may have been committed for this owner already,
		// e.g. by a duplicate invocation racing us
		for _, c := range snapshot {
			if c.Lease.Held() && c.Lease.Owner.Equals(owner) {
				return c.Lease, nil
			}
		}

		address, tombstone, err := firstFree(pool, snapshot)
		if err != nil {
			return nil, err
		}
		lease := &types.Lease{
			PoolName: poolName,
			Address:  address,
			Owner:    owner,
			Seq:      nextSeq(snapshot),
		}
		leaseCodec := &codecs.LeaseCodec{Lease: lease}
		if tombstone != nil {
			leaseCodec.SetVersion(tombstone.Version())
			ok, err := impl.Update(ctx, leaseCodec)
			if err != nil {
				return nil, err
			}
			if ok {
				return lease, nil
			}
		} else {
			err := impl.Create(ctx, leaseCodec)
			if err == nil {
				return lease, nil
			}
			if !store.IsExists(err) {
				return nil, err
			}
		}
		logger.Warnf("address %s in pool %s taken by another writer, rescanning", address, poolName)
	}
}

// Release tombstones the lease at address after proving owner holds it.
// A mismatching owner must never free the lease.
func (impl *AllocatorImpl) Release(ctx context.Context, poolName string, address string, owner types.OwnerKey) error {
	unlock := impl.lockPool(poolName)
	defer unlock()

	for {
		lease := &types.Lease{PoolName: poolName, Address: address}
		leaseCodec := &codecs.LeaseCodec{Lease: lease}
		if err := impl.Get(ctx, leaseCodec); err != nil {
			if store.IsNotExists(err) {
				return types.ErrLeaseNotFound
			}
			return err
		}
		if lease.Released {
			return types.ErrLeaseNotFound
		}
		if !lease.Owner.Equals(owner) {
			return types.ErrOwnerMismatch
		}
		lease.Released = true
		ok, err := impl.Update(ctx, leaseCodec)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		// lost a cross-process race, re-read and re-check the owner
	}
}

// Reaffirm returns owner's live lease in the pool unchanged, nil when the
// owner holds none.
func (impl *AllocatorImpl) Reaffirm(ctx context.Context, poolName string, owner types.OwnerKey) (*types.Lease, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return impl.FindByOwner(ctx, poolName, owner)
}

func (impl *AllocatorImpl) lockPool(poolName string) func() {
	impl.mutex.Lock()
	lock, ok := impl.poolLocks[poolName]
	if !ok {
		lock = &sync.Mutex{}
		impl.poolLocks[poolName] = lock
	}
	impl.mutex.Unlock()
	lock.Lock()
	return lock.Unlock
}

func (impl *AllocatorImpl) leaseSnapshot(ctx context.Context, poolName string) ([]*codecs.LeaseCodec, error) {
	multi := &codecs.LeaseMultiGetCodec{PoolName: poolName}
	if err := impl.List(ctx, multi); err != nil {
		return nil, err
	}
	if len(multi.Errors) > 0 {
		return nil, multi.Errors[0]
	}
	return multi.Codecs, nil
}

func nextSeq(snapshot []*codecs.LeaseCodec) uint64 {
	var max uint64
	for _, c := range snapshot {
		if c.Lease.Seq > max {
			max = c.Lease.Seq
		}
	}
	return max + 1
}
