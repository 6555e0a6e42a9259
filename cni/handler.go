package cni

import (
	"context"

	"github.com/juju/errors"

	"github.com/projecteru2/spigot/allocator"
	"github.com/projecteru2/spigot/types"
	"github.com/projecteru2/spigot/utils"
)

// Handler translates runtime requests into allocator operations.
type Handler struct {
	utils.LoggerFactory
	allocator.Allocator
}

// NewHandler .
func NewHandler(alloc allocator.Allocator) *Handler {
	return &Handler{
		LoggerFactory: utils.NewObjectLogger("Handler"),
		Allocator:     alloc,
	}
}

// Handle dispatches one request. Failures are always *Error values
// carrying the wire taxonomy.
func (handler *Handler) Handle(ctx context.Context, request Request) (*Result, error) {
	switch request.Command {
	case CommandAdd:
		return handler.Add(ctx, request)
	case CommandDel:
		return nil, handler.Del(ctx, request)
	case CommandCheck:
		return nil, handler.Check(ctx, request)
	default:
		return nil, &Error{Kind: KindNotFound, Message: errors.Errorf("unknown command %q", request.Command).Error()}
	}
}

// Add reaffirms the owner's lease or reserves a new one. Repeating the
// same ADD before any DEL returns the same address.
func (handler *Handler) Add(ctx context.Context, request Request) (*Result, error) {
	logger := handler.Logger("Add")

	lease, err := handler.Reaffirm(ctx, request.PoolName, request.Owner)
	if err != nil {
		logger.Errorf("reaffirm failed for %s in pool %s, cause=%v", request.Owner, request.PoolName, err)
		return nil, WrapError(err)
	}
	if lease == nil {
		if lease, err = handler.Reserve(ctx, request.PoolName, request.Owner); err != nil {
			logger.Errorf("reserve failed for %s in pool %s, cause=%v", request.Owner, request.PoolName, err)
			return nil, WrapError(err)
		}
		logger.Infof("reserved %s in pool %s for %s, seq %d", lease.Address, request.PoolName, request.Owner, lease.Seq)
	} else {
		logger.Infof("reaffirmed %s in pool %s for %s", lease.Address, request.PoolName, request.Owner)
	}

	pool, err := handler.Pool(ctx, request.PoolName)
	if err != nil {
		return nil, WrapError(err)
	}
	return &Result{
		Address:      lease.Address,
		PrefixLength: pool.PrefixLength(),
		Gateway:      pool.Gateway,
	}, nil
}

// Del releases the owner's lease. Teardown may run more than once, so a
// missing lease is success, not an error.
func (handler *Handler) Del(ctx context.Context, request Request) error {
	logger := handler.Logger("Del")

	lease, err := handler.FindByOwner(ctx, request.PoolName, request.Owner)
	if err != nil {
		logger.Errorf("lease lookup failed for %s in pool %s, cause=%v", request.Owner, request.PoolName, err)
		return WrapError(err)
	}
	if lease == nil {
		logger.Debugf("no lease for %s in pool %s, nothing to release", request.Owner, request.PoolName)
		return nil
	}
	if err := handler.Release(ctx, request.PoolName, lease.Address, request.Owner); err != nil {
		if errors.Cause(err) == types.ErrLeaseNotFound {
			return nil
		}
		logger.Errorf("release of %s failed for %s in pool %s, cause=%v", lease.Address, request.Owner, request.PoolName, err)
		return WrapError(err)
	}
	logger.Infof("released %s in pool %s for %s", lease.Address, request.PoolName, request.Owner)
	return nil
}

// Check verifies the recorded lease against what the caller reports
// holding; drift is signalled so the caller can reconcile.
func (handler *Handler) Check(ctx context.Context, request Request) error {
	lease, err := handler.FindByOwner(ctx, request.PoolName, request.Owner)
	if err != nil {
		return WrapError(err)
	}
	if lease == nil {
		return WrapError(errors.Annotatef(types.ErrLeaseNotFound, "owner %s in pool %s", request.Owner, request.PoolName))
	}
	if request.ReportedAddress != "" && request.ReportedAddress != lease.Address {
		return WrapError(errors.Annotatef(types.ErrLeaseMismatch,
			"recorded %s, reported %s", lease.Address, request.ReportedAddress))
	}
	return nil
}
