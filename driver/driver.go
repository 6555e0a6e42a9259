package driver

import (
	"context"
	"fmt"
	"time"

	pluginIpam "github.com/docker/go-plugins-helpers/ipam"
	"github.com/juju/errors"

	"github.com/projecteru2/spigot/allocator"
	"github.com/projecteru2/spigot/cni"
	"github.com/projecteru2/spigot/types"
	"github.com/projecteru2/spigot/utils"
)

const (
	// PoolOption names the configured pool a network draws from.
	PoolOption = "spigot.pool"
	// OwnerIDOption carries the container identity for address requests.
	OwnerIDOption = "spigot.owner.container"
	// OwnerInterfaceOption carries the interface name, eth0 when unset.
	OwnerInterfaceOption = "spigot.owner.interface"

	defaultInterfaceName = "eth0"

	localAddressSpace  = "LocalDefault"
	globalAddressSpace = "GlobalDefault"

	// set by libnetwork when it asks for the subnet gateway
	requestAddressType = "RequestAddressType"
	gatewayRequestType = "com.docker.network.gateway"
)

// Ipam exposes the allocator as a libnetwork IPAM plugin.
type Ipam struct {
	utils.LoggerFactory
	handler        *cni.Handler
	allocator      allocator.Allocator
	requestTimeout time.Duration
}

// NewIpam .
func NewIpam(alloc allocator.Allocator, requestTimeout time.Duration) *Ipam {
	return &Ipam{
		LoggerFactory:  utils.NewObjectLogger("Ipam"),
		handler:        cni.NewHandler(alloc),
		allocator:      alloc,
		requestTimeout: requestTimeout,
	}
}

// GetCapabilities .
func (ipam *Ipam) GetCapabilities() (*pluginIpam.CapabilitiesResponse, error) {
	return &pluginIpam.CapabilitiesResponse{RequiresMACAddress: false}, nil
}

// GetDefaultAddressSpaces .
func (ipam *Ipam) GetDefaultAddressSpaces() (*pluginIpam.AddressSpacesResponse, error) {
	return &pluginIpam.AddressSpacesResponse{
		LocalDefaultAddressSpace:  localAddressSpace,
		GlobalDefaultAddressSpace: globalAddressSpace,
	}, nil
}

// RequestPool resolves a configured pool by option or by subnet and hands
// its name back as the pool id.
func (ipam *Ipam) RequestPool(request *pluginIpam.RequestPoolRequest) (*pluginIpam.RequestPoolResponse, error) {
	logger := ipam.Logger("RequestPool")
	ctx, cancel := ipam.requestContext()
	defer cancel()

	if name := request.Options[PoolOption]; name != "" {
		pool, err := ipam.allocator.Pool(ctx, name)
		if err != nil {
			logger.Errorf("pool %s not usable, cause=%v", name, err)
			return nil, err
		}
		return &pluginIpam.RequestPoolResponse{PoolID: pool.Name, Pool: pool.CIDR}, nil
	}

	if request.Pool == "" {
		return nil, errors.Annotate(types.ErrPoolNotFound, "no pool option and no subnet given")
	}
	pools, err := ipam.allocator.Pools(ctx)
	if err != nil {
		return nil, err
	}
	for _, pool := range pools {
		if pool.CIDR == request.Pool {
			return &pluginIpam.RequestPoolResponse{PoolID: pool.Name, Pool: pool.CIDR}, nil
		}
	}
	return nil, errors.Annotatef(types.ErrPoolNotFound, "no configured pool covers %s", request.Pool)
}

// ReleasePool keeps the pool definition; leases are torn down per address.
func (ipam *Ipam) ReleasePool(request *pluginIpam.ReleasePoolRequest) error {
	return nil
}

// RequestAddress .
func (ipam *Ipam) RequestAddress(request *pluginIpam.RequestAddressRequest) (*pluginIpam.RequestAddressResponse, error) {
	logger := ipam.Logger("RequestAddress")
	ctx, cancel := ipam.requestContext()
	defer cancel()

	if request.Options[requestAddressType] == gatewayRequestType {
		pool, err := ipam.allocator.Pool(ctx, request.PoolID)
		if err != nil {
			return nil, err
		}
		if pool.Gateway == "" {
			return nil, errors.Annotatef(types.ErrPoolNotFound, "pool %s has no gateway", pool.Name)
		}
		return &pluginIpam.RequestAddressResponse{
			Address: fmt.Sprintf("%s/%d", pool.Gateway, pool.PrefixLength()),
		}, nil
	}

	owner, err := ownerFromOptions(request.Options)
	if err != nil {
		return nil, err
	}
	if request.Address != "" {
		pool, err := ipam.allocator.Pool(ctx, request.PoolID)
		if err != nil {
			return nil, err
		}
		ok, err := utils.Belongs(request.Address, pool.CIDR)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Annotatef(types.ErrLeaseMismatch, "address %s outside pool %s", request.Address, pool.Name)
		}
		// refuse before reserving when the owner already holds a
		// different address, so the drift surfaces without committing
		// a second lease
		held, err := ipam.allocator.FindByOwner(ctx, request.PoolID, owner)
		if err != nil {
			return nil, err
		}
		if held != nil && held.Address != request.Address {
			return nil, &cni.Error{
				Kind:    cni.KindLeaseMismatch,
				Message: fmt.Sprintf("owner %s holds %s, requested %s", owner, held.Address, request.Address),
			}
		}
	}
	result, err := ipam.handler.Add(ctx, cni.Request{
		Command:  cni.CommandAdd,
		PoolName: request.PoolID,
		Owner:    owner,
	})
	if err != nil {
		logger.Errorf("add failed for %s in pool %s, cause=%v", owner, request.PoolID, err)
		return nil, err
	}
	if request.Address != "" && request.Address != result.Address {
		// the owner held nothing, so this lease was reserved just now;
		// give it back before failing the request
		if relErr := ipam.allocator.Release(ctx, request.PoolID, result.Address, owner); relErr != nil {
			logger.Errorf("rollback of %s in pool %s failed, cause=%v", result.Address, request.PoolID, relErr)
		}
		return nil, &cni.Error{
			Kind:    cni.KindLeaseMismatch,
			Message: fmt.Sprintf("pool %s cannot honor address %s for %s, lowest free is %s", request.PoolID, request.Address, owner, result.Address),
		}
	}
	return &pluginIpam.RequestAddressResponse{
		Address: fmt.Sprintf("%s/%d", result.Address, result.PrefixLength),
	}, nil
}

// ReleaseAddress frees the lease recorded at the address. libnetwork does
// not echo the owner back, so the recorded owner is used.
func (ipam *Ipam) ReleaseAddress(request *pluginIpam.ReleaseAddressRequest) error {
	logger := ipam.Logger("ReleaseAddress")
	ctx, cancel := ipam.requestContext()
	defer cancel()

	lease, err := ipam.allocator.FindByAddress(ctx, request.PoolID, request.Address)
	if err != nil {
		return err
	}
	if lease == nil {
		logger.Debugf("no lease at %s in pool %s, nothing to release", request.Address, request.PoolID)
		return nil
	}
	return ipam.handler.Del(ctx, cni.Request{
		Command:  cni.CommandDel,
		PoolName: request.PoolID,
		Owner:    lease.Owner,
	})
}

func (ipam *Ipam) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ipam.requestTimeout)
}

func ownerFromOptions(options map[string]string) (types.OwnerKey, error) {
	owner := types.OwnerKey{
		ContainerID:   options[OwnerIDOption],
		InterfaceName: options[OwnerInterfaceOption],
	}
	if owner.InterfaceName == "" {
		owner.InterfaceName = defaultInterfaceName
	}
	if err := owner.Validate(); err != nil {
		return owner, errors.Annotatef(err, "option %s is required", OwnerIDOption)
	}
	return owner, nil
}
