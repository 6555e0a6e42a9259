package allocator

import (
	"net"

	"github.com/juju/errors"

	"github.com/projecteru2/spigot/codecs"
	"github.com/projecteru2/spigot/types"
	"github.com/projecteru2/spigot/utils"
)

// firstFree walks the pool's CIDR in ascending order and returns the first
// allocatable address, together with the tombstone record occupying that
// key if one exists. The network address, the broadcast address (v4), the
// gateway, configured exclusions and held leases are skipped.
func firstFree(pool *types.Pool, snapshot []*codecs.LeaseCodec) (string, *codecs.LeaseCodec, error) {
	_, subnet, err := net.ParseCIDR(pool.CIDR)
	if err != nil {
		return "", nil, errors.Annotatef(types.ErrInvalidPool, "bad cidr %s", pool.CIDR)
	}

	held := make(map[string]struct{})
	tombstones := make(map[string]*codecs.LeaseCodec)
	for _, c := range snapshot {
		if c.Lease.Held() {
			held[c.Lease.Address] = struct{}{}
		} else {
			tombstones[c.Lease.Address] = c
		}
	}

	var (
		network   = utils.NetworkAddress(subnet)
		broadcast = utils.BroadcastAddress(subnet)
		v4        = utils.IsIPv4(subnet.IP)
	)
	for ip := utils.NextIP(network); subnet.Contains(ip); ip = utils.NextIP(ip) {
		if v4 && ip.Equal(broadcast) {
			break
		}
		if pool.Excluded(ip) {
			continue
		}
		address := ip.String()
		if _, ok := held[address]; ok {
			continue
		}
		return address, tombstones[address], nil
	}
	return "", nil, types.ErrPoolExhausted
}
