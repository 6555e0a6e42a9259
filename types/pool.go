package types

import (
	"net"

	"github.com/juju/errors"
)

// Pool is a configured address range leases are drawn from.
// The network address, the broadcast address, the gateway and every
// address covered by Exclude are never allocated.
type Pool struct {
	Name    string   `json:"name" yaml:"name"`
	CIDR    string   `json:"cidr" yaml:"cidr"`
	Gateway string   `json:"gateway,omitempty" yaml:"gateway,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Validate .
func (pool Pool) Validate() error {
	if pool.Name == "" {
		return errors.Annotate(ErrInvalidPool, "pool name is empty")
	}
	_, subnet, err := net.ParseCIDR(pool.CIDR)
	if err != nil {
		return errors.Annotatef(ErrInvalidPool, "bad cidr %s", pool.CIDR)
	}
	if pool.Gateway != "" {
		gw := net.ParseIP(pool.Gateway)
		if gw == nil {
			return errors.Annotatef(ErrInvalidPool, "bad gateway %s", pool.Gateway)
		}
		if !subnet.Contains(gw) {
			return errors.Annotatef(ErrInvalidPool, "gateway %s outside %s", pool.Gateway, pool.CIDR)
		}
	}
	for _, excl := range pool.Exclude {
		if ip := net.ParseIP(excl); ip != nil {
			if !subnet.Contains(ip) {
				return errors.Annotatef(ErrInvalidPool, "excluded address %s outside %s", excl, pool.CIDR)
			}
			continue
		}
		_, exclNet, err := net.ParseCIDR(excl)
		if err != nil {
			return errors.Annotatef(ErrInvalidPool, "bad exclusion %s", excl)
		}
		if !subnet.Contains(exclNet.IP) {
			return errors.Annotatef(ErrInvalidPool, "excluded range %s outside %s", excl, pool.CIDR)
		}
	}
	return nil
}

// PrefixLength returns the pool's prefix length, 0 on a malformed CIDR.
func (pool Pool) PrefixLength() int {
	_, subnet, err := net.ParseCIDR(pool.CIDR)
	if err != nil {
		return 0
	}
	ones, _ := subnet.Mask.Size()
	return ones
}

// Excluded tells whether an address must never be allocated from this pool.
func (pool Pool) Excluded(addr net.IP) bool {
	if pool.Gateway != "" && addr.Equal(net.ParseIP(pool.Gateway)) {
		return true
	}
	for _, excl := range pool.Exclude {
		if ip := net.ParseIP(excl); ip != nil {
			if addr.Equal(ip) {
				return true
			}
			continue
		}
		if _, exclNet, err := net.ParseCIDR(excl); err == nil && exclNet.Contains(addr) {
			return true
		}
	}
	return false
}
