package utils

import (
	"net"

	"github.com/juju/errors"
)

// Belongs .
func Belongs(ipAddr string, subnetCidr string) (bool, error) {
	var (
		ip     net.IP
		subnet *net.IPNet
		err    error
	)
	if _, subnet, err = net.ParseCIDR(subnetCidr); err != nil {
		return false, err
	}
	if ip = net.ParseIP(ipAddr); ip == nil {
		return false, errors.Errorf("Invalid IP Address: %s", ipAddr)
	}
	return subnet.Contains(ip), nil
}

// NetworkAddress returns the first address of the subnet.
func NetworkAddress(subnet *net.IPNet) net.IP {
	network := make(net.IP, len(subnet.IP))
	copy(network, subnet.IP)
	return network.Mask(subnet.Mask)
}

// BroadcastAddress returns the last address of the subnet.
// Only meaningful for IPv4; callers skip it on v4 subnets.
func BroadcastAddress(subnet *net.IPNet) net.IP {
	network := NetworkAddress(subnet)
	broadcast := make(net.IP, len(network))
	for i := range network {
		broadcast[i] = network[i] | ^subnet.Mask[i]
	}
	return broadcast
}

// NextIP returns ip+1 without mutating its argument.
func NextIP(ip net.IP) net.IP {
	next := make(net.IP, len(ip))
	copy(next, ip)
	for i := len(next) - 1; i >= 0; i-- {
		next[i]++
		if next[i] != 0 {
			break
		}
	}
	return next
}

// IsIPv4 .
func IsIPv4(ip net.IP) bool {
	return ip.To4() != nil
}
