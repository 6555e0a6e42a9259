package types

import "fmt"

// OwnerKey identifies the sandbox interface a lease belongs to.
type OwnerKey struct {
	ContainerID   string `json:"containerID" yaml:"containerID"`
	InterfaceName string `json:"interfaceName" yaml:"interfaceName"`
}

// Validate .
func (owner OwnerKey) Validate() error {
	if owner.ContainerID == "" || owner.InterfaceName == "" {
		return ErrInvalidOwner
	}
	return nil
}

// Equals .
func (owner OwnerKey) Equals(other OwnerKey) bool {
	return owner.ContainerID == other.ContainerID && owner.InterfaceName == other.InterfaceName
}

func (owner OwnerKey) String() string {
	return fmt.Sprintf("%s/%s", owner.ContainerID, owner.InterfaceName)
}

// Lease binds one address of a pool to one owner.
// A released lease is a tombstone: the record stays until the address is
// reserved again, so a duplicate release is a no-op rather than an error.
type Lease struct {
	PoolName string   `json:"poolName"`
	Address  string   `json:"address"`
	Owner    OwnerKey `json:"owner"`
	Seq      uint64   `json:"seq"`
	Released bool     `json:"released,omitempty"`
}

// Held tells whether the lease currently occupies its address.
func (lease Lease) Held() bool {
	return !lease.Released
}
