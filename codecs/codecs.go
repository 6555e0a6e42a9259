package codecs

import (
	"encoding/json"
	"fmt"

	"github.com/projecteru2/spigot/types"
)

// PoolCodec .
type PoolCodec struct {
	Pool    *types.Pool
	version int64
}

// Key .
func (codec *PoolCodec) Key() string {
	if codec.Pool.Name == "" {
		return ""
	}
	return fmt.Sprintf("%s%s", PoolPrefix(), codec.Pool.Name)
}

// Encode .
func (codec *PoolCodec) Encode() (string, error) {
	return marshal(codec.Pool)
}

// Decode .
func (codec *PoolCodec) Decode(input string) error {
	return json.Unmarshal([]byte(input), codec.Pool)
}

// Version .
func (codec *PoolCodec) Version() int64 {
	return codec.version
}

// SetVersion .
func (codec *PoolCodec) SetVersion(version int64) {
	codec.version = version
}

// LeaseCodec .
type LeaseCodec struct {
	Lease   *types.Lease
	version int64
}

// Key .
func (codec *LeaseCodec) Key() string {
	if codec.Lease.PoolName == "" || codec.Lease.Address == "" {
		return ""
	}
	return fmt.Sprintf("%s%s", LeasePrefix(codec.Lease.PoolName), codec.Lease.Address)
}

// Encode .
func (codec *LeaseCodec) Encode() (string, error) {
	return marshal(codec.Lease)
}

// Decode .
func (codec *LeaseCodec) Decode(input string) error {
	return json.Unmarshal([]byte(input), codec.Lease)
}

// Version .
func (codec *LeaseCodec) Version() int64 {
	return codec.version
}

// SetVersion .
func (codec *LeaseCodec) SetVersion(version int64) {
	codec.version = version
}

// PoolPrefix is the key prefix holding every pool definition.
func PoolPrefix() string {
	return "/spigot/meta/pools/"
}

// LeasePrefix is the key prefix holding every lease record of a pool.
func LeasePrefix(poolName string) string {
	return fmt.Sprintf("/spigot/pools/%s/leases/", poolName)
}

// PoolMultiGetCodec collects every configured pool definition.
type PoolMultiGetCodec struct {
	Codecs []*PoolCodec
	Errors []error
}

// Prefix .
func (codec *PoolMultiGetCodec) Prefix() string {
	return PoolPrefix()
}

// Decode .
func (codec *PoolMultiGetCodec) Decode(val string, ver int64) {
	c := &PoolCodec{Pool: &types.Pool{}}
	if err := c.Decode(val); err != nil {
		codec.Errors = append(codec.Errors, err)
		return
	}
	c.SetVersion(ver)
	codec.Codecs = append(codec.Codecs, c)
}

// LeaseMultiGetCodec collects every lease record under a pool prefix.
type LeaseMultiGetCodec struct {
	PoolName string
	Codecs   []*LeaseCodec
	Errors   []error
}

// Prefix .
func (codec *LeaseMultiGetCodec) Prefix() string {
	return LeasePrefix(codec.PoolName)
}

// Decode .
func (codec *LeaseMultiGetCodec) Decode(val string, ver int64) {
	c := &LeaseCodec{Lease: &types.Lease{}}
	if err := c.Decode(val); err != nil {
		codec.Errors = append(codec.Errors, err)
		return
	}
	c.SetVersion(ver)
	codec.Codecs = append(codec.Codecs, c)
}

func marshal(src interface{}) (string, error) {
	bytes, err := json.Marshal(src)
	return string(bytes), err
}
