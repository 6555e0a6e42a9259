package utils

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBelongs(t *testing.T) {
	ok, err := Belongs("10.0.0.5", "10.0.0.0/24")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Belongs("10.0.1.5", "10.0.0.0/24")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Belongs("banana", "10.0.0.0/24")
	assert.Error(t, err)

	_, err = Belongs("10.0.0.5", "banana")
	assert.Error(t, err)
}

func TestNetworkAndBroadcast(t *testing.T) {
	_, subnet, err := net.ParseCIDR("10.0.0.128/26")
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.128", NetworkAddress(subnet).String())
	assert.Equal(t, "10.0.0.191", BroadcastAddress(subnet).String())
}

func TestNextIP(t *testing.T) {
	assert.Equal(t, "10.0.0.2", NextIP(net.ParseIP("10.0.0.1").To4()).String())
	assert.Equal(t, "10.0.1.0", NextIP(net.ParseIP("10.0.0.255").To4()).String())

	original := net.ParseIP("10.0.0.1").To4()
	_ = NextIP(original)
	assert.Equal(t, "10.0.0.1", original.String(), "argument must not be mutated")
}

func TestIsIPv4(t *testing.T) {
	assert.True(t, IsIPv4(net.ParseIP("10.0.0.1")))
	assert.False(t, IsIPv4(net.ParseIP("fd00::1")))
}
