package cni

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/spigot/allocator"
	boltstore "github.com/projecteru2/spigot/store/bolt"
	"github.com/projecteru2/spigot/types"
)

func newTestHandler(t *testing.T, pools ...types.Pool) *Handler {
	stor, err := boltstore.NewBolt(filepath.Join(t.TempDir(), "spigot.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = stor.Close()
	})

	alloc := allocator.NewAllocator(stor)
	for _, pool := range pools {
		require.NoError(t, alloc.RegisterPool(context.Background(), pool))
	}
	return NewHandler(alloc)
}

func addRequest(pool string, container string) Request {
	return Request{
		Command:  CommandAdd,
		PoolName: pool,
		Owner:    types.OwnerKey{ContainerID: container, InterfaceName: "eth0"},
	}
}

func TestAddReturnsAddressPrefixAndGateway(t *testing.T) {
	handler := newTestHandler(t, types.Pool{
		Name:    "pool0",
		CIDR:    "10.0.0.0/24",
		Gateway: "10.0.0.1",
	})

	result, err := handler.Add(context.Background(), addRequest("pool0", "c1"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", result.Address)
	assert.Equal(t, 24, result.PrefixLength)
	assert.Equal(t, "10.0.0.1", result.Gateway)
}

func TestAddIsIdempotent(t *testing.T) {
	handler := newTestHandler(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	first, err := handler.Add(ctx, addRequest("pool0", "c1"))
	require.NoError(t, err)
	second, err := handler.Add(ctx, addRequest("pool0", "c1"))
	require.NoError(t, err)
	assert.Equal(t, first.Address, second.Address)
}

func TestAddExhaustionKind(t *testing.T) {
	handler := newTestHandler(t, types.Pool{
		Name:    "tiny",
		CIDR:    "10.0.0.0/30",
		Gateway: "10.0.0.1",
	})
	ctx := context.Background()

	_, err := handler.Add(ctx, addRequest("tiny", "c1"))
	require.NoError(t, err)

	_, err = handler.Add(ctx, addRequest("tiny", "c2"))
	require.Error(t, err)
	wireErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindPoolExhausted, wireErr.Kind)
}

func TestAddUnknownPoolKind(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Add(context.Background(), addRequest("nosuch", "c1"))
	require.Error(t, err)
	wireErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, wireErr.Kind)
}

func TestDelIsIdempotent(t *testing.T) {
	handler := newTestHandler(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	// a DEL without any prior ADD is success, not an error
	request := addRequest("pool0", "c1")
	request.Command = CommandDel
	require.NoError(t, handler.Del(ctx, request))

	_, err := handler.Add(ctx, addRequest("pool0", "c1"))
	require.NoError(t, err)
	require.NoError(t, handler.Del(ctx, request))
	require.NoError(t, handler.Del(ctx, request))
}

func TestDelFreesTheAddress(t *testing.T) {
	handler := newTestHandler(t, types.Pool{
		Name:    "tiny",
		CIDR:    "10.0.0.0/30",
		Gateway: "10.0.0.1",
	})
	ctx := context.Background()

	first, err := handler.Add(ctx, addRequest("tiny", "c1"))
	require.NoError(t, err)

	delRequest := addRequest("tiny", "c1")
	delRequest.Command = CommandDel
	require.NoError(t, handler.Del(ctx, delRequest))

	second, err := handler.Add(ctx, addRequest("tiny", "c2"))
	require.NoError(t, err)
	assert.Equal(t, first.Address, second.Address)
}

func TestCheck(t *testing.T) {
	handler := newTestHandler(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	request := addRequest("pool0", "c1")
	request.Command = CommandCheck

	// nothing recorded yet
	err := handler.Check(ctx, request)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, err.(*Error).Kind)

	result, err := handler.Add(ctx, addRequest("pool0", "c1"))
	require.NoError(t, err)

	request.ReportedAddress = result.Address
	assert.NoError(t, handler.Check(ctx, request))

	request.ReportedAddress = "10.0.0.254"
	err = handler.Check(ctx, request)
	require.Error(t, err)
	assert.Equal(t, KindLeaseMismatch, err.(*Error).Kind)
}

func TestHandleDispatch(t *testing.T) {
	handler := newTestHandler(t, types.Pool{Name: "pool0", CIDR: "10.0.0.0/24"})
	ctx := context.Background()

	result, err := handler.Handle(ctx, addRequest("pool0", "c1"))
	require.NoError(t, err)
	require.NotNil(t, result)

	_, err = handler.Handle(ctx, Request{Command: Command("BOGUS"), PoolName: "pool0"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, err.(*Error).Kind)
}
