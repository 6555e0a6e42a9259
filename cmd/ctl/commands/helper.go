package commands

import (
	"context"
	"strings"

	"github.com/juju/errors"

	"github.com/projecteru2/spigot/allocator"
	"github.com/projecteru2/spigot/etcd"
	"github.com/projecteru2/spigot/store"
	boltstore "github.com/projecteru2/spigot/store/bolt"
	etcdstore "github.com/projecteru2/spigot/store/etcd"
)

// Flags holds the store selection shared by every subcommand.
type Flags struct {
	StoreKind     string
	BoltPath      string
	EtcdEndpoints string
}

func newAllocator(ctx context.Context, flags *Flags) (allocator.Allocator, error) {
	stor, err := newStore(ctx, flags)
	if err != nil {
		return nil, err
	}
	return allocator.NewAllocator(stor), nil
}

func newStore(ctx context.Context, flags *Flags) (store.Store, error) {
	switch flags.StoreKind {
	case "bolt":
		return boltstore.NewBolt(flags.BoltPath)
	case "etcd":
		cli, err := etcd.NewClient(ctx, strings.Split(flags.EtcdEndpoints, ","))
		if err != nil {
			return nil, err
		}
		return etcdstore.NewEtcdStore(cli), nil
	default:
		return nil, errors.Errorf("unknown store kind %q", flags.StoreKind)
	}
}
