package etcd

import (
	"context"

	"github.com/juju/errors"

	"github.com/coreos/etcd/clientv3"
	"github.com/projecteru2/spigot/store"
)

var errKeyIsBlank = errors.New("Key shouldn't be blank")

// Etcd .
type Etcd struct {
	cliv3 *clientv3.Client
}

// NewEtcdStore .
func NewEtcdStore(cliv3 *clientv3.Client) *Etcd {
	return &Etcd{cliv3}
}

// Get .
func (e *Etcd) Get(ctx context.Context, codec store.Codec) error {
	key := codec.Key()
	if key == "" {
		return errKeyIsBlank
	}
	resp, err := e.cliv3.Get(ctx, key)
	if err != nil {
		return err
	}
	if len(resp.Kvs) == 0 {
		return store.ErrKVNotExists
	}
	kv := resp.Kvs[0]
	if err = codec.Decode(string(kv.Value)); err != nil {
		return err
	}
	codec.SetVersion(kv.Version)
	return nil
}

// Put save a key value
func (e *Etcd) Put(ctx context.Context, codec store.Codec) error {
	var (
		key = codec.Key()
		val string
		err error
	)
	if key == "" {
		return errKeyIsBlank
	}
	if val, err = codec.Encode(); err != nil {
		return err
	}
	_, err = e.cliv3.Put(ctx, key, val)
	return err
}

// Create puts the value unless the key already exists.
func (e *Etcd) Create(ctx context.Context, codec store.Codec) error {
	var (
		key = codec.Key()
		val string
		err error
	)
	if key == "" {
		return errKeyIsBlank
	}
	if val, err = codec.Encode(); err != nil {
		return err
	}
	resp, err := e.cliv3.Txn(
		ctx,
	).If(
		clientv3.Compare(clientv3.Version(key), "=", 0),
	).Then(
		clientv3.OpPut(key, val),
	).Commit()
	if err != nil {
		return err
	}
	if !resp.Succeeded {
		return store.ErrKVExists
	}
	codec.SetVersion(1)
	return nil
}

// Update puts the value when the stored version is unchanged.
func (e *Etcd) Update(ctx context.Context, codec store.Codec) (bool, error) {
	var (
		key = codec.Key()
		val string
		err error
	)
	if key == "" {
		return false, errKeyIsBlank
	}
	if val, err = codec.Encode(); err != nil {
		return false, err
	}
	resp, err := e.cliv3.Txn(
		ctx,
	).If(
		clientv3.Compare(clientv3.Version(key), "=", codec.Version()),
	).Then(
		clientv3.OpPut(key, val),
	).Commit()
	if err != nil {
		return false, err
	}
	if resp.Succeeded {
		codec.SetVersion(codec.Version() + 1)
	}
	return resp.Succeeded, nil
}

// Delete delete key
func (e *Etcd) Delete(ctx context.Context, codec store.Codec) error {
	key := codec.Key()
	if key == "" {
		return errKeyIsBlank
	}
	resp, err := e.cliv3.Delete(ctx, key, clientv3.WithPrevKV())
	if err != nil {
		return err
	}
	if len(resp.PrevKvs) == 0 {
		return store.ErrKVNotExists
	}
	return nil
}

// List .
func (e *Etcd) List(ctx context.Context, codec store.MultiCodec) error {
	resp, err := e.cliv3.Get(ctx, codec.Prefix(), clientv3.WithPrefix())
	if err != nil {
		return err
	}
	for _, kv := range resp.Kvs {
		codec.Decode(string(kv.Value), kv.Version)
	}
	return nil
}
