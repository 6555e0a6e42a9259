package store

import (
	"context"

	"github.com/juju/errors"
)

var (
	// ErrKVNotExists .
	ErrKVNotExists = errors.New("KV not exists")

	// ErrKVExists .
	ErrKVExists = errors.New("KV already exists")
)

// IsNotExists .
func IsNotExists(err error) bool {
	return errors.Cause(err) == ErrKVNotExists
}

// IsExists .
func IsExists(err error) bool {
	return errors.Cause(err) == ErrKVExists
}

// Codec .
type Codec interface {
	Key() string
	Encode() (string, error)
	Decode(string) error
	Version() int64
	SetVersion(int64)
}

// MultiCodec decodes every record under a key prefix.
type MultiCodec interface {
	Prefix() string
	Decode(value string, version int64)
}

// Store is the durable record of pools and leases.
// A mutation either fully applies before the call returns or not at all;
// a read after a successful mutation observes the new state.
type Store interface {
	Get(ctx context.Context, codec Codec) error
	Put(ctx context.Context, codec Codec) error
	// Create writes the record only when the key does not exist yet,
	// failing with ErrKVExists otherwise.
	Create(ctx context.Context, codec Codec) error
	// Update writes the record only when the stored version still matches
	// codec.Version(); returns false when another writer got there first.
	Update(ctx context.Context, codec Codec) (bool, error)
	Delete(ctx context.Context, codec Codec) error
	List(ctx context.Context, codec MultiCodec) error
}
