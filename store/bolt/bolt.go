package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "github.com/coreos/bbolt"

	"github.com/projecteru2/spigot/store"
)

var bucketName = []byte("spigot")

var errKeyIsBlank = errors.New("Key shouldn't be blank")

// Bolt is an embedded Store backend.
// Every mutation runs in a single bbolt write transaction, which is
// fsync'ed before Update/Put/Create/Delete return, so a successful
// commit survives a crash and a failed one leaves no trace.
type Bolt struct {
	db *bolt.DB
}

// record is the stored envelope; the version drives conditional writes.
type record struct {
	Version int64  `json:"version"`
	Value   string `json:"value"`
}

// NewBolt opens (and if needed creates) the store file.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil && !os.IsExist(err) {
		return nil, errors.WithStack(err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Bolt{db: db}, nil
}

// Close .
func (b *Bolt) Close() error {
	return errors.WithStack(b.db.Close())
}

// Get .
func (b *Bolt) Get(_ context.Context, codec store.Codec) error {
	key := codec.Key()
	if key == "" {
		return errKeyIsBlank
	}
	return b.db.View(func(tx *bolt.Tx) error {
		rec, err := get(tx, key)
		if err != nil {
			return err
		}
		if err := codec.Decode(rec.Value); err != nil {
			return errors.WithStack(err)
		}
		codec.SetVersion(rec.Version)
		return nil
	})
}

// Put .
func (b *Bolt) Put(_ context.Context, codec store.Codec) error {
	key := codec.Key()
	if key == "" {
		return errKeyIsBlank
	}
	val, err := codec.Encode()
	if err != nil {
		return errors.WithStack(err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		version := int64(1)
		if rec, err := get(tx, key); err == nil {
			version = rec.Version + 1
		} else if !store.IsNotExists(err) {
			return err
		}
		if err := put(tx, key, record{Version: version, Value: val}); err != nil {
			return err
		}
		codec.SetVersion(version)
		return nil
	})
}

// Create .
func (b *Bolt) Create(_ context.Context, codec store.Codec) error {
	key := codec.Key()
	if key == "" {
		return errKeyIsBlank
	}
	val, err := codec.Encode()
	if err != nil {
		return errors.WithStack(err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		if _, err := get(tx, key); err == nil {
			return store.ErrKVExists
		} else if !store.IsNotExists(err) {
			return err
		}
		if err := put(tx, key, record{Version: 1, Value: val}); err != nil {
			return err
		}
		codec.SetVersion(1)
		return nil
	})
}

// Update .
func (b *Bolt) Update(_ context.Context, codec store.Codec) (bool, error) {
	key := codec.Key()
	if key == "" {
		return false, errKeyIsBlank
	}
	val, err := codec.Encode()
	if err != nil {
		return false, errors.WithStack(err)
	}
	ok := false
	err = b.db.Update(func(tx *bolt.Tx) error {
		rec, err := get(tx, key)
		if err != nil {
			if store.IsNotExists(err) {
				return nil
			}
			return err
		}
		if rec.Version != codec.Version() {
			return nil
		}
		if err := put(tx, key, record{Version: rec.Version + 1, Value: val}); err != nil {
			return err
		}
		codec.SetVersion(rec.Version + 1)
		ok = true
		return nil
	})
	return ok, err
}

// Delete .
func (b *Bolt) Delete(_ context.Context, codec store.Codec) error {
	key := codec.Key()
	if key == "" {
		return errKeyIsBlank
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket.Get([]byte(key)) == nil {
			return store.ErrKVNotExists
		}
		return errors.WithStack(bucket.Delete([]byte(key)))
	})
}

// List .
func (b *Bolt) List(_ context.Context, codec store.MultiCodec) error {
	prefix := []byte(codec.Prefix())
	return b.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(bucketName).Cursor()
		for k, v := cursor.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cursor.Next() {
			rec := record{}
			if err := json.Unmarshal(v, &rec); err != nil {
				return errors.WithStack(err)
			}
			codec.Decode(rec.Value, rec.Version)
		}
		return nil
	})
}

func get(tx *bolt.Tx, key string) (record, error) {
	rec := record{}
	raw := tx.Bucket(bucketName).Get([]byte(key))
	if raw == nil {
		return rec, store.ErrKVNotExists
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, errors.WithStack(err)
	}
	return rec, nil
}

func put(tx *bolt.Tx, key string, rec record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(tx.Bucket(bucketName).Put([]byte(key), raw))
}
