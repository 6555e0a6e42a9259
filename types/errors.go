package types

import "github.com/juju/errors"

var (
	// ErrPoolNotFound .
	ErrPoolNotFound = errors.New("pool is not configured")
	// ErrPoolExhausted .
	ErrPoolExhausted = errors.New("no allocatable address left in pool")
	// ErrLeaseNotFound .
	ErrLeaseNotFound = errors.New("lease not found")
	// ErrOwnerMismatch .
	ErrOwnerMismatch = errors.New("lease is held by another owner")
	// ErrLeaseMismatch .
	ErrLeaseMismatch = errors.New("recorded lease differs from reported address")
	// ErrStoreUnavailable .
	ErrStoreUnavailable = errors.New("lease store is unavailable")
	// ErrInvalidPool .
	ErrInvalidPool = errors.New("invalid pool definition")
	// ErrInvalidOwner .
	ErrInvalidOwner = errors.New("owner key must carry container id and interface name")
)
