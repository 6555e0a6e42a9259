package cni

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/projecteru2/spigot/types"
)

// Command .
type Command string

const (
	// CommandAdd .
	CommandAdd Command = "ADD"
	// CommandDel .
	CommandDel Command = "DEL"
	// CommandCheck .
	CommandCheck Command = "CHECK"
)

// Request is the attach/detach call the runtime hands us.
type Request struct {
	Command  Command        `json:"command"`
	PoolName string         `json:"poolName"`
	Owner    types.OwnerKey `json:"ownerKey"`
	// ReportedAddress is what the caller believes it holds; CHECK only.
	ReportedAddress string `json:"reportedAddress,omitempty"`
}

// Result .
type Result struct {
	Address      string `json:"address"`
	PrefixLength int    `json:"prefixLength"`
	Gateway      string `json:"gateway,omitempty"`
}

// ErrorKind .
type ErrorKind string

const (
	// KindNotFound covers unknown pools and missing leases; retrying
	// without operator action is pointless.
	KindNotFound ErrorKind = "NotFound"
	// KindPoolExhausted .
	KindPoolExhausted ErrorKind = "PoolExhausted"
	// KindOwnerMismatch .
	KindOwnerMismatch ErrorKind = "OwnerMismatch"
	// KindLeaseMismatch .
	KindLeaseMismatch ErrorKind = "LeaseMismatch"
	// KindStoreUnavailable marks a durability layer failure; the request
	// may be retried safely.
	KindStoreUnavailable ErrorKind = "StoreUnavailable"
)

// Error is the structured failure surface of the handler.
type Error struct {
	Kind    ErrorKind `json:"errorKind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// WrapError classifies a domain error into the wire taxonomy.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}
	if wrapped, ok := err.(*Error); ok {
		return wrapped
	}
	kind := KindStoreUnavailable
	switch errors.Cause(err) {
	case types.ErrPoolNotFound, types.ErrLeaseNotFound:
		kind = KindNotFound
	case types.ErrPoolExhausted:
		kind = KindPoolExhausted
	case types.ErrOwnerMismatch:
		kind = KindOwnerMismatch
	case types.ErrLeaseMismatch:
		kind = KindLeaseMismatch
	}
	return &Error{Kind: kind, Message: err.Error()}
}
