package hamt

import "github.com/pkg/errors"

// ErrKind distinguishes the failure kinds spec'd for this library: a
// contract violation (e.g. AssocStrict on an existing key) versus
// transient-lifecycle misuse (a mutating operation after publish).
type ErrKind int

const (
	// ErrContractViolation marks a precondition failure that left
	// the receiver's state unchanged.
	ErrContractViolation ErrKind = iota + 1
	// ErrTransientMisuse marks an Assoc or Dissoc on a Transient after
	// it has been published. Which goroutine makes the call is not
	// checked, so use from another goroutine is not reported.
	ErrTransientMisuse
)

func (k ErrKind) String() string {
	switch k {
	case ErrContractViolation:
		return "contract violation"
	case ErrTransientMisuse:
		return "transient misuse"
	default:
		return "unknown error kind"
	}
}

// Error is the error type returned by this package's own failures
// (as opposed to an error propagated from a caller-supplied conflict
// function or Key implementation).
type Error struct {
	Kind ErrKind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind ErrKind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, msg: msg})
}

// IsContractViolation reports whether err (or a cause wrapped by it)
// is a contract-violation Error, e.g. from AssocStrict.
func IsContractViolation(err error) bool {
	return hasKind(err, ErrContractViolation)
}

// IsTransientMisuse reports whether err (or a cause wrapped by it) is
// a transient-lifecycle Error.
func IsTransientMisuse(err error) bool {
	return hasKind(err, ErrTransientMisuse)
}

func hasKind(err error, kind ErrKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

var errKeyNotFound = newError(ErrContractViolation, "hamt: key not found")

// errAlreadyPresent is returned by AssocStrict when the key is
// already in the map.
func errAlreadyPresent(k Key) error {
	return newError(ErrContractViolation, "hamt: key already present: "+k.String())
}

var errTransientPublished = newError(ErrTransientMisuse, "hamt: transient used after Persistent()")

var errTransientNonOwner = newError(ErrTransientMisuse, "hamt: transient accessed by non-owner")
