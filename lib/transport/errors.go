package transport

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorKind classifies endpoint construction failures.
type ErrorKind int

const (
	KindUnsupportedFamily ErrorKind = iota + 1
	KindListenDisabled
	KindSocketCreate
	KindCaptureConfig
	KindBind
	KindAddressResolution
	// KindAllocation completes the failure taxonomy. Go panics on a failed
	// allocation, so no constructor returns it.
	KindAllocation
	KindInvalidEncoding
)

var kindNames = map[ErrorKind]string{
	KindUnsupportedFamily: "unsupported address family",
	KindListenDisabled:    "listening support disabled",
	KindSocketCreate:      "socket creation failed",
	KindCaptureConfig:     "destination capture configuration failed",
	KindBind:              "bind failed",
	KindAddressResolution: "address resolution failed",
	KindAllocation:        "allocation failed",
	KindInvalidEncoding:   "invalid address encoding",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("transport error kind %d", int(k))
}

// Error is returned by every endpoint constructor. Errno is set for the
// kinds that originate in an OS call.
type Error struct {
	Kind  ErrorKind
	Op    string
	Errno syscall.Errno
	Err   error
}

// Sentinels for errors.Is. A sentinel matches any Error of the same kind.
var (
	ErrUnsupportedFamily = &Error{Kind: KindUnsupportedFamily}
	ErrListenDisabled    = &Error{Kind: KindListenDisabled}
	ErrSocketCreate      = &Error{Kind: KindSocketCreate}
	ErrCaptureConfig     = &Error{Kind: KindCaptureConfig}
	ErrBind              = &Error{Kind: KindBind}
	ErrAddressResolution = &Error{Kind: KindAddressResolution}
	ErrAllocation        = &Error{Kind: KindAllocation} // never produced, see KindAllocation
	ErrInvalidEncoding   = &Error{Kind: KindInvalidEncoding}
)

// Errors raised by the domain mux rather than by a single domain. The mux
// wraps them with oops, so match them with errors.Is. They are plain errors:
// an oops value used as a target matches every other oops error.
var (
	ErrUnknownDomain = errors.New("no transport domain registered for target")
	ErrEndpointLimit = errors.New("maximum number of open endpoints reached")
	ErrMuxClosed     = errors.New("transport mux is closed")
)

// NewError builds an Error of the given kind. When err carries a
// syscall.Errno it is recorded in Errno.
func NewError(kind ErrorKind, op string, err error) *Error {
	e := &Error{Kind: kind, Op: op, Err: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Errno = errno
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else if e.Errno != 0 {
		msg += ": " + e.Errno.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind, and on errno when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Errno == 0 || t.Errno == e.Errno
}

// KindOf reports the ErrorKind carried anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
