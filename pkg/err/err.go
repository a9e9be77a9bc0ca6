package errprocess

import (
	"errors"
	"fmt"

	"chat_backend_service/pkg/logger"
)

// Kind classifies an operation failure.
type Kind int

const (
	// KindInternal unexpected failure (store round-trip, encoding)
	KindInternal Kind = iota
	// KindInvalidArgument malformed id or enum value, rejected synchronously
	KindInvalidArgument
	// KindNotFound chat/message/user absent
	KindNotFound
	// KindConflict duplicate membership, joining a private chat
	KindConflict
)

// Error carries a Kind so boundaries can map failures to status codes.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// NewInvalidArgument build an InvalidArgument error
func NewInvalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// NewNotFound build a NotFound error
func NewNotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// NewConflict build a Conflict error
func NewConflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of err, KindInternal when untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsInvalidArgument report err kind
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

// IsNotFound report err kind
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict report err kind
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
