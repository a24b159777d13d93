package response

import (
	"errors"
)

type Error struct {
	Code int
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

// NewKindError tags the error with a stable machine-readable kind that is
// echoed in command results and API payloads.
func NewKindError(code int, kind string, err string) error {
	return &Error{Code: code, Kind: kind, Err: errors.New(err)}
}

// KindOf extracts the machine-readable kind from an error, or "internal"
// when the error carries none.
func KindOf(err error) string {
	var respErr *Error
	if errors.As(err, &respErr) && respErr.Kind != "" {
		return respErr.Kind
	}
	return "internal"
}
