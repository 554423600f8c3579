// Package cerr carries the error kinds the services surface to transport.
package cerr

import (
	"errors"
	"fmt"
)

type Error struct {
	Code Code
	Msg  string // returned to the caller together with Code
	Err  error  // logged, never returned to the caller
}

func NewError(code Code, msg string, underlying error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  underlying,
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Msg, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Internalf wraps an infrastructure failure. The formatted message is kept for logs only.
func Internalf(format string, args ...any) *Error {
	return NewError(Internal, "server error", fmt.Errorf(format, args...))
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first *Error in err's chain, Internal for any other
// non-nil error and OK for nil.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return Internal
}
