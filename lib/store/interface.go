package store

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("LocalDataError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// IsCode reports whether err (or an error it wraps) is an *Error with the given code.
func IsCode(err error, code RetCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess           RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                    // 1: Operation failed due to an internal error.
	RetCUnsupportedType                  // 2: The value type is not part of the registry.
	RetCMalformedSnapshot                // 3: A snapshot could not be decoded or its sections are inconsistent.
	RetCDecryptFailure                   // 4: The cryptographer returned the blank failure sentinel.
	RetCTypeMismatch                     // 5: A value does not match the type of the addressed store.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedType:
		return "UnsupportedType"
	case RetCMalformedSnapshot:
		return "MalformedSnapshot"
	case RetCDecryptFailure:
		return "DecryptFailure"
	case RetCTypeMismatch:
		return "TypeMismatch"
	default:
		return "Unknown"
	}
}
