package xtn

import (
	"reflect"

	xerrors "github.com/KimNorgaard/go-xtn/errors"
)

// ParseError is the error returned for malformed documents.
type ParseError = xerrors.ParseError

// A MarshalerError represents an error from calling a MarshalXTN or
// MarshalText method.
type MarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *MarshalerError) Error() string {
	return "xtn: error calling MarshalXTN for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *MarshalerError) Unwrap() error { return e.Err }

// An UnmarshalerError represents an error from calling an UnmarshalXTN or
// UnmarshalText method.
type UnmarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "xtn: error calling UnmarshalXTN for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }
