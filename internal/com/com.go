package com

import (
	"errors"
	"fmt"
)

// Object is a late-bound COM automation object.
//
// Call invokes a method by name, Get reads a property by name. Both
// return a Value that converts to the Go type the caller expects.
// Release frees the underlying COM reference; the Object must not be
// used afterwards.
type Object interface {
	Call(method string, args ...any) (Value, error)
	Get(property string) (Value, error)
	Release()
}

// Value is the result of a COM method call or property read.
type Value interface {
	// String returns the value as a string, or "" when the variant
	// holds no string representation.
	String() string
	// Int returns the value as an int, or 0.
	Int() int
	// Bool returns the value as a bool, or false.
	Bool() bool
	// Object returns the value as a nested dispatch object. The second
	// return is false when the variant does not hold an object.
	Object() (Object, bool)
}

// COMError carries the HRESULT of a failed COM invocation across the
// Object seam, so callers can map vendor-specific failure codes without
// depending on the OLE runtime.
type COMError struct {
	HResult     int32
	Description string
}

func (e *COMError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("com error %#x: %s", uint32(e.HResult), e.Description)
	}
	return fmt.Sprintf("com error %#x", uint32(e.HResult))
}

// AsCOMError extracts a COMError from err, unwrapping as needed.
func AsCOMError(err error) (*COMError, bool) {
	var ce *COMError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
