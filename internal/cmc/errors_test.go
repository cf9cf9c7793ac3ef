package cmc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawrequest/gommence/internal/com"
)

func TestErrorString(t *testing.T) {
	e := &Error{Code: CodeNotFound, Message: "no row"}
	assert.Equal(t, "NOT_FOUND: no row", e.Error())

	e.Category = "Contact"
	assert.Equal(t, "NOT_FOUND: no row (category=Contact)", e.Error())
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	e := &Error{Code: CodeCOMFailure, Message: "call", Err: inner}

	assert.ErrorIs(t, e, inner)
}

func TestErrorPredicates(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NewNotFound("Contact", "Bob"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsDuplicate(wrapped))
	assert.False(t, IsTooMany(wrapped))

	assert.True(t, IsDuplicate(NewDuplicate("Contact", "Bob")))
	assert.True(t, IsTooMany(NewTooMany("Contact", "Bob", 2)))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestNewNotFound(t *testing.T) {
	e := NewNotFound("Contact", "Bob")
	assert.Equal(t, CodeNotFound, e.Code)
	assert.Equal(t, "Contact", e.Category)
	assert.Contains(t, e.Message, `"Bob"`)
}

func TestTranslateCOM_ClassString(t *testing.T) {
	err := translateCOM("connect to Commence.DB", &com.COMError{HResult: hresultClassString})

	assert.Equal(t, CodeConnectFailed, err.Code)
	assert.Equal(t, int32(hresultClassString), err.HResult)
	assert.Contains(t, err.Message, "does the database exist")
}

func TestTranslateCOM_Duplicate(t *testing.T) {
	err := translateCOM("commit", &com.COMError{HResult: hresultDuplicate})

	assert.Equal(t, CodeDuplicate, err.Code)
	assert.True(t, IsDuplicate(err))
}

func TestTranslateCOM_Generic(t *testing.T) {
	err := translateCOM("get cursor", &com.COMError{HResult: -2147352567, Description: "bad name"})

	assert.Equal(t, CodeCOMFailure, err.Code)
	assert.Equal(t, int32(-2147352567), err.HResult)
}

func TestTranslateCOM_NonCOMError(t *testing.T) {
	inner := errors.New("EOF")
	err := translateCOM("read", inner)

	assert.Equal(t, CodeCOMFailure, err.Code)
	assert.Zero(t, err.HResult)
	require.ErrorIs(t, err, inner)
}
