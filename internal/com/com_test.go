package com

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCOMErrorString(t *testing.T) {
	e := &COMError{HResult: -2147221005, Description: "class string"}
	assert.Equal(t, "com error 0x800401f3: class string", e.Error())

	bare := &COMError{HResult: -2147221005}
	assert.Equal(t, "com error 0x800401f3", bare.Error())
}

func TestAsCOMError(t *testing.T) {
	e := &COMError{HResult: -1}

	got, ok := AsCOMError(e)
	require.True(t, ok)
	assert.Same(t, e, got)

	got, ok = AsCOMError(fmt.Errorf("calling: %w", e))
	require.True(t, ok)
	assert.Same(t, e, got)

	_, ok = AsCOMError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = AsCOMError(nil)
	assert.False(t, ok)
}
