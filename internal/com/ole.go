package com

import (
	"errors"
	"fmt"
	"sync"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

var startupOnce sync.Once

// Startup initializes the COM apartment for the calling thread. Safe to
// call more than once; only the first call does the initialization.
func Startup() {
	startupOnce.Do(func() {
		// S_FALSE (already initialized) is returned as an error by
		// go-ole; either way the apartment is usable.
		_ = ole.CoInitialize(0)
	})
}

// Bind attaches to a COM automation server by ProgID and returns its
// IDispatch interface as an Object.
func Bind(progID string) (Object, error) {
	Startup()
	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return nil, fmt.Errorf("create object %q: %w", progID, translate(err))
	}
	dispatch, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		unknown.Release()
		return nil, fmt.Errorf("query IDispatch on %q: %w", progID, translate(err))
	}
	return &oleObject{dispatch: dispatch}, nil
}

// oleObject adapts *ole.IDispatch to the Object interface.
type oleObject struct {
	dispatch *ole.IDispatch
}

func (o *oleObject) Call(method string, args ...any) (Value, error) {
	v, err := oleutil.CallMethod(o.dispatch, method, args...)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, translate(err))
	}
	return oleValue{v: v}, nil
}

func (o *oleObject) Get(property string) (Value, error) {
	v, err := oleutil.GetProperty(o.dispatch, property)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", property, translate(err))
	}
	return oleValue{v: v}, nil
}

func (o *oleObject) Release() {
	o.dispatch.Release()
}

// oleValue adapts *ole.VARIANT to the Value interface.
type oleValue struct {
	v *ole.VARIANT
}

func (v oleValue) String() string {
	return v.v.ToString()
}

func (v oleValue) Int() int {
	switch val := v.v.Value().(type) {
	case int64:
		return int(val)
	case int32:
		return int(val)
	case int16:
		return int(val)
	case int8:
		return int(val)
	case int:
		return val
	default:
		return int(v.v.Val)
	}
}

func (v oleValue) Bool() bool {
	b, ok := v.v.Value().(bool)
	if !ok {
		// Some servers report booleans as VT_I4.
		return v.v.Val != 0
	}
	return b
}

func (v oleValue) Object() (Object, bool) {
	d := v.v.ToIDispatch()
	if d == nil {
		return nil, false
	}
	return &oleObject{dispatch: d}, true
}

// translate converts OLE runtime errors into COMError so the HRESULT
// survives the Object seam.
func translate(err error) error {
	var oe *ole.OleError
	if errors.As(err, &oe) {
		return &COMError{
			HResult:     int32(uint32(oe.Code())),
			Description: oe.Description(),
		}
	}
	return err
}
