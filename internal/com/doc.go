// Package com provides a narrow binding to the COM automation objects
// exposed by the Commence desktop application.
//
// The package deliberately exposes only what the rest of the codebase
// needs from IDispatch: late-bound method calls and property reads. The
// Object and Value interfaces keep the OLE runtime behind a seam so that
// cursor and row-set logic can be driven by an in-memory fake in tests.
//
// All calls are synchronous and blocking. COM apartment rules apply:
// objects must be used from the thread that created them. Callers that
// need goroutine affinity should pin with runtime.LockOSThread before
// calling Startup.
package com
