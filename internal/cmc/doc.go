// Package cmc wraps the Commence database COM object model: the
// database handle, cursors over categories and saved views, and the
// row-sets used to query and mutate records.
//
// Every method is a thin translation to one or two COM calls. The
// package owns no data: cursors and row-sets are proxies around COM
// object handles whose lifetime is bounded by the Commence process.
// Failures surface immediately as *Error with a structured code; there
// are no retries.
//
// Connections are cached per ProgID for the life of the process, since
// each handle represents a stateful attachment to the running desktop
// application.
package cmc
