// Package filters models Commence's ViewFilter mini-language.
//
// Commence cursors are constrained by passing literal filter strings to
// the SetFilter COM method. The syntax is fixed by the vendor:
//
//	[ViewFilter(slot,KIND,NOT,args...)]
//
// where slot is 1..8, KIND tags the filter variant (F for a field
// filter, CTI/CTCF/CTCTI for connection filters), NOT is "Not" or
// empty, and the remaining arguments depend on the kind. Conjunction
// logic and sorting use the sibling [ViewConjunction(...)] and
// [ViewSort(...)] forms.
//
// This package holds structured filter values and renders them to the
// exact vendor syntax. Rendering is byte-stable: the same inputs always
// produce the same string, and values are NFC-normalized before
// quoting.
package filters
