// Package testutil provides an in-memory fake of the Commence COM
// automation surface, implementing com.Object for the database,
// cursor, row-set, and conversation objects.
//
// The fake parses the ViewFilter, ViewConjunction, and ViewSort
// strings the production code renders, so filter behavior round-trips
// through the real DSL. Field comparison is case-insensitive, matching
// the product. Row IDs are opaque uuids.
//
// Supported filter kinds are F and CTI; the connected-field kinds
// (CTCF, CTCTI) parse but match no rows.
package testutil
