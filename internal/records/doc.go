// Package records is the high-level record API over a Commence
// cursor: keyed reads, paged listing, create/update/delete/upsert, and
// filter management including temporary filter swapping.
//
// Records are string-keyed maps mirroring the product's schema-less
// column access. Rows are addressed either by their opaque row ID or
// by primary key, the value of column 0.
package records
