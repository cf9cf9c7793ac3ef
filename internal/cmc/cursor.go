package cmc

import (
	"github.com/pawrequest/gommence/internal/com"
)

// Cursor is a queryable, filterable window over a Commence category or
// saved view. It is a proxy around a COM object owned by the Commence
// process; Close releases the reference.
type Cursor struct {
	obj         com.Object
	rowSetFlags int
}

// UseCanonical makes subsequent row-sets return field data in
// canonical form: dates as yyyymmdd, times as hh:mm. The flag belongs
// to the row-set calls, not to cursor creation.
func (c *Cursor) UseCanonical(on bool) {
	if on {
		c.rowSetFlags = int(FlagCanonical)
	} else {
		c.rowSetFlags = 0
	}
}

// Category returns the name of the underlying category.
func (c *Cursor) Category() (string, error) {
	v, err := c.obj.Get("Category")
	if err != nil {
		return "", translateCOM("get Category", err)
	}
	return v.String(), nil
}

// RowCount returns the number of rows currently visible through the
// cursor, after any active filters.
func (c *Cursor) RowCount() (int, error) {
	v, err := c.obj.Get("RowCount")
	if err != nil {
		return 0, translateCOM("get RowCount", err)
	}
	return v.Int(), nil
}

// ColumnCount returns the number of columns in the cursor.
func (c *Cursor) ColumnCount() (int, error) {
	v, err := c.obj.Get("ColumnCount")
	if err != nil {
		return 0, translateCOM("get ColumnCount", err)
	}
	return v.Int(), nil
}

// Shared reports whether the underlying database is enrolled in a
// workgroup.
func (c *Cursor) Shared() (bool, error) {
	v, err := c.obj.Get("Shared")
	if err != nil {
		return false, translateCOM("get Shared", err)
	}
	return v.Bool(), nil
}

// SetFilter applies one rendered ViewFilter clause. The server rejects
// malformed clauses by returning false, surfaced here as INVALID_ARG.
func (c *Cursor) SetFilter(clause string) error {
	v, err := c.obj.Call("SetFilter", clause, 0)
	if err != nil {
		return translateCOM("set filter", err)
	}
	if !v.Bool() {
		return &Error{Code: CodeInvalidArg, Message: "filter rejected: " + clause}
	}
	return nil
}

// SetFilterLogic applies a rendered ViewConjunction clause.
func (c *Cursor) SetFilterLogic(clause string) error {
	v, err := c.obj.Call("SetLogic", clause, 0)
	if err != nil {
		return translateCOM("set filter logic", err)
	}
	if !v.Bool() {
		return &Error{Code: CodeInvalidArg, Message: "filter logic rejected: " + clause}
	}
	return nil
}

// SetSort applies a rendered ViewSort clause.
func (c *Cursor) SetSort(clause string) error {
	v, err := c.obj.Call("SetSort", clause, 0)
	if err != nil {
		return translateCOM("set sort", err)
	}
	if !v.Bool() {
		return &Error{Code: CodeInvalidArg, Message: "sort rejected: " + clause}
	}
	return nil
}

// SetColumn maps a direct field of the category to a cursor column.
func (c *Cursor) SetColumn(col int, field string) error {
	v, err := c.obj.Call("SetColumn", col, field, 0)
	if err != nil {
		return translateCOM("set column "+field, err)
	}
	if !v.Bool() {
		return &Error{Code: CodeInvalidArg, Message: "set column rejected: " + field}
	}
	return nil
}

// SetRelatedColumn maps a field reached through a connection to a
// cursor column.
func (c *Cursor) SetRelatedColumn(col int, connection, category, field string) error {
	v, err := c.obj.Call("SetRelatedColumn", col, connection, category, field, 0)
	if err != nil {
		return translateCOM("set related column "+field, err)
	}
	if !v.Bool() {
		return &Error{Code: CodeInvalidArg, Message: "set related column rejected: " + connection + " " + category + " " + field}
	}
	return nil
}

// SeekRow moves the current row pointer n rows from the given origin
// and returns the number of rows actually moved.
func (c *Cursor) SeekRow(origin SeekOrigin, n int) (int, error) {
	v, err := c.obj.Call("SeekRow", int(origin), n)
	if err != nil {
		return 0, translateCOM("seek row", err)
	}
	return v.Int(), nil
}

// SeekRowApprox moves the current row pointer to approximately
// numerator/denominator of the way through the row set.
func (c *Cursor) SeekRowApprox(numerator, denominator int) (int, error) {
	v, err := c.obj.Call("SeekRowApprox", numerator, denominator)
	if err != nil {
		return 0, translateCOM("seek row approx", err)
	}
	return v.Int(), nil
}

// QueryRowSet returns a read-only row-set of up to limit rows starting
// at the current row pointer.
func (c *Cursor) QueryRowSet(limit int) (*RowSet, error) {
	return c.rowSet("GetQueryRowSet", limit)
}

// QueryRowSetByID returns a read-only row-set holding the single row
// with the given row ID.
func (c *Cursor) QueryRowSetByID(id string) (*RowSet, error) {
	return c.rowSetByID("GetQueryRowSetByID", id)
}

// AddRowSet returns a row-set of limit blank rows to fill in and
// commit.
func (c *Cursor) AddRowSet(limit int) (*RowSet, error) {
	return c.rowSet("GetAddRowSet", limit)
}

// EditRowSet returns a writable row-set of up to limit rows starting
// at the current row pointer.
func (c *Cursor) EditRowSet(limit int) (*RowSet, error) {
	return c.rowSet("GetEditRowSet", limit)
}

// EditRowSetByID returns a writable row-set holding the single row
// with the given row ID.
func (c *Cursor) EditRowSetByID(id string) (*RowSet, error) {
	return c.rowSetByID("GetEditRowSetByID", id)
}

// DeleteRowSet returns a row-set of up to limit rows to mark for
// deletion and commit.
func (c *Cursor) DeleteRowSet(limit int) (*RowSet, error) {
	return c.rowSet("GetDeleteRowSet", limit)
}

// DeleteRowSetByID returns a deletion row-set holding the single row
// with the given row ID.
func (c *Cursor) DeleteRowSetByID(id string) (*RowSet, error) {
	return c.rowSetByID("GetDeleteRowSetByID", id)
}

func (c *Cursor) rowSet(method string, limit int) (*RowSet, error) {
	v, err := c.obj.Call(method, limit, c.rowSetFlags)
	if err != nil {
		return nil, translateCOM(method, err)
	}
	obj, ok := v.Object()
	if !ok {
		return nil, &Error{Code: CodeCOMFailure, Message: method + " returned no object"}
	}
	return &RowSet{obj: obj}, nil
}

func (c *Cursor) rowSetByID(method, id string) (*RowSet, error) {
	v, err := c.obj.Call(method, id, c.rowSetFlags)
	if err != nil {
		return nil, translateCOM(method, err)
	}
	obj, ok := v.Object()
	if !ok {
		return nil, &Error{Code: CodeCOMFailure, Message: method + " returned no object"}
	}
	return &RowSet{obj: obj}, nil
}

// Close releases the COM reference. The cursor must not be used
// afterwards.
func (c *Cursor) Close() {
	c.obj.Release()
}
