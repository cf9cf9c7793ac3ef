package cmc

import (
	"github.com/pawrequest/gommence/internal/com"
)

// RowSet is a batch of rows obtained from a cursor for querying,
// adding, editing, or deleting. Mutations accumulate in the row-set
// and take effect atomically on Commit.
type RowSet struct {
	obj com.Object
}

// RowCount returns the number of rows in the row-set.
func (rs *RowSet) RowCount() (int, error) {
	v, err := rs.obj.Get("RowCount")
	if err != nil {
		return 0, translateCOM("get RowCount", err)
	}
	return v.Int(), nil
}

// ColumnCount returns the number of columns in the row-set.
func (rs *RowSet) ColumnCount() (int, error) {
	v, err := rs.obj.Get("ColumnCount")
	if err != nil {
		return 0, translateCOM("get ColumnCount", err)
	}
	return v.Int(), nil
}

// ColumnLabel returns the label of the column at index col.
func (rs *RowSet) ColumnLabel(col int) (string, error) {
	v, err := rs.obj.Call("GetColumnLabel", col, 0)
	if err != nil {
		return "", translateCOM("get column label", err)
	}
	return v.String(), nil
}

// ColumnIndex returns the index of the column with the given label,
// or INVALID_ARG when no column matches.
func (rs *RowSet) ColumnIndex(label string) (int, error) {
	v, err := rs.obj.Call("GetColumnIndex", label, 0)
	if err != nil {
		return 0, translateCOM("get column index "+label, err)
	}
	idx := v.Int()
	if idx < 0 {
		return 0, &Error{Code: CodeInvalidArg, Message: "no column labelled " + label}
	}
	return idx, nil
}

// Headers returns every column label in column order.
func (rs *RowSet) Headers() ([]string, error) {
	n, err := rs.ColumnCount()
	if err != nil {
		return nil, err
	}
	headers := make([]string, n)
	for i := 0; i < n; i++ {
		headers[i], err = rs.ColumnLabel(i)
		if err != nil {
			return nil, err
		}
	}
	return headers, nil
}

// RowValue returns the cell at (row, col).
func (rs *RowSet) RowValue(row, col int) (string, error) {
	v, err := rs.obj.Call("GetRowValue", row, col, 0)
	if err != nil {
		return "", translateCOM("get row value", err)
	}
	return v.String(), nil
}

// RowID returns the opaque, stable ID of the row. IDs survive filter
// changes and are the preferred way to re-address a row.
func (rs *RowSet) RowID(row int) (string, error) {
	v, err := rs.obj.Call("GetRowID", row, 0)
	if err != nil {
		return "", translateCOM("get row id", err)
	}
	return v.String(), nil
}

// Row returns one row as a label-keyed map.
func (rs *RowSet) Row(row int) (map[string]string, error) {
	headers, err := rs.Headers()
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(headers))
	for col, label := range headers {
		fields[label], err = rs.RowValue(row, col)
		if err != nil {
			return nil, err
		}
	}
	return fields, nil
}

// Rows returns every row as a label-keyed map, in row order.
func (rs *RowSet) Rows() ([]map[string]string, error) {
	n, err := rs.RowCount()
	if err != nil {
		return nil, err
	}
	headers, err := rs.Headers()
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, n)
	for r := 0; r < n; r++ {
		fields := make(map[string]string, len(headers))
		for col, label := range headers {
			fields[label], err = rs.RowValue(r, col)
			if err != nil {
				return nil, err
			}
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// ModifyRow stages a new value for the cell at (row, col).
func (rs *RowSet) ModifyRow(row, col int, value string) error {
	v, err := rs.obj.Call("ModifyRow", row, col, value, 0)
	if err != nil {
		return translateCOM("modify row", err)
	}
	if !v.Bool() {
		return &Error{Code: CodeInvalidArg, Message: "modify rejected"}
	}
	return nil
}

// ModifyRowFields stages values by column label. Unknown labels fail
// before anything else is staged.
func (rs *RowSet) ModifyRowFields(row int, fields map[string]string) error {
	cols := make(map[string]int, len(fields))
	for label := range fields {
		idx, err := rs.ColumnIndex(label)
		if err != nil {
			return err
		}
		cols[label] = idx
	}
	for label, value := range fields {
		if err := rs.ModifyRow(row, cols[label], value); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRow marks the row for deletion on Commit.
func (rs *RowSet) DeleteRow(row int) error {
	v, err := rs.obj.Call("DeleteRow", row, 0)
	if err != nil {
		return translateCOM("delete row", err)
	}
	if !v.Bool() {
		return &Error{Code: CodeInvalidArg, Message: "delete rejected"}
	}
	return nil
}

// Commit applies all staged changes atomically. The vendor signals
// success with a zero return.
func (rs *RowSet) Commit() error {
	v, err := rs.obj.Call("Commit", 0)
	if err != nil {
		return translateCOM("commit", err)
	}
	if v.Int() != 0 {
		return &Error{Code: CodeCommitFailed, Message: "commit rejected by server"}
	}
	return nil
}

// CommitGetCursor applies all staged changes and returns a fresh
// cursor over the same category, positioned at the beginning.
func (rs *RowSet) CommitGetCursor() (*Cursor, error) {
	v, err := rs.obj.Call("CommitGetCursor", 0)
	if err != nil {
		return nil, translateCOM("commit", err)
	}
	obj, ok := v.Object()
	if !ok {
		return nil, &Error{Code: CodeCommitFailed, Message: "commit rejected by server"}
	}
	return &Cursor{obj: obj}, nil
}

// Close releases the COM reference without committing.
func (rs *RowSet) Close() {
	rs.obj.Release()
}
