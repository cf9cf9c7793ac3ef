package testutil

import (
	"fmt"

	"github.com/pawrequest/gommence/internal/com"
)

type rowSetKind int

const (
	kindQuery rowSetKind = iota
	kindAdd
	kindEdit
	kindDelete
)

// rowSet is the fake row-set dispatch object. Mutations are staged and
// applied to the table on Commit, the way the real server batches
// them.
type rowSet struct {
	table   *table
	kind    rowSetKind
	rows    []*row
	staged  map[int]map[int]string
	deleted map[int]bool
}

func (rs *rowSet) Get(property string) (com.Value, error) {
	switch property {
	case "RowCount":
		return val{len(rs.rows)}, nil
	case "ColumnCount":
		return val{len(rs.table.columns)}, nil
	default:
		return nil, fmt.Errorf("fake rowset: unknown property %q", property)
	}
}

func (rs *rowSet) Call(method string, args ...any) (com.Value, error) {
	switch method {
	case "GetColumnLabel":
		col, _ := args[0].(int)
		if col < 0 || col >= len(rs.table.columns) {
			return val{""}, nil
		}
		return val{rs.table.columns[col]}, nil
	case "GetColumnIndex":
		label, _ := args[0].(string)
		return val{rs.table.columnIndex(label)}, nil
	case "GetRowValue":
		r, _ := args[0].(int)
		col, _ := args[1].(int)
		if !rs.inRange(r) || col < 0 || col >= len(rs.table.columns) {
			return val{""}, nil
		}
		if staged, ok := rs.staged[r][col]; ok {
			return val{staged}, nil
		}
		return val{rs.rows[r].cells[col]}, nil
	case "GetRowID":
		r, _ := args[0].(int)
		if !rs.inRange(r) {
			return val{""}, nil
		}
		return val{rs.rows[r].id}, nil
	case "ModifyRow":
		r, _ := args[0].(int)
		col, _ := args[1].(int)
		value, _ := args[2].(string)
		if rs.kind != kindAdd && rs.kind != kindEdit {
			return val{false}, nil
		}
		if !rs.inRange(r) || col < 0 || col >= len(rs.table.columns) {
			return val{false}, nil
		}
		if rs.staged == nil {
			rs.staged = map[int]map[int]string{}
		}
		if rs.staged[r] == nil {
			rs.staged[r] = map[int]string{}
		}
		rs.staged[r][col] = value
		return val{true}, nil
	case "DeleteRow":
		r, _ := args[0].(int)
		if rs.kind != kindDelete || !rs.inRange(r) {
			return val{false}, nil
		}
		if rs.deleted == nil {
			rs.deleted = map[int]bool{}
		}
		rs.deleted[r] = true
		return val{true}, nil
	case "Commit":
		return rs.commit()
	case "CommitGetCursor":
		if _, err := rs.commit(); err != nil {
			return nil, err
		}
		return val{&cursor{table: rs.table, filters: map[int]clause{}}}, nil
	default:
		return nil, fmt.Errorf("fake rowset: unknown method %q", method)
	}
}

func (rs *rowSet) Release() {}

func (rs *rowSet) inRange(r int) bool {
	return r >= 0 && r < len(rs.rows)
}

func (rs *rowSet) commit() (com.Value, error) {
	switch rs.kind {
	case kindAdd:
		for i, r := range rs.rows {
			pk := rs.staged[i][0]
			for _, existing := range rs.table.rows {
				if fold.String(existing.cells[0]) == fold.String(pk) {
					return nil, &com.COMError{HResult: hresultDuplicate, Description: "row already exists"}
				}
			}
			rs.apply(i, r)
			rs.table.rows = append(rs.table.rows, r)
		}
	case kindEdit:
		for i, r := range rs.rows {
			rs.apply(i, r)
		}
	case kindDelete:
		for i := range rs.deleted {
			rs.table.remove(rs.rows[i].id)
		}
	}
	rs.staged = nil
	rs.deleted = nil
	return val{0}, nil
}

func (rs *rowSet) apply(i int, r *row) {
	for col, value := range rs.staged[i] {
		r.cells[col] = value
	}
}

func (t *table) remove(id string) {
	for i, r := range t.rows {
		if r.id == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return
		}
	}
}

// val adapts any Go value to com.Value.
type val struct {
	v any
}

func (v val) String() string {
	s, _ := v.v.(string)
	return s
}

func (v val) Int() int {
	switch n := v.v.(type) {
	case int:
		return n
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (v val) Bool() bool {
	switch b := v.v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	default:
		return false
	}
}

func (v val) Object() (com.Object, bool) {
	o, ok := v.v.(com.Object)
	return o, ok
}
