package testutil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/pawrequest/gommence/internal/com"
)

// hresultDuplicate is the HRESULT the real server returns when an add
// row-set commit collides with an existing primary key.
const hresultDuplicate = -2147483617

var fold = cases.Fold()

// Category seeds one category of the fake database.
type Category struct {
	Name    string
	Columns []string
	Rows    [][]string
	// Connections maps "connection/category" to primary key to the
	// connected item names, for CTI filter evaluation.
	Connections map[string]map[string][]string
}

// DB is the fake Commence database. It implements com.Object with the
// same dispatch surface the real server exposes.
type DB struct {
	DBName string
	tables map[string]*table
}

type table struct {
	name        string
	columns     []string
	rows        []*row
	connections map[string]map[string][]string
}

type row struct {
	id    string
	cells []string
}

// NewDB builds a fake database from category seeds.
func NewDB(name string, categories ...Category) *DB {
	db := &DB{DBName: name, tables: map[string]*table{}}
	for _, c := range categories {
		t := &table{
			name:        c.Name,
			columns:     append([]string(nil), c.Columns...),
			connections: c.Connections,
		}
		for _, cells := range c.Rows {
			padded := make([]string, len(t.columns))
			copy(padded, cells)
			t.rows = append(t.rows, &row{id: uuid.NewString(), cells: padded})
		}
		db.tables[c.Name] = t
	}
	return db
}

// RowValues returns the current cell values of a category, for test
// assertions after commits.
func (db *DB) RowValues(category string) [][]string {
	t := db.tables[category]
	if t == nil {
		return nil
	}
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = append([]string(nil), r.cells...)
	}
	return out
}

func (db *DB) Get(property string) (com.Value, error) {
	switch property {
	case "Name":
		return val{db.DBName}, nil
	case "Path":
		return val{`C:\commence\` + db.DBName}, nil
	case "RegisteredUser":
		return val{"Test User\r\nTest Co\r\n000-000"}, nil
	case "Shared":
		return val{false}, nil
	case "Version":
		return val{"7.1"}, nil
	case "VersionExt":
		return val{"7.1.0.0"}, nil
	default:
		return nil, fmt.Errorf("fake db: unknown property %q", property)
	}
}

func (db *DB) Call(method string, args ...any) (com.Value, error) {
	switch method {
	case "GetCursor":
		name, _ := args[1].(string)
		t, ok := db.tables[name]
		if !ok {
			return nil, &com.COMError{HResult: -2147352567, Description: "no such category " + name}
		}
		return val{&cursor{table: t, filters: map[int]clause{}}}, nil
	case "GetConversation":
		topic, _ := args[1].(string)
		return val{&conversation{topic: topic}}, nil
	default:
		return nil, fmt.Errorf("fake db: unknown method %q", method)
	}
}

func (db *DB) Release() {}

// cursor is the fake cursor dispatch object.
type cursor struct {
	table   *table
	filters map[int]clause
	logic   []string
	sorts   []sortKey
	pointer int
}

type sortKey struct {
	column     string
	descending bool
}

func (c *cursor) Get(property string) (com.Value, error) {
	switch property {
	case "Category":
		return val{c.table.name}, nil
	case "RowCount":
		return val{len(c.visible())}, nil
	case "ColumnCount":
		return val{len(c.table.columns)}, nil
	case "Shared":
		return val{false}, nil
	default:
		return nil, fmt.Errorf("fake cursor: unknown property %q", property)
	}
}

func (c *cursor) Call(method string, args ...any) (com.Value, error) {
	switch method {
	case "SetFilter":
		s, _ := args[0].(string)
		cl, ok := parseViewFilter(s)
		if !ok {
			return val{false}, nil
		}
		if cl.clear {
			delete(c.filters, cl.slot)
		} else {
			c.filters[cl.slot] = cl
		}
		c.pointer = 0
		return val{true}, nil
	case "SetLogic":
		s, _ := args[0].(string)
		logic, ok := parseViewConjunction(s)
		if !ok {
			return val{false}, nil
		}
		c.logic = logic
		return val{true}, nil
	case "SetSort":
		s, _ := args[0].(string)
		sorts, ok := parseViewSort(s)
		if !ok {
			return val{false}, nil
		}
		c.sorts = sorts
		return val{true}, nil
	case "SeekRow":
		origin, _ := args[0].(int)
		n, _ := args[1].(int)
		return val{c.seek(origin, n)}, nil
	case "SeekRowApprox":
		numerator, _ := args[0].(int)
		denominator, _ := args[1].(int)
		if denominator <= 0 {
			return val{0}, nil
		}
		target := len(c.visible()) * numerator / denominator
		return val{c.seek(0, target)}, nil
	case "SetColumn", "SetRelatedColumn":
		// Column layout is fixed by the seed; accept and ignore.
		return val{true}, nil
	case "GetQueryRowSet":
		limit, _ := args[0].(int)
		return val{c.queryRowSet(limit)}, nil
	case "GetQueryRowSetByID":
		id, _ := args[0].(string)
		return c.rowSetByID(id, kindQuery)
	case "GetAddRowSet":
		limit, _ := args[0].(int)
		rs := &rowSet{table: c.table, kind: kindAdd}
		for i := 0; i < limit; i++ {
			rs.rows = append(rs.rows, &row{id: uuid.NewString(), cells: make([]string, len(c.table.columns))})
		}
		return val{rs}, nil
	case "GetEditRowSet":
		limit, _ := args[0].(int)
		return val{&rowSet{table: c.table, kind: kindEdit, rows: c.page(limit)}}, nil
	case "GetEditRowSetByID":
		id, _ := args[0].(string)
		return c.rowSetByID(id, kindEdit)
	case "GetDeleteRowSet":
		limit, _ := args[0].(int)
		return val{&rowSet{table: c.table, kind: kindDelete, rows: c.page(limit)}}, nil
	case "GetDeleteRowSetByID":
		id, _ := args[0].(string)
		return c.rowSetByID(id, kindDelete)
	default:
		return nil, fmt.Errorf("fake cursor: unknown method %q", method)
	}
}

func (c *cursor) Release() {}

func (c *cursor) seek(origin, n int) int {
	visible := len(c.visible())
	var target int
	switch origin {
	case 0:
		target = n
	case 1:
		target = c.pointer + n
	case 2:
		target = visible - 1 + n
	default:
		return 0
	}
	if target < 0 {
		target = 0
	}
	if target > visible {
		target = visible
	}
	moved := target - c.pointer
	c.pointer = target
	if moved < 0 {
		moved = -moved
	}
	return moved
}

func (c *cursor) queryRowSet(limit int) *rowSet {
	rows := c.page(limit)
	c.pointer += len(rows)
	return &rowSet{table: c.table, kind: kindQuery, rows: rows}
}

func (c *cursor) page(limit int) []*row {
	visible := c.visible()
	if c.pointer >= len(visible) {
		return nil
	}
	rows := visible[c.pointer:]
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func (c *cursor) rowSetByID(id string, kind rowSetKind) (com.Value, error) {
	for _, r := range c.table.rows {
		if r.id == id {
			return val{&rowSet{table: c.table, kind: kind, rows: []*row{r}}}, nil
		}
	}
	return val{&rowSet{table: c.table, kind: kind}}, nil
}

// visible applies the active filters, logic, and sort to the table.
func (c *cursor) visible() []*row {
	matched := make([]*row, 0, len(c.table.rows))
	for _, r := range c.table.rows {
		if c.match(r) {
			matched = append(matched, r)
		}
	}
	for i := len(c.sorts) - 1; i >= 0; i-- {
		key := c.sorts[i]
		col := c.table.columnIndex(key.column)
		if col < 0 {
			continue
		}
		sort.SliceStable(matched, func(a, b int) bool {
			left, right := fold.String(matched[a].cells[col]), fold.String(matched[b].cells[col])
			if key.descending {
				return left > right
			}
			return left < right
		})
	}
	return matched
}

func (c *cursor) match(r *row) bool {
	if len(c.filters) == 0 {
		return true
	}
	slots := make([]int, 0, len(c.filters))
	for slot := range c.filters {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	result := c.evalClause(c.filters[slots[0]], r)
	for i := 1; i < len(slots); i++ {
		conj := "And"
		if i-1 < len(c.logic) {
			conj = c.logic[i-1]
		}
		next := c.evalClause(c.filters[slots[i]], r)
		if conj == "Or" {
			result = result || next
		} else {
			result = result && next
		}
	}
	return result
}

func (c *cursor) evalClause(cl clause, r *row) bool {
	var matched bool
	switch cl.kind {
	case "F":
		matched = c.evalField(cl, r)
	case "CTI":
		matched = c.evalConnectedItem(cl, r)
	default:
		matched = false
	}
	if cl.not {
		return !matched
	}
	return matched
}

func (c *cursor) evalField(cl clause, r *row) bool {
	if len(cl.args) < 2 {
		return false
	}
	col := c.table.columnIndex(cl.args[0])
	if col < 0 {
		return false
	}
	cell := fold.String(r.cells[col])
	condition := cl.args[1]
	value := ""
	if len(cl.args) > 2 {
		value = fold.String(cl.args[2])
	}
	switch condition {
	case "Equal To", "On":
		return cell == value
	case "Not Equal To":
		return cell != value
	case "Contains":
		return strings.Contains(cell, value)
	case "Not Contains":
		return !strings.Contains(cell, value)
	case "After":
		return cell > value
	case "Before":
		return cell < value
	case "Is Between":
		if len(cl.args) < 4 {
			return false
		}
		return cell >= value && cell <= fold.String(cl.args[3])
	case "Blank":
		return cell == ""
	case "Not Blank":
		return cell != ""
	default:
		return false
	}
}

func (c *cursor) evalConnectedItem(cl clause, r *row) bool {
	if len(cl.args) < 3 || c.table.connections == nil {
		return false
	}
	key := cl.args[0] + "/" + cl.args[1]
	byPK, ok := c.table.connections[key]
	if !ok {
		return false
	}
	pk := r.cells[0]
	for _, item := range byPK[pk] {
		if fold.String(item) == fold.String(cl.args[2]) {
			return true
		}
	}
	return false
}

func (t *table) columnIndex(label string) int {
	for i, col := range t.columns {
		if strings.EqualFold(col, label) {
			return i
		}
	}
	return -1
}

// conversation is the fake DDE conversation; Request echoes the
// command, Execute always succeeds.
type conversation struct {
	topic string
}

func (c *conversation) Get(property string) (com.Value, error) {
	return nil, fmt.Errorf("fake conversation: unknown property %q", property)
}

func (c *conversation) Call(method string, args ...any) (com.Value, error) {
	switch method {
	case "Request":
		command, _ := args[0].(string)
		return val{c.topic + ":" + command}, nil
	case "Execute":
		return val{true}, nil
	default:
		return nil, fmt.Errorf("fake conversation: unknown method %q", method)
	}
}

func (c *conversation) Release() {}
