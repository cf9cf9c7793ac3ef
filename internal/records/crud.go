package records

import (
	"fmt"
	"log/slog"

	"github.com/pawrequest/gommence/internal/cmc"
	"github.com/pawrequest/gommence/internal/filters"
)

// CategoryKey is the synthetic field added to returned records when a
// read requests the category name alongside the row's own fields.
const CategoryKey = "category"

// Ref addresses one row, by opaque row ID or by primary key. Exactly
// one of the two should be set; ID wins when both are.
type Ref struct {
	ID string
	PK string
}

// ByID addresses a row by its opaque row ID.
func ByID(id string) Ref { return Ref{ID: id} }

// ByPK addresses a row by primary key.
func ByPK(pk string) Ref { return Ref{PK: pk} }

func (r Ref) validate() error {
	if r.ID == "" && r.PK == "" {
		return fmt.Errorf("row ref needs an id or a pk")
	}
	return nil
}

// resolve returns the row ID, translating a primary key when needed.
func (h *Handler) resolve(r Ref) (string, error) {
	if err := r.validate(); err != nil {
		return "", err
	}
	if r.ID != "" {
		return r.ID, nil
	}
	return h.PKToID(r.PK)
}

// ReadOpts controls Read and ReadRows.
type ReadOpts struct {
	// Page bounds a ReadRows listing. A zero Limit means all rows.
	Page Page
	// Filter, when set, is applied temporarily for the duration of
	// the read.
	Filter *filters.Array
	// WithCategory adds the category name under CategoryKey.
	WithCategory bool
}

// Page is an offset/limit window over the cursor's rows.
type Page struct {
	Offset int
	Limit  int
}

// Read returns one row as a field map.
func (h *Handler) Read(r Ref, opts ReadOpts) (map[string]string, error) {
	id, err := h.resolve(r)
	if err != nil {
		return nil, err
	}
	rs, err := h.cursor.QueryRowSetByID(id)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	n, err := rs.RowCount()
	if err != nil {
		return nil, err
	}
	if n != 1 {
		return nil, cmc.NewNotFound(h.category, id)
	}
	row, err := rs.Row(0)
	if err != nil {
		return nil, err
	}
	if opts.WithCategory {
		row[CategoryKey] = h.category
	}
	return row, nil
}

// Row pairs a row's opaque ID with its fields.
type Row struct {
	ID     string
	Fields map[string]string
}

// ReadRows lists rows through the cursor. It returns the page of rows
// and the number of rows remaining beyond the page, so callers can
// report "n more available" the way interactive listings do.
func (h *Handler) ReadRows(opts ReadOpts) ([]map[string]string, int, error) {
	rows, more, err := h.ReadRowsWithIDs(opts)
	if err != nil {
		return nil, 0, err
	}
	fields := make([]map[string]string, len(rows))
	for i, r := range rows {
		fields[i] = r.Fields
	}
	return fields, more, nil
}

// ReadRowsWithIDs is ReadRows carrying each row's opaque ID alongside
// its fields.
func (h *Handler) ReadRowsWithIDs(opts ReadOpts) ([]Row, int, error) {
	var rows []Row
	var more int
	read := func() error {
		var err error
		rows, more, err = h.readPage(opts)
		return err
	}
	if opts.Filter != nil {
		if err := h.WithTemporaryFilter(opts.Filter, read); err != nil {
			return nil, 0, err
		}
	} else if err := read(); err != nil {
		return nil, 0, err
	}
	return rows, more, nil
}

func (h *Handler) readPage(opts ReadOpts) ([]Row, int, error) {
	total, err := h.cursor.RowCount()
	if err != nil {
		return nil, 0, err
	}
	// Row-set reads advance the cursor's row pointer, so rewind to a
	// known position before taking the page.
	if _, err := h.cursor.SeekRow(cmc.SeekBeginning, opts.Page.Offset); err != nil {
		return nil, 0, err
	}
	limit := opts.Page.Limit
	if limit <= 0 {
		limit = total
	}
	rs, err := h.cursor.QueryRowSet(limit)
	if err != nil {
		return nil, 0, err
	}
	defer rs.Close()
	n, err := rs.RowCount()
	if err != nil {
		return nil, 0, err
	}
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		id, err := rs.RowID(i)
		if err != nil {
			return nil, 0, err
		}
		fields, err := rs.Row(i)
		if err != nil {
			return nil, 0, err
		}
		if opts.WithCategory {
			fields[CategoryKey] = h.category
		}
		rows = append(rows, Row{ID: id, Fields: fields})
	}
	more := total - opts.Page.Offset - len(rows)
	if more < 0 {
		more = 0
	}
	slog.Debug("rows read",
		"category", h.category,
		"returned", len(rows),
		"more", more)
	return rows, more, nil
}

// Create adds one row and commits. The primary key field must be
// present in fields; an existing primary key fails with DUPLICATE
// before any row-set is opened.
func (h *Handler) Create(fields map[string]string) error {
	label, err := h.PKLabel()
	if err != nil {
		return err
	}
	pk := fields[label]
	if pk == "" {
		return fmt.Errorf("primary key field %q missing from create payload", label)
	}
	exists, err := h.PKExists(pk)
	if err != nil {
		return err
	}
	if exists {
		return cmc.NewDuplicate(h.category, pk)
	}
	rs, err := h.cursor.AddRowSet(1)
	if err != nil {
		return err
	}
	defer rs.Close()
	if err := rs.ModifyRowFields(0, fields); err != nil {
		return err
	}
	if err := rs.Commit(); err != nil {
		return err
	}
	slog.Info("row created", "category", h.category, "pk", pk)
	return nil
}

// Update modifies fields of one row and commits.
func (h *Handler) Update(r Ref, fields map[string]string) error {
	id, err := h.resolve(r)
	if err != nil {
		return err
	}
	rs, err := h.cursor.EditRowSetByID(id)
	if err != nil {
		return err
	}
	defer rs.Close()
	if err := rs.ModifyRowFields(0, fields); err != nil {
		return err
	}
	if err := rs.Commit(); err != nil {
		return err
	}
	slog.Info("row updated", "category", h.category, "id", id, "fields", len(fields))
	return nil
}

// Delete removes one row and commits.
func (h *Handler) Delete(r Ref) error {
	id, err := h.resolve(r)
	if err != nil {
		return err
	}
	rs, err := h.cursor.DeleteRowSetByID(id)
	if err != nil {
		return err
	}
	defer rs.Close()
	if err := rs.DeleteRow(0); err != nil {
		return err
	}
	if err := rs.Commit(); err != nil {
		return err
	}
	slog.Info("row deleted", "category", h.category, "id", id)
	return nil
}

// DeleteIgnoreMissing removes one row, treating an absent row as
// success.
func (h *Handler) DeleteIgnoreMissing(r Ref) error {
	err := h.Delete(r)
	if cmc.IsNotFound(err) {
		return nil
	}
	return err
}

// OnExisting selects upsert behavior when the primary key already
// exists.
type OnExisting int

const (
	// FailExisting rejects the add with DUPLICATE.
	FailExisting OnExisting = iota
	// UpdateExisting merges the payload into the existing row.
	UpdateExisting
	// ReplaceExisting deletes the existing row and adds fresh.
	ReplaceExisting
)

// Add upserts a row keyed by primary key, with existing-row behavior
// chosen by mode.
func (h *Handler) Add(pk string, fields map[string]string, mode OnExisting) error {
	if pk == "" {
		return fmt.Errorf("add needs a primary key")
	}
	exists, err := h.PKExists(pk)
	if err != nil {
		return err
	}
	if !exists {
		return h.createWithPK(pk, fields)
	}
	switch mode {
	case FailExisting:
		return cmc.NewDuplicate(h.category, pk)
	case UpdateExisting:
		return h.Update(ByPK(pk), fields)
	case ReplaceExisting:
		if err := h.Delete(ByPK(pk)); err != nil {
			return err
		}
		return h.createWithPK(pk, fields)
	default:
		return fmt.Errorf("unknown OnExisting mode %d", mode)
	}
}

func (h *Handler) createWithPK(pk string, fields map[string]string) error {
	label, err := h.PKLabel()
	if err != nil {
		return err
	}
	payload := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload[label] = pk
	return h.Create(payload)
}
