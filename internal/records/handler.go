package records

import (
	"fmt"
	"log/slog"

	"github.com/pawrequest/gommence/internal/cmc"
	"github.com/pawrequest/gommence/internal/filters"
)

// Handler exposes record operations over one cursor. It tracks the
// filter array currently applied to the cursor so filters can be
// swapped temporarily and restored.
//
// Handler is not safe for concurrent use; COM apartment rules make the
// underlying cursor single-threaded anyway.
type Handler struct {
	cursor   *cmc.Cursor
	category string
	active   *filters.Array

	pkLabel string
	pkKnown bool
	headers []string
}

// Option configures a Handler at construction.
type Option func(*Handler)

// WithFilter applies a filter array as part of construction.
func WithFilter(a *filters.Array) Option {
	return func(h *Handler) { h.active = a }
}

// New wraps a cursor. The category name is resolved eagerly; an
// initial filter given via WithFilter is applied before New returns.
func New(cursor *cmc.Cursor, opts ...Option) (*Handler, error) {
	category, err := cursor.Category()
	if err != nil {
		return nil, err
	}
	h := &Handler{cursor: cursor, category: category}
	for _, opt := range opts {
		opt(h)
	}
	if h.active != nil {
		if err := h.applyArray(h.active); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Category returns the cursor's category name.
func (h *Handler) Category() string { return h.category }

// RowCount returns the number of rows visible after active filters.
func (h *Handler) RowCount() (int, error) { return h.cursor.RowCount() }

// ColumnCount returns the number of cursor columns.
func (h *Handler) ColumnCount() (int, error) { return h.cursor.ColumnCount() }

// Shared reports whether the database is enrolled in a workgroup.
func (h *Handler) Shared() (bool, error) { return h.cursor.Shared() }

// Headers returns the column labels, cached after the first read.
func (h *Handler) Headers() ([]string, error) {
	if h.headers != nil {
		return h.headers, nil
	}
	rs, err := h.cursor.QueryRowSet(1)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	headers, err := rs.Headers()
	if err != nil {
		return nil, err
	}
	h.headers = headers
	return headers, nil
}

// PKLabel returns the label of column 0, the category's primary key
// field. Cached after the first read.
func (h *Handler) PKLabel() (string, error) {
	if h.pkKnown {
		return h.pkLabel, nil
	}
	rs, err := h.cursor.QueryRowSet(1)
	if err != nil {
		return "", err
	}
	defer rs.Close()
	label, err := rs.ColumnLabel(0)
	if err != nil {
		return "", err
	}
	h.pkLabel = label
	h.pkKnown = true
	return label, nil
}

// PKFilter builds a one-slot filter array matching the primary key
// with the given condition.
func (h *Handler) PKFilter(pk string, condition filters.Condition) (*filters.Array, error) {
	label, err := h.PKLabel()
	if err != nil {
		return nil, err
	}
	return filters.NewArray(filters.Field{Column: label, Condition: condition, Value: pk})
}

// PKExists reports whether a row with the given primary key exists.
func (h *Handler) PKExists(pk string) (bool, error) {
	fa, err := h.PKFilter(pk, filters.EqualTo)
	if err != nil {
		return false, err
	}
	exists := false
	err = h.WithTemporaryFilter(fa, func() error {
		n, err := h.cursor.RowCount()
		if err != nil {
			return err
		}
		exists = n > 0
		return nil
	})
	return exists, err
}

// PKToID resolves a primary key to the row's opaque ID. Exactly one
// row must match.
func (h *Handler) PKToID(pk string) (string, error) {
	fa, err := h.PKFilter(pk, filters.EqualTo)
	if err != nil {
		return "", err
	}
	var id string
	err = h.WithTemporaryFilter(fa, func() error {
		rs, err := h.cursor.QueryRowSet(2)
		if err != nil {
			return err
		}
		defer rs.Close()
		n, err := rs.RowCount()
		if err != nil {
			return err
		}
		switch {
		case n == 0:
			return cmc.NewNotFound(h.category, pk)
		case n > 1:
			return cmc.NewTooMany(h.category, pk, n)
		}
		id, err = rs.RowID(0)
		return err
	})
	return id, err
}

// PKToRowIDs resolves a primary key to every matching row ID.
func (h *Handler) PKToRowIDs(pk string) ([]string, error) {
	fa, err := h.PKFilter(pk, filters.EqualTo)
	if err != nil {
		return nil, err
	}
	var ids []string
	err = h.WithTemporaryFilter(fa, func() error {
		n, err := h.cursor.RowCount()
		if err != nil {
			return err
		}
		rs, err := h.cursor.QueryRowSet(n)
		if err != nil {
			return err
		}
		defer rs.Close()
		count, err := rs.RowCount()
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			id, err := rs.RowID(i)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	return ids, err
}

// RowIDToPK resolves a row ID to the row's primary key value.
func (h *Handler) RowIDToPK(id string) (string, error) {
	rs, err := h.cursor.QueryRowSetByID(id)
	if err != nil {
		return "", err
	}
	defer rs.Close()
	return rs.RowValue(0, 0)
}

// AddRelatedColumn appends a column reached through a connection to
// the cursor, invalidating the cached headers.
func (h *Handler) AddRelatedColumn(conn filters.Connection) error {
	if conn.Name == "" || conn.Category == "" || conn.Column == "" {
		return fmt.Errorf("related column needs connection name, category and column")
	}
	count, err := h.cursor.ColumnCount()
	if err != nil {
		return err
	}
	if err := h.cursor.SetRelatedColumn(count, conn.Name, conn.Category, conn.Column); err != nil {
		return err
	}
	h.headers = nil
	slog.Debug("related column added",
		"category", h.category,
		"connection", conn.Name,
		"column", conn.Column)
	return nil
}
