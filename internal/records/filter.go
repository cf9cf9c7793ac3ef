package records

import (
	"log/slog"

	"github.com/pawrequest/gommence/internal/filters"
)

// ApplyFilter makes the array the cursor's active filter, replacing
// whatever was applied before.
func (h *Handler) ApplyFilter(a *filters.Array) error {
	if err := h.clearSlots(); err != nil {
		return err
	}
	if err := h.applyArray(a); err != nil {
		return err
	}
	h.active = a
	return nil
}

// ActiveFilter returns the filter array currently applied, or nil.
func (h *Handler) ActiveFilter() *filters.Array { return h.active }

// WithTemporaryFilter applies the array, runs fn, and restores the
// previously active filter in all paths, including when fn fails.
func (h *Handler) WithTemporaryFilter(a *filters.Array, fn func() error) error {
	previous := h.active.Clone()
	restore := func() {
		if err := h.clearSlots(); err != nil {
			slog.Warn("restoring filters: clear failed", "category", h.category, "error", err)
			return
		}
		if previous != nil {
			if err := h.applyArray(previous); err != nil {
				slog.Warn("restoring filters: reapply failed", "category", h.category, "error", err)
			}
		}
		h.active = previous
	}
	// ApplyFilter clears the slots before applying, so a failed apply
	// still needs the previous array put back.
	if err := h.ApplyFilter(a); err != nil {
		restore()
		return err
	}
	defer restore()
	return fn()
}

// ClearSlot clears one filter slot on the cursor and in the active
// array.
func (h *Handler) ClearSlot(slot int) error {
	clause, err := filters.ClearSlot(slot)
	if err != nil {
		return err
	}
	if err := h.cursor.SetFilter(clause); err != nil {
		return err
	}
	if h.active != nil {
		h.active.Remove(slot)
	}
	slog.Debug("filter slot cleared", "category", h.category, "slot", slot)
	return nil
}

// ClearAllFilters clears every slot and drops the active array.
func (h *Handler) ClearAllFilters() error {
	if err := h.clearSlots(); err != nil {
		return err
	}
	h.active = nil
	slog.Debug("all filters cleared", "category", h.category)
	return nil
}

// applyArray pushes every clause of the array to the cursor, then the
// conjunction logic and sort order when present. It does not touch
// h.active; callers decide ownership.
func (h *Handler) applyArray(a *filters.Array) error {
	clauses, err := a.Clauses()
	if err != nil {
		return err
	}
	for _, clause := range clauses {
		if err := h.cursor.SetFilter(clause); err != nil {
			return err
		}
	}
	if logic, err := a.LogicClause(); err != nil {
		return err
	} else if logic != "" {
		if err := h.cursor.SetFilterLogic(logic); err != nil {
			return err
		}
	}
	if sortClause, err := a.SortClause(); err != nil {
		return err
	} else if sortClause != "" {
		if err := h.cursor.SetSort(sortClause); err != nil {
			return err
		}
	}
	n, err := h.cursor.RowCount()
	if err != nil {
		return err
	}
	slog.Info("filters applied",
		"category", h.category,
		"filters", a.String(),
		"rows", n)
	return nil
}

// clearSlots clears every vendor slot on the cursor without touching
// h.active.
func (h *Handler) clearSlots() error {
	for slot := 1; slot <= filters.MaxSlots; slot++ {
		clause, err := filters.ClearSlot(slot)
		if err != nil {
			return err
		}
		if err := h.cursor.SetFilter(clause); err != nil {
			return err
		}
	}
	return nil
}
