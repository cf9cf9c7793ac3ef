package cmc

import "fmt"

// CursorType selects what a cursor ranges over. Values are the
// vendor's CMC_CURSOR_* constants.
type CursorType int

const (
	// CursorCategory ranges over all items of a category.
	CursorCategory CursorType = 0
	// CursorView ranges over the items of a saved view, inheriting the
	// view's filter and sort.
	CursorView CursorType = 1
	// CursorPilotAB ranges over the Palm Pilot address book mapping.
	CursorPilotAB CursorType = 2
	// CursorMergeBox ranges over the merge box selection.
	CursorMergeBox CursorType = 3
)

func (t CursorType) String() string {
	switch t {
	case CursorCategory:
		return "category"
	case CursorView:
		return "view"
	case CursorPilotAB:
		return "pilotab"
	case CursorMergeBox:
		return "mergebox"
	default:
		return fmt.Sprintf("cursortype(%d)", int(t))
	}
}

// requiresName reports whether the cursor type addresses a named
// database object.
func (t CursorType) requiresName() bool {
	return t == CursorCategory || t == CursorView
}

// OptionFlag is a cursor creation flag. Values are the vendor's
// CMC_FLAG_* constants and are OR-combined.
type OptionFlag int

const (
	// FlagPilot makes Save Item agents defined for the Pilot subsystem
	// fire on commit.
	FlagPilot OptionFlag = 0x0001
	// FlagInternet makes Save Item agents defined for Internet and
	// intranet fire on commit.
	FlagInternet OptionFlag = 0x0002
	// FlagCanonical requests field data in canonical form (dates as
	// yyyymmdd, times as hh:mm). It belongs to the row-set calls, via
	// Cursor.UseCanonical, and is rejected by GetCursor.
	FlagCanonical OptionFlag = 0x0040
)

// combineFlags ORs creation flags, rejecting anything but the ones
// valid for GetCursor.
func combineFlags(flags []OptionFlag) (int, error) {
	combined := 0
	for _, f := range flags {
		if f != FlagPilot && f != FlagInternet {
			return 0, &Error{Code: CodeInvalidArg, Message: fmt.Sprintf("invalid cursor flag %#x", int(f))}
		}
		combined |= int(f)
	}
	return combined, nil
}

// SeekOrigin is the bookmark argument to SeekRow. Values are the
// vendor's CMC_CURSOR_BM_* constants.
type SeekOrigin int

const (
	// SeekBeginning seeks relative to the first row.
	SeekBeginning SeekOrigin = 0
	// SeekCurrent seeks relative to the current row pointer.
	SeekCurrent SeekOrigin = 1
	// SeekEnd seeks relative to the last row.
	SeekEnd SeekOrigin = 2
)
