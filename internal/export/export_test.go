package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawrequest/gommence/internal/cmc"
	"github.com/pawrequest/gommence/internal/filters"
	"github.com/pawrequest/gommence/internal/records"
	"github.com/pawrequest/gommence/internal/testutil"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testHandler(t *testing.T) *records.Handler {
	t.Helper()
	fake := testutil.NewDB("Sandbox", testutil.Category{
		Name:    "Contact",
		Columns: []string{"Name", "City"},
		Rows: [][]string{
			{"Alice", "London"},
			{"Bob", "Paris"},
			{"Carol", "London"},
		},
	})
	db := cmc.NewDB(fake, cmc.DefaultProgID)
	cursor, err := db.Cursor("Contact", cmc.CursorCategory)
	require.NoError(t, err)
	t.Cleanup(cursor.Close)
	h, err := records.New(cursor)
	require.NoError(t, err)
	return h
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestWriteSnapshot(t *testing.T) {
	s := testStore(t)
	h := testHandler(t)

	snap, err := s.WriteSnapshot("Sandbox", h, records.ReadOpts{})
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "Sandbox", snap.Database)
	assert.Equal(t, "Contact", snap.Category)
	assert.Equal(t, 3, snap.RowCount)
	assert.False(t, snap.TakenAt.IsZero())

	rows, err := s.Rows(snap.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, map[string]string{"Name": "Alice", "City": "London"}, rows[0])
	assert.Equal(t, map[string]string{"Name": "Carol", "City": "London"}, rows[2])
}

func TestWriteSnapshot_Filtered(t *testing.T) {
	s := testStore(t)
	h := testHandler(t)
	fa, err := filters.NewArray(filters.Field{Column: "City", Condition: filters.EqualTo, Value: "London"})
	require.NoError(t, err)

	snap, err := s.WriteSnapshot("Sandbox", h, records.ReadOpts{Filter: fa})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.RowCount)

	// The handler's cursor is unfiltered again after the export.
	n, err := h.RowCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWriteSnapshot_Paged(t *testing.T) {
	s := testStore(t)
	h := testHandler(t)

	snap, err := s.WriteSnapshot("Sandbox", h, records.ReadOpts{
		Page: records.Page{Offset: 1, Limit: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.RowCount)

	rows, err := s.Rows(snap.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bob", rows[0]["Name"])
}

func TestSnapshots_NewestFirst(t *testing.T) {
	s := testStore(t)
	h := testHandler(t)

	first, err := s.WriteSnapshot("Sandbox", h, records.ReadOpts{})
	require.NoError(t, err)
	second, err := s.WriteSnapshot("Sandbox", h, records.ReadOpts{})
	require.NoError(t, err)

	snaps, err := s.Snapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	ids := []string{snaps[0].ID, snaps[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}

func TestRows_UnknownSnapshot(t *testing.T) {
	s := testStore(t)

	rows, err := s.Rows("no-such-snapshot")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
