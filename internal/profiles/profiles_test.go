package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeProfiles(t, `
default: work
profiles:
  work:
    prog_id: Commence.DB
    category: Contact
    queries_dir: /srv/queries
  scratch:
    category: Account
`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "work", f.Default)
	require.Len(t, f.Profiles, 2)

	work := f.Profiles["work"]
	assert.Equal(t, "Commence.DB", work.ProgID)
	assert.Equal(t, "Contact", work.Category)
	assert.Equal(t, "/srv/queries", work.QueriesDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeProfiles(t, "profiles: [not a map")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_NoProfiles(t *testing.T) {
	path := writeProfiles(t, "default: work")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profiles")
}

func TestLoad_DefaultMustExist(t *testing.T) {
	path := writeProfiles(t, `
default: gone
profiles:
  work:
    category: Contact
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `default profile "gone"`)
}

func TestSelect_ByName(t *testing.T) {
	f := &File{Profiles: map[string]Profile{
		"work":    {Category: "Contact"},
		"scratch": {Category: "Account"},
	}}

	p, err := f.Select("scratch")
	require.NoError(t, err)
	assert.Equal(t, "Account", p.Category)

	_, err = f.Select("gone")
	require.Error(t, err)
}

func TestSelect_Default(t *testing.T) {
	f := &File{
		Default: "work",
		Profiles: map[string]Profile{
			"work":    {Category: "Contact"},
			"scratch": {Category: "Account"},
		},
	}

	p, err := f.Select("")
	require.NoError(t, err)
	assert.Equal(t, "Contact", p.Category)
}

func TestSelect_SoleProfile(t *testing.T) {
	f := &File{Profiles: map[string]Profile{"only": {Category: "Contact"}}}

	p, err := f.Select("")
	require.NoError(t, err)
	assert.Equal(t, "Contact", p.Category)
}

func TestSelect_Ambiguous(t *testing.T) {
	f := &File{Profiles: map[string]Profile{
		"a": {},
		"b": {},
	}}

	_, err := f.Select("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile named")
}

func TestNames_Sorted(t *testing.T) {
	f := &File{Profiles: map[string]Profile{"z": {}, "a": {}, "m": {}}}
	assert.Equal(t, []string{"a", "m", "z"}, f.Names())
}

func TestDefaultPath(t *testing.T) {
	assert.NotEmpty(t, DefaultPath())
}
