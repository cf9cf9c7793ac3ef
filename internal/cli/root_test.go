package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawrequest/gommence/internal/cmc"
	"github.com/pawrequest/gommence/internal/testutil"
)

func contactSeed() testutil.Category {
	return testutil.Category{
		Name:    "Contact",
		Columns: []string{"Name", "City", "Email"},
		Rows: [][]string{
			{"Alice", "London", "alice@example.com"},
			{"Bob", "Paris", ""},
			{"Carol", "London", "carol@example.com"},
		},
	}
}

// runCLI executes the command tree against a fake database and returns
// stdout, stderr, and the command error.
func runCLI(t *testing.T, fake *testutil.DB, args ...string) (string, string, error) {
	t.Helper()
	opts := &RootOptions{
		Dialer: func(progID string) (*cmc.DB, error) {
			return cmc.NewDB(fake, progID), nil
		},
	}
	cmd := newRootCommand(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse parses a JSON envelope from command output.
func decodeResponse(t *testing.T, out string) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// writeProfilesFile writes a profiles file naming the fake database.
func writeProfilesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRoot_InvalidFormat(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "--format", "xml", "info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_UnknownCommand(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "frobnicate")
	require.Error(t, err)
}

func TestRoot_MissingProfileFileTolerated(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	// No profiles file and no --profile: commands fall back to the
	// standard ProgID and flag-supplied category.
	out, _, err := runCLI(t, fake,
		"--profiles", filepath.Join(t.TempDir(), "nope.yaml"),
		"records", "-c", "Contact")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
}

func TestRoot_NamedProfileNeedsFile(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake,
		"--profiles", filepath.Join(t.TempDir(), "nope.yaml"),
		"-p", "work",
		"records", "-c", "Contact")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRoot_ProfileSuppliesCategory(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())
	path := writeProfilesFile(t, `
default: work
profiles:
  work:
    category: Contact
`)

	out, _, err := runCLI(t, fake, "--profiles", path, "records")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob")
}

func TestRoot_NoCategoryAnywhere(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake,
		"--profiles", filepath.Join(t.TempDir(), "nope.yaml"),
		"records")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no category")
}
