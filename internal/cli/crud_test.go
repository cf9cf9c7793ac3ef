package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawrequest/gommence/internal/testutil"
)

func TestGetCommand_ByPK(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	out, _, err := runCLI(t, fake, "get", "Bob", "-c", "Contact")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Bob")
	assert.Contains(t, out, "City: Paris")
}

func TestGetCommand_NotFound(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "get", "Nobody", "-c", "Contact")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "[NOT_FOUND]")
}

func TestGetCommand_NeedsRef(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "get", "-c", "Contact")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAddCommand(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	out, _, err := runCLI(t, fake, "add", "Dave", "-c", "Contact",
		"-s", "City=Berlin", "-s", "Email=dave@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, `added "Dave" to Contact`)

	values := fake.RowValues("Contact")
	require.Len(t, values, 4)
	assert.Equal(t, []string{"Dave", "Berlin", "dave@example.com"}, values[3])
}

func TestAddCommand_DuplicateFails(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "add", "Alice", "-c", "Contact")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "[DUPLICATE]")
}

func TestAddCommand_OnExistingUpdate(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "add", "Alice", "-c", "Contact",
		"--on-existing", "update", "-s", "City=Berlin")
	require.NoError(t, err)

	assert.Equal(t, "Berlin", fake.RowValues("Contact")[0][1])
}

func TestAddCommand_BadOnExisting(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "add", "Dave", "-c", "Contact", "--on-existing", "maybe")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEditCommand(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	out, _, err := runCLI(t, fake, "edit", "Bob", "-c", "Contact", "-s", "City=Lyon")
	require.NoError(t, err)
	assert.Contains(t, out, "updated 1 field(s)")

	assert.Equal(t, "Lyon", fake.RowValues("Contact")[1][1])
}

func TestEditCommand_RequiresSet(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "edit", "Bob", "-c", "Contact")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "nothing to edit")
}

func TestDeleteCommand(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	out, _, err := runCLI(t, fake, "delete", "Bob", "-c", "Contact")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted from Contact")
	assert.Len(t, fake.RowValues("Contact"), 2)
}

func TestDeleteCommand_Missing(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "delete", "Nobody", "-c", "Contact")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestDeleteCommand_IgnoreMissing(t *testing.T) {
	fake := testutil.NewDB("Sandbox", contactSeed())

	_, _, err := runCLI(t, fake, "delete", "Nobody", "-c", "Contact", "--ignore-missing")
	require.NoError(t, err)
}

func TestParseOnExisting(t *testing.T) {
	for mode, want := range map[string]string{"": "fail", "fail": "fail", "update": "update", "replace": "replace"} {
		_, err := parseOnExisting(mode)
		require.NoError(t, err, want)
	}
	_, err := parseOnExisting("maybe")
	require.Error(t, err)
}
