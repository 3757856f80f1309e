package shell_test

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldson/fatview"
	"github.com/ldson/fatview/fatviewtest"
	"github.com/ldson/fatview/shell"
)

func newREPL(t *testing.T, input string) (*shell.REPL, *shell.BufferSink) {
	t.Helper()
	mount, err := fatviewtest.Mount(fatview.ReadOnly)
	require.NoError(t, err)
	t.Cleanup(func() { mount.Unmount() })

	sink := &shell.BufferSink{}
	scanner := bufio.NewScanner(strings.NewReader(input))
	return shell.New(mount, sink, scanner), sink
}

func TestREPLListsRootThenExits(t *testing.T) {
	repl, sink := newREPL(t, "ls\nexit\n")
	repl.Run()

	out := sink.String()
	assert.Contains(t, out, "dir1")
	assert.Contains(t, out, "Exiting...")
}

func TestREPLChangesDirectoryAndCatsAFile(t *testing.T) {
	repl, sink := newREPL(t, "cd dir1\ncat greet.txt\nexit\n")
	repl.Run()

	assert.Contains(t, sink.String(), "hello\n")
}

func TestREPLUnknownCommandReportsError(t *testing.T) {
	repl, sink := newREPL(t, "bogus\nexit\n")
	repl.Run()

	out := sink.String()
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, "Type 'help'")
}

func TestREPLAndChainStopsAtFirstFailure(t *testing.T) {
	repl, sink := newREPL(t, "cd nope && ls\nexit\n")
	repl.Run()

	out := sink.String()
	assert.Contains(t, out, "Failed to process command")
	assert.NotContains(t, out, "dir1")
}

func TestREPLStopsOnEOFWithoutExitCommand(t *testing.T) {
	repl, sink := newREPL(t, "ls\n")
	repl.Run()

	assert.Contains(t, sink.String(), "dir1")
}
