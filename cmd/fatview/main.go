// Command fatview mounts a FAT12/16/32 disk image read-only or read-write
// and drives an interactive shell over it.
//
// Grounded on cmd/main.go's urfave/cli/v2 usage and, for the argument
// parsing and exit-code contract, the original source's main() in
// application.c.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ldson/fatview"
	"github.com/ldson/fatview/shell"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := &cli.App{
		Name:      "fatview",
		Usage:     "Browse a FAT12/16/32 disk image",
		ArgsUsage: "<img_file> [read-only|read-write]",
		HideHelp:  false,
		Action:    mountAndServe,
	}

	if err := app.Run(args); err != nil {
		if _, ok := err.(usageError); ok {
			fmt.Fprintln(os.Stdout, err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "fatview: %s\n", err)
		}
		return 1
	}
	return exitCode
}

// exitCode is set by mountAndServe to the code run() should return; it
// exists because urfave/cli/v2's Action can only signal failure/success,
// not spec.md §6's three-way (1 / 42) contract directly.
var exitCode = 1

type usageError struct{ message string }

func (e usageError) Error() string { return e.message }

func mountAndServe(c *cli.Context) error {
	if c.NArg() < 1 {
		return usageError{message: fmt.Sprintf(
			"Usage: %s <img_file> [read-only|read-write]\n"+
				"  <img_file>: Path to the image file\n"+
				"  [mode]: Optional, 'read-only' (default) or 'read-write'",
			c.App.Name)}
	}

	imgPath := c.Args().Get(0)
	mode := fatview.ReadOnly

	if c.NArg() >= 2 {
		switch c.Args().Get(1) {
		case "read-write":
			mode = fatview.ReadWrite
		case "read-only":
			mode = fatview.ReadOnly
		default:
			return fmt.Errorf("invalid mode: %s (must be 'read-only' or 'read-write')", c.Args().Get(1))
		}
	}

	mount, err := fatview.Mount(fatview.MountConfig{ImagePath: imgPath, Mode: mode})
	if err != nil {
		return fmt.Errorf("failed to mount %s: %w", imgPath, err)
	}
	defer mount.Unmount()

	sink := shell.AnsiSink{Out: os.Stdout}
	repl := shell.New(mount, sink, bufio.NewScanner(os.Stdin))
	repl.Run()

	// Normal termination after the loop finished, whether via exit/quit or
	// stdin EOF, is reported as 42 — never 0 — matching the original
	// source's main(): `return result == 0 ? 42 : 1`.
	exitCode = 42
	return nil
}
