package shell

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ldson/fatview"
	"github.com/ldson/fatview/dirtree"
)

// helpText is printed verbatim by the `help` command, matching
// application_show_help's listing.
const helpText = `Available commands:
  ls                  List files and directories
  cd <path>           Change directory
  cat <file>          Display file content
  evidence            Show file system information
  cls, clear          Clear the screen
  help                Show this help message
  exit, quit          Exit the program
`

// REPL drives the interactive loop against a mounted volume: read a line,
// split it on "&&", dispatch each command, print results through a Sink.
// Grounded on application.c's application_run/application_process_command.
type REPL struct {
	Mount *fatview.Mount
	Sink  Sink
	In    *bufio.Scanner

	running bool
}

// New creates a REPL reading commands from in (typically os.Stdin).
func New(mount *fatview.Mount, sink Sink, in *bufio.Scanner) *REPL {
	return &REPL{Mount: mount, Sink: sink, In: in, running: true}
}

// Run executes the main loop until `exit`/`quit` or EOF on the input. It
// returns nothing: both endings are "normal termination", which the caller
// reports as exit code 42.
func (r *REPL) Run() {
	for r.running {
		r.Sink.WriteStyled(Prompt, PromptText(r.Mount))
		if !r.In.Scan() {
			return
		}

		line := r.In.Text()
		if !strings.Contains(line, "&&") {
			r.dispatch(line)
			continue
		}

		for _, cmd := range SplitAndCommands(line) {
			r.Sink.WriteStyled(Prompt, PromptText(r.Mount))
			r.Sink.WritePlain(cmd + "\n")
			if !r.dispatch(cmd) {
				break
			}
		}
	}
}

// dispatch runs one command line and reports whether processing should
// continue to the next command (false on failure, matching
// process_command_with_and's early-return-on-failure semantics).
func (r *REPL) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	cmd, args := fields[0], fields[1:]
	var err error

	switch cmd {
	case "ls":
		err = r.cmdList()
	case "cd":
		if len(args) == 0 {
			err = fmt.Errorf("cd: missing operand")
		} else {
			err = r.cmdChangeDir(args[0])
		}
	case "cat":
		if len(args) == 0 {
			err = fmt.Errorf("cat: missing operand")
		} else {
			err = r.cmdCat(args[0])
		}
	case "evidence":
		err = r.cmdEvidence()
	case "cls", "clear":
		r.clearScreen()
	case "help":
		r.Sink.WritePlain(helpText)
	case "exit", "quit":
		r.Sink.WriteStyled(Info, "Exiting...\n")
		r.running = false
	default:
		r.Sink.WriteStyled(Error, fmt.Sprintf("Unknown command: %s\n", cmd))
		r.Sink.WriteStyled(Info, "Type 'help' for available commands\n")
		return false
	}

	if err != nil {
		r.Sink.WriteStyled(Error, fmt.Sprintf("Failed to process command: %s\n", err))
		return false
	}
	return true
}

func (r *REPL) cmdList() error {
	nodes := r.Mount.List()
	r.Sink.WritePlain(fmt.Sprintf("%-20s %-10s %10s %20s %20s\n", "Name", "Type", "Size", "Created", "Modified"))
	for _, n := range nodes {
		r.Sink.WritePlain(fmt.Sprintf(
			"%-20s %-10s %10d %20s %20s\n",
			n.Name, n.Type.String(), n.Size,
			formatDateTime(n.Created), formatDateTime(n.Modified)))
	}
	return nil
}

func formatDateTime(dt dirtree.DateTime) string {
	if dt.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second)
}

func (r *REPL) cmdChangeDir(path string) error {
	return r.Mount.ChangeDirectory(path)
}

func (r *REPL) cmdCat(path string) error {
	data, err := r.Mount.ReadFile(path)
	if err != nil {
		return err
	}
	r.Sink.WritePlain(string(data))
	return nil
}

func (r *REPL) cmdEvidence() error {
	info := r.Mount.GetFilesystemInfo()
	rows := BuildEvidenceRows(r.Mount.BootParameterBlock(), info.Variant, info.TotalSize, info.FreeSize, info.UsedSize)
	csvText, err := RenderEvidenceCSV(rows)
	if err != nil {
		return err
	}
	r.Sink.WritePlain(csvText)
	return nil
}

// clearScreen delegates to the host shell, matching application.c's
// `system("clear")`.
func (r *REPL) clearScreen() {
	c := exec.Command("clear")
	c.Stdout = os.Stdout
	_ = c.Run()
}
