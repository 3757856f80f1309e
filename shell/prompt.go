package shell

import (
	"fmt"

	"github.com/ldson/fatview"
)

// PromptText renders the two-tier prompt spec.md §6 specifies: a
// root-mode/user-mode banner followed by the current path. Root mode maps
// to a ReadWrite mount, user mode to ReadOnly, grounded on the original
// source's display_prompt/middleware_is_root_mode.
func PromptText(mount *fatview.Mount) string {
	mode := "user"
	if mount.Mode() == fatview.ReadWrite {
		mode = "root"
	}
	return fmt.Sprintf("FATVIEW@%s: %s$> ", mode, mount.CurrentPath())
}
