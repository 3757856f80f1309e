package dirtree

import (
	"strings"

	"github.com/ldson/fatview/errors"
)

const maxNameLength = 255

// Resolve walks path against the tree, starting at root if path begins
// with '/', otherwise at current. Implements spec.md §4.8 exactly,
// including the `.`/`..`/empty-component rules and the
// must-be-a-directory-to-descend-further check.
func (t *Tree) Resolve(current uint32, path string) (uint32, error) {
	idx := current
	if strings.HasPrefix(path, "/") {
		idx = RootIndex
		path = path[1:]
	}

	components := strings.Split(path, "/")
	for i, component := range components {
		if len(component) > maxNameLength {
			component = component[:maxNameLength]
		}

		switch component {
		case "", ".":
			continue
		case "..":
			if t.nodes[idx].parent != NoIndex {
				idx = t.nodes[idx].parent
			}
			continue
		}

		more := i < len(components)-1
		child, ok := t.findChild(idx, component)
		if !ok {
			return NoIndex, errors.PathNotFound.WithMessagef("no such file or directory: %s", component)
		}
		if more && t.nodes[child].Type != Directory {
			return NoIndex, errors.NotADirectory.WithMessagef("not a directory: %s", component)
		}
		idx = child
	}

	return idx, nil
}

// findChild performs the linear, case-sensitive search spec.md §4.8
// requires (names are matched as stored, i.e. already lowercased).
func (t *Tree) findChild(parent uint32, name string) (uint32, bool) {
	for c := t.nodes[parent].firstChild; c != NoIndex; c = t.nodes[c].nextSibling {
		if t.nodes[c].Name == name {
			return c, true
		}
	}
	return NoIndex, false
}

// Path renders the absolute path of node i by walking parent links back to
// the root. Used by the shell's prompt; not part of the core decoder.
func (t *Tree) Path(i uint32) string {
	if i == RootIndex {
		return "/"
	}

	var segments []string
	for n := i; n != RootIndex; n = t.nodes[n].parent {
		segments = append([]string{t.nodes[n].Name}, segments...)
	}
	return "/" + strings.Join(segments, "/")
}
