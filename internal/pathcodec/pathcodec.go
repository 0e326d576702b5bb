// Package pathcodec is the sole authority for converting between an HRID
// and its canonical on-disk path, in either of two layout modes.
package pathcodec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/reqgraph/reqctl/internal/hrid"
)

// Mode selects how namespace segments map onto the filesystem.
type Mode int

const (
	// ModeFilename places the full HRID in a single filename directly
	// under root: <root>/<hrid.Display(digits)>.md.
	ModeFilename Mode = iota
	// ModePath turns namespace segments into subdirectories:
	// <root>/<ns1>/.../<nsk>/<KIND>/<padded-id>.md.
	ModePath
)

// ErrOutsideRoot is returned when a path does not lie under root.
var ErrOutsideRoot = errors.New("pathcodec: path is not under root")

// ErrInvalidPath is returned when a path cannot be parsed into an HRID
// under the given mode.
var ErrInvalidPath = errors.New("pathcodec: cannot parse path")

// ConstructPath returns the canonical path for h under root, given mode
// and the configured digit width.
func ConstructPath(root string, h hrid.HRID, mode Mode, digits int) string {
	switch mode {
	case ModePath:
		path := root
		for _, seg := range h.Namespace {
			path = filepath.Join(path, string(seg))
		}
		path = filepath.Join(path, string(h.Kind))
		filename := fmt.Sprintf("%0*d.md", digits, h.ID)
		return filepath.Join(path, filename)
	default:
		return filepath.Join(root, h.Display(digits)+".md")
	}
}

// ParsePath extracts the HRID a path would have to declare for
// ConstructPath to have produced it, given mode. It rejects a path whose
// position relative to root begins with ".."; this check is lexical, so a
// symlink under root that points outside it is not rejected.
func ParsePath(path, root string, mode Mode) (hrid.HRID, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return hrid.HRID{}, fmt.Errorf("%w: %s is not under %s", ErrOutsideRoot, path, root)
	}
	// SecureJoin resolves symlinks scoped to root instead of refusing an
	// escape, and errors only when resolution itself fails; its result is
	// discarded and the HRID is parsed from the original relative components.
	if _, err := securejoin.SecureJoin(root, rel); err != nil {
		return hrid.HRID{}, fmt.Errorf("%w: %s escapes %s: %v", ErrOutsideRoot, path, root, err)
	}

	withoutExt := strings.TrimSuffix(rel, filepath.Ext(rel))

	switch mode {
	case ModePath:
		return parsePathMode(withoutExt, path)
	default:
		return parseFilenameMode(withoutExt, path)
	}
}

func parseFilenameMode(withoutExt, original string) (hrid.HRID, error) {
	filename := filepath.Base(withoutExt)
	h, err := hrid.Parse(filename)
	if err != nil {
		return hrid.HRID{}, fmt.Errorf("%w: %s: %v", ErrInvalidPath, original, err)
	}
	return h, nil
}

func parsePathMode(withoutExt, original string) (hrid.HRID, error) {
	components := strings.Split(filepath.ToSlash(withoutExt), "/")
	if len(components) == 0 || (len(components) == 1 && components[0] == "") {
		return hrid.HRID{}, fmt.Errorf("%w: %s: no path components", ErrInvalidPath, original)
	}
	if len(components) < 2 {
		return hrid.HRID{}, fmt.Errorf("%w: %s: must have at least KIND/ID", ErrInvalidPath, original)
	}

	idStr := components[len(components)-1]
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return hrid.HRID{}, fmt.Errorf("%w: %s: invalid id %q", ErrInvalidPath, original, idStr)
	}

	kindStr := components[len(components)-2]
	kind, err := hrid.NewKindString(kindStr)
	if err != nil {
		return hrid.HRID{}, fmt.Errorf("%w: %s: invalid kind: %v", ErrInvalidPath, original, err)
	}

	nsParts := components[:len(components)-2]
	ns := make([]hrid.NamespaceSegment, 0, len(nsParts))
	for _, p := range nsParts {
		seg, err := hrid.NewNamespaceSegment(p)
		if err != nil {
			return hrid.HRID{}, fmt.Errorf("%w: %s: invalid namespace segment: %v", ErrInvalidPath, original, err)
		}
		ns = append(ns, seg)
	}

	return hrid.NewWithNamespace(ns, kind, id)
}
