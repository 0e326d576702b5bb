// Package hrid implements the human-readable identifier used to name
// requirements: <namespace*>-<KIND>-<ID>.
package hrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error classes for HRID parsing, matching the taxonomy a caller needs to
// render a useful diagnostic.
var (
	ErrSyntax    = errors.New("hrid: syntax error")
	ErrID        = errors.New("hrid: invalid id")
	ErrKind      = errors.New("hrid: invalid kind")
	ErrNamespace = errors.New("hrid: invalid namespace segment")
)

// NamespaceSegment is one alphabetic component of an HRID's namespace.
// Case is preserved verbatim.
type NamespaceSegment string

// NewNamespaceSegment validates s as alphabetic-only and non-empty.
func NewNamespaceSegment(s string) (NamespaceSegment, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty namespace segment", ErrNamespace)
	}
	for _, r := range s {
		if !isAlpha(r) {
			return "", fmt.Errorf("%w: %q contains non-alphabetic character %q", ErrNamespace, s, r)
		}
	}
	return NamespaceSegment(s), nil
}

// KindString is the uppercase-ASCII category suffix of an HRID.
type KindString string

// NewKindString validates s as non-empty uppercase ASCII letters.
func NewKindString(s string) (KindString, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty kind", ErrKind)
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q is not uppercase ASCII", ErrKind, s)
		}
	}
	return KindString(s), nil
}

// HRID is the parsed form of <namespace*>-<KIND>-<ID>.
type HRID struct {
	Namespace []NamespaceSegment
	Kind      KindString
	ID        uint64
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// New constructs an HRID with no namespace from pre-validated parts.
func New(kind KindString, id uint64) (HRID, error) {
	return NewWithNamespace(nil, kind, id)
}

// NewWithNamespace constructs an HRID from pre-validated parts. The only
// runtime check performed is that id is non-zero; segment alphabets are
// assumed already validated by the caller (infallible constructor).
func NewWithNamespace(namespace []NamespaceSegment, kind KindString, id uint64) (HRID, error) {
	if id == 0 {
		return HRID{}, fmt.Errorf("%w: id must be non-zero", ErrID)
	}
	ns := make([]NamespaceSegment, len(namespace))
	copy(ns, namespace)
	return HRID{Namespace: ns, Kind: kind, ID: id}, nil
}

// Parse validates and parses s into an HRID.
func Parse(s string) (HRID, error) {
	if s == "" {
		return HRID{}, fmt.Errorf("%w: empty string", ErrSyntax)
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.Contains(s, "--") {
		return HRID{}, fmt.Errorf("%w: %q has leading/trailing/double dash", ErrSyntax, s)
	}

	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return HRID{}, fmt.Errorf("%w: %q has no dash separating KIND and ID", ErrSyntax, s)
	}
	for _, p := range parts {
		if p == "" {
			return HRID{}, fmt.Errorf("%w: %q contains an empty segment", ErrSyntax, s)
		}
	}

	idPart := parts[len(parts)-1]
	kindPart := parts[len(parts)-2]
	nsParts := parts[:len(parts)-2]

	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return HRID{}, fmt.Errorf("%w: %q is not a positive integer", ErrID, idPart)
	}
	if id == 0 {
		return HRID{}, fmt.Errorf("%w: id must be non-zero", ErrID)
	}

	kind, err := NewKindString(kindPart)
	if err != nil {
		return HRID{}, err
	}

	ns := make([]NamespaceSegment, 0, len(nsParts))
	for _, p := range nsParts {
		seg, err := NewNamespaceSegment(p)
		if err != nil {
			return HRID{}, err
		}
		ns = append(ns, seg)
	}

	return HRID{Namespace: ns, Kind: kind, ID: id}, nil
}

// Display renders the HRID, padding ID to at least digits characters with
// leading zeros. If the natural width of ID exceeds digits, the full width
// is emitted (never truncated).
func (h HRID) Display(digits int) string {
	var b strings.Builder
	for _, seg := range h.Namespace {
		b.WriteString(string(seg))
		b.WriteByte('-')
	}
	b.WriteString(string(h.Kind))
	b.WriteByte('-')
	fmt.Fprintf(&b, "%0*d", digits, h.ID)
	return b.String()
}

// String renders the HRID with a default 3-digit pad, for debugging and
// log output.
func (h HRID) String() string {
	return h.Display(3)
}

// Equal reports structural equality (namespace tuple, kind, id).
func (h HRID) Equal(other HRID) bool {
	return Compare(h, other) == 0
}

// Compare gives the total order over HRIDs: namespace tuple, then KIND,
// then ID.
func Compare(a, b HRID) int {
	n := len(a.Namespace)
	if len(b.Namespace) < n {
		n = len(b.Namespace)
	}
	for i := 0; i < n; i++ {
		if a.Namespace[i] != b.Namespace[i] {
			if a.Namespace[i] < b.Namespace[i] {
				return -1
			}
			return 1
		}
	}
	if len(a.Namespace) != len(b.Namespace) {
		if len(a.Namespace) < len(b.Namespace) {
			return -1
		}
		return 1
	}
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

// NamespaceKey renders the namespace segments joined by '-'.
func (h HRID) NamespaceKey() string {
	strs := make([]string, len(h.Namespace))
	for i, s := range h.Namespace {
		strs[i] = string(s)
	}
	return strings.Join(strs, "-")
}
