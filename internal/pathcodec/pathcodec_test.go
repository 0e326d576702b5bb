package pathcodec

import (
	"path/filepath"
	"testing"

	"github.com/reqgraph/reqctl/internal/hrid"
)

func mustParse(t *testing.T, s string) hrid.HRID {
	t.Helper()
	h, err := hrid.Parse(s)
	if err != nil {
		t.Fatalf("hrid.Parse(%q): %v", s, err)
	}
	return h
}

func TestConstructPathFilenameMode(t *testing.T) {
	root := "/root"
	h := mustParse(t, "SYSTEM-AUTH-REQ-001")
	got := ConstructPath(root, h, ModeFilename, 3)
	want := filepath.Join(root, "SYSTEM-AUTH-REQ-001.md")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConstructPathPathMode(t *testing.T) {
	root := "/root"
	h := mustParse(t, "SYSTEM-AUTH-REQ-001")
	got := ConstructPath(root, h, ModePath, 3)
	want := filepath.Join(root, "SYSTEM", "AUTH", "REQ", "001.md")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConstructPathPathModeNoNamespace(t *testing.T) {
	root := "/root"
	h := mustParse(t, "REQ-001")
	got := ConstructPath(root, h, ModePath, 3)
	want := filepath.Join(root, "REQ", "001.md")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConstructPathCustomDigits(t *testing.T) {
	root := "/root"
	h := mustParse(t, "REQ-001")
	got := ConstructPath(root, h, ModePath, 5)
	want := filepath.Join(root, "REQ", "00001.md")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRoundTripFilenameMode(t *testing.T) {
	dir := t.TempDir()
	h := mustParse(t, "auth-api-SYS-001")
	path := ConstructPath(dir, h, ModeFilename, 3)
	got, err := ParsePath(path, dir, ModeFilename)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if !got.Equal(h) {
		t.Fatalf("round trip mismatch: %+v != %+v", got, h)
	}
}

func TestRoundTripPathMode(t *testing.T) {
	dir := t.TempDir()
	h := mustParse(t, "auth-api-SYS-001")
	path := ConstructPath(dir, h, ModePath, 3)
	got, err := ParsePath(path, dir, ModePath)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if !got.Equal(h) {
		t.Fatalf("round trip mismatch: %+v != %+v", got, h)
	}
}

func TestParsePathOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	_, err := ParsePath("/somewhere/else/REQ-001.md", dir, ModeFilename)
	if err == nil {
		t.Fatal("expected an error for a path outside root")
	}
}

func TestParsePathInvalidIDPathMode(t *testing.T) {
	dir := t.TempDir()
	_, err := ParsePath(filepath.Join(dir, "REQ", "invalid.md"), dir, ModePath)
	if err == nil {
		t.Fatal("expected an error for a non-numeric id component")
	}
}
