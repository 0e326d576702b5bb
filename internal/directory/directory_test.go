package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reqgraph/reqctl/internal/fingerprint"
	"github.com/reqgraph/reqctl/internal/hrid"
	"github.com/reqgraph/reqctl/internal/reqconfig"
	"github.com/reqgraph/reqctl/internal/reqfile"
)

func mustHRID(t *testing.T, s string) hrid.HRID {
	t.Helper()
	h, err := hrid.Parse(s)
	if err != nil {
		t.Fatalf("hrid.Parse(%q): %v", s, err)
	}
	return h
}

func TestAddRequirementAssignsIncrementingID(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r1, err := d.AddRequirement(nil, "REQ", "first", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	r2, err := d.AddRequirement(nil, "REQ", "second", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}

	if r1.HRID.String() != "REQ-001" {
		t.Errorf("r1 hrid: got %s", r1.HRID)
	}
	if r2.HRID.String() != "REQ-002" {
		t.Errorf("r2 hrid: got %s", r2.HRID)
	}

	if got := len(d.Dirty()); got != 2 {
		t.Errorf("expected 2 dirty entries before flush, got %d", got)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := len(d.Dirty()); got != 0 {
		t.Errorf("expected dirty set cleared after flush, got %d entries", got)
	}

	if _, err := os.Stat(filepath.Join(root, "REQ-001.md")); err != nil {
		t.Errorf("expected REQ-001.md to be written: %v", err)
	}
}

func TestLoadReadsAllSavedRequirements(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r1, err := d.AddRequirement(nil, "X", "one", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	r2, err := d.AddRequirement(nil, "X", "two", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	reqs := reloaded.List()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	found := map[string]bool{}
	for _, r := range reqs {
		found[r.UUID.String()] = true
	}
	if !found[r1.UUID.String()] || !found[r2.UUID.String()] {
		t.Errorf("reload did not find both original requirements")
	}
}

func TestLinkAndUnlinkRequirement(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	parent, err := d.AddRequirement(nil, "SYS", "parent", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement parent: %v", err)
	}
	child, err := d.AddRequirement(nil, "USR", "child", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement child: %v", err)
	}

	if _, err := d.LinkRequirement(child.HRID, parent.HRID); err != nil {
		t.Fatalf("LinkRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	updatedChild, ok := reloaded.FindByHRID(child.HRID)
	if !ok {
		t.Fatal("child not found after reload")
	}
	if len(updatedChild.Parents) != 1 {
		t.Fatalf("expected 1 parent, got %d", len(updatedChild.Parents))
	}

	if err := d.UnlinkRequirement(child.HRID, parent.HRID); err != nil {
		t.Fatalf("UnlinkRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	afterUnlink, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload after unlink: %v", err)
	}
	updatedChild, ok = afterUnlink.FindByHRID(child.HRID)
	if !ok {
		t.Fatal("child not found after unlink reload")
	}
	if len(updatedChild.Parents) != 0 {
		t.Fatalf("expected 0 parents after unlink, got %d", len(updatedChild.Parents))
	}
}

func TestRenamePropagatesToChildren(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	parent, err := d.AddRequirement(nil, "P", "parent", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	child, err := d.AddRequirement(nil, "C", "child", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if _, err := d.LinkRequirement(child.HRID, parent.HRID); err != nil {
		t.Fatalf("LinkRequirement: %v", err)
	}

	newHRID := mustHRID(t, "P-099")
	if err := d.RenameRequirement(parent.HRID, newHRID); err != nil {
		t.Fatalf("RenameRequirement: %v", err)
	}
	if updated := d.UpdateHRIDs(); len(updated) != 0 {
		t.Errorf("rename already rewrote parent hrids; UpdateHRIDs should be a no-op, got %v", updated)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "P-099.md")); err != nil {
		t.Errorf("expected renamed file at canonical path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "P-001.md")); !os.IsNotExist(err) {
		t.Errorf("expected stale file removed after flush, stat err: %v", err)
	}

	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	updatedChild, ok := reloaded.FindByHRID(child.HRID)
	if !ok {
		t.Fatal("child not found after reload")
	}
	for _, p := range updatedChild.Parents {
		if !p.HRID.Equal(newHRID) {
			t.Errorf("expected child parent hrid %s, got %s", newHRID, p.HRID)
		}
	}
}

func TestDeleteRequirementRejectsWithChildrenUnlessOrphaned(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	parent, err := d.AddRequirement(nil, "P", "parent", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	child, err := d.AddRequirement(nil, "C", "child", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if _, err := d.LinkRequirement(child.HRID, parent.HRID); err != nil {
		t.Fatalf("LinkRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if err := d.DeleteRequirement(parent.HRID, false); err == nil {
		t.Fatal("expected delete without orphan to fail")
	}
	if err := d.DeleteRequirement(parent.HRID, true); err != nil {
		t.Fatalf("DeleteRequirement with orphan=true: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush after delete: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "P-001.md")); !os.IsNotExist(err) {
		t.Errorf("expected deleted requirement's file removed, stat err: %v", err)
	}
	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	orphan, ok := reloaded.FindByHRID(child.HRID)
	if !ok {
		t.Fatal("orphaned child not found after reload")
	}
	if len(orphan.Parents) != 0 {
		t.Errorf("expected orphaned child to list no parents, got %d", len(orphan.Parents))
	}
}

func TestKindNotAllowedRejected(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := d.config
	cfg.AddKind("REQ")
	d.config = cfg

	if _, err := d.AddRequirement(nil, "REQ", "ok", "", nil); err != nil {
		t.Fatalf("expected allowed kind to succeed: %v", err)
	}
	if _, err := d.AddRequirement(nil, "OTHER", "nope", "", nil); err == nil {
		t.Fatal("expected disallowed kind to fail")
	}
}

func TestSuspectLinkWorkflow(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	parent, err := d.AddRequirement(nil, "SYS", "original title", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	child, err := d.AddRequirement(nil, "USR", "child", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if _, err := d.LinkRequirement(child.HRID, parent.HRID); err != nil {
		t.Fatalf("LinkRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	parentPath := reloaded.path(parent.HRID)
	data, err := os.ReadFile(parentPath)
	if err != nil {
		t.Fatalf("read parent file: %v", err)
	}
	// Editing the title changes the parent's fingerprint once reloaded;
	// simulate that by writing a new title into the heading line.
	newContent := replaceHeadingTitle(string(data), "changed title")
	if err := os.WriteFile(parentPath, []byte(newContent), 0o644); err != nil {
		t.Fatalf("rewrite parent file: %v", err)
	}

	afterEdit, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload after edit: %v", err)
	}
	suspects := afterEdit.SuspectLinks()
	if len(suspects) != 1 {
		t.Fatalf("expected 1 suspect link, got %d", len(suspects))
	}

	accepted, err := afterEdit.AcceptSuspectLink(child.HRID, parent.HRID)
	if err != nil {
		t.Fatalf("AcceptSuspectLink: %v", err)
	}
	if !accepted {
		t.Fatal("expected link to be accepted")
	}
	if len(afterEdit.SuspectLinks()) != 0 {
		t.Fatal("expected no suspect links after accept")
	}
}

func TestAddRequirementWithParentsLinksEvery(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p1, err := d.AddRequirement(nil, "SYS", "parent one", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement p1: %v", err)
	}
	p2, err := d.AddRequirement(nil, "SYS", "parent two", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement p2: %v", err)
	}

	child, err := d.AddRequirementWithParents(nil, "USR", "child", "", nil, []hrid.HRID{p1.HRID, p2.HRID})
	if err != nil {
		t.Fatalf("AddRequirementWithParents: %v", err)
	}
	if len(child.Parents) != 2 {
		t.Fatalf("expected 2 parents, got %d", len(child.Parents))
	}
}

func TestAddRequirementWithParentsRollsBackOnFailedLink(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	good, err := d.AddRequirement(nil, "SYS", "good parent", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	missing := mustHRID(t, "SYS-999")

	before := d.List()
	_, err = d.AddRequirementWithParents(nil, "USR", "child", "", nil, []hrid.HRID{good.HRID, missing})
	if err == nil {
		t.Fatal("expected AddRequirementWithParents to fail when a parent does not exist")
	}

	after := d.List()
	if len(after) != len(before) {
		t.Fatalf("expected rollback to leave %d requirements, got %d", len(before), len(after))
	}
	for _, req := range after {
		if req.Content.Title == "child" {
			t.Fatal("expected rolled-back child requirement to be gone")
		}
	}

	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.List()) != len(before) {
		t.Fatalf("expected rollback to also remove the file on disk, reload found %d", len(reloaded.List()))
	}
}

func TestMoveRequirementToPathRenamesByDestination(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	req, err := d.AddRequirement(nil, "REQ", "movable", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	newPath := filepath.Join(root, "REQ-042.md")
	if err := d.MoveRequirementToPath(req.HRID, newPath); err != nil {
		t.Fatalf("MoveRequirementToPath: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush after move: %v", err)
	}

	moved := mustHRID(t, "REQ-042")
	if _, ok := d.FindByHRID(moved); !ok {
		t.Fatal("expected requirement to be found under its new hrid")
	}
	if _, ok := d.FindByHRID(req.HRID); ok {
		t.Fatal("expected old hrid to no longer resolve")
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("expected file at new path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "REQ-001.md")); !os.IsNotExist(err) {
		t.Errorf("expected old file removed after flush, stat err: %v", err)
	}
}

func TestCheckPathDriftAndSyncPaths(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	req, err := d.AddRequirement(nil, "REQ", "drifted", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// Filename-mode parsing only looks at the base name, so a file keeps
	// declaring the same HRID even after being moved into a subdirectory;
	// that's what makes it "drifted" rather than just unrecognised.
	canonical := d.path(req.HRID)
	strayDir := filepath.Join(root, "archive")
	if err := os.MkdirAll(strayDir, 0o755); err != nil {
		t.Fatalf("mkdir archive: %v", err)
	}
	strayPath := filepath.Join(strayDir, filepath.Base(canonical))
	if err := os.Rename(canonical, strayPath); err != nil {
		t.Fatalf("rename to stray path: %v", err)
	}

	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	drift := reloaded.CheckPathDrift()
	if len(drift) != 1 {
		t.Fatalf("expected 1 path drift after out-of-band move, got %d", len(drift))
	}
	if drift[0].ActualPath != strayPath {
		t.Errorf("expected drift to report actual path %s, got %s", strayPath, drift[0].ActualPath)
	}
	if drift[0].Canonical != canonical {
		t.Errorf("expected drift to report canonical path %s, got %s", canonical, drift[0].Canonical)
	}

	if err := reloaded.SyncPaths(); err != nil {
		t.Fatalf("SyncPaths: %v", err)
	}
	if len(reloaded.CheckPathDrift()) != 0 {
		t.Fatal("expected no path drift after SyncPaths")
	}
	if _, err := os.Stat(canonical); err != nil {
		t.Errorf("expected file restored at canonical path: %v", err)
	}
	if _, err := os.Stat(strayPath); !os.IsNotExist(err) {
		t.Errorf("expected stray file to be removed, stat err: %v", err)
	}
}

func TestTemplateExpansionPrefersFullPrefix(t *testing.T) {
	root := t.TempDir()
	templates := filepath.Join(root, ".req", "templates")
	if err := os.MkdirAll(templates, 0o755); err != nil {
		t.Fatalf("mkdir templates: %v", err)
	}
	if err := os.WriteFile(filepath.Join(templates, "USR.md"), []byte("generic user template"), 0o644); err != nil {
		t.Fatalf("write kind template: %v", err)
	}
	if err := os.WriteFile(filepath.Join(templates, "auth-USR.md"), []byte("auth user template"), 0o644); err != nil {
		t.Fatalf("write prefix template: %v", err)
	}

	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	auth, err := hrid.NewNamespaceSegment("auth")
	if err != nil {
		t.Fatal(err)
	}
	namespaced, err := d.AddRequirement([]hrid.NamespaceSegment{auth}, "USR", "", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement namespaced: %v", err)
	}
	if namespaced.Content.Body != "auth user template" {
		t.Errorf("expected full-prefix template, got %q", namespaced.Content.Body)
	}

	bare, err := d.AddRequirement(nil, "USR", "", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement bare: %v", err)
	}
	if bare.Content.Body != "generic user template" {
		t.Errorf("expected kind template, got %q", bare.Content.Body)
	}

	explicit, err := d.AddRequirement(nil, "USR", "", "my own body", nil)
	if err != nil {
		t.Fatalf("AddRequirement explicit: %v", err)
	}
	if explicit.Content.Body != "my own body" {
		t.Errorf("user-provided content must never be overridden, got %q", explicit.Content.Body)
	}
}

func TestLoadRejectsUnrecognisedFilesByDefault(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("just some notes"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	_, err := Load(context.Background(), root)
	var unrec *ErrUnrecognisedFiles
	if !errors.As(err, &unrec) {
		t.Fatalf("expected ErrUnrecognisedFiles, got %v", err)
	}
	if len(unrec.Paths) != 1 {
		t.Fatalf("expected 1 offending path, got %v", unrec.Paths)
	}
}

func TestLoadSkipsUnrecognisedFilesWhenAllowed(t *testing.T) {
	root := t.TempDir()
	cfg := reqconfig.Default()
	cfg.AllowUnrecognised = true
	if err := reqconfig.SaveToRoot(root, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("just some notes"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(d.List()); got != 0 {
		t.Fatalf("expected stray file skipped, got %d requirements", got)
	}
}

// A path-mode layout file stops being recognisable after switching back
// to filename mode, because a bare "001" stem is not a valid HRID.
func TestLayoutModeSwitchMakesPathModeFilesUnrecognised(t *testing.T) {
	root := t.TempDir()
	cfg := reqconfig.Default()
	cfg.SubfoldersAreNamespaces = true
	if err := reqconfig.SaveToRoot(root, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	auth, _ := hrid.NewNamespaceSegment("auth")
	api, _ := hrid.NewNamespaceSegment("api")
	req, err := d.AddRequirement([]hrid.NamespaceSegment{auth, api}, "SYS", "layered", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "auth", "api", "SYS", "001.md")); err != nil {
		t.Fatalf("expected path-mode layout on disk: %v", err)
	}

	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload in path mode: %v", err)
	}
	if _, ok := reloaded.FindByHRID(req.HRID); !ok {
		t.Fatal("expected auth-api-SYS-001 to load in path mode")
	}

	cfg.SubfoldersAreNamespaces = false
	if err := reqconfig.SaveToRoot(root, cfg); err != nil {
		t.Fatalf("save filename-mode config: %v", err)
	}
	if _, err := Load(context.Background(), root); err == nil {
		t.Fatal("expected filename-mode load to reject the path-mode file")
	}

	cfg.AllowUnrecognised = true
	if err := reqconfig.SaveToRoot(root, cfg); err != nil {
		t.Fatalf("save permissive config: %v", err)
	}
	permissive, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("permissive load: %v", err)
	}
	if got := len(permissive.List()); got != 0 {
		t.Fatalf("expected permissive filename-mode load to skip the file, got %d", got)
	}
}

func TestFlushedChildFileRecordsParentLink(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	child, err := d.AddRequirement(nil, "USR", "alpha", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement child: %v", err)
	}
	parent, err := d.AddRequirement(nil, "SYS", "beta", "", nil)
	if err != nil {
		t.Fatalf("AddRequirement parent: %v", err)
	}
	if _, err := d.LinkRequirement(child.HRID, parent.HRID); err != nil {
		t.Fatalf("LinkRequirement: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "USR-001.md"))
	if err != nil {
		t.Fatalf("read child file: %v", err)
	}
	doc, err := reqfile.Parse(data)
	if err != nil {
		t.Fatalf("parse child file: %v", err)
	}
	if len(doc.Parents) != 1 {
		t.Fatalf("expected exactly one parent entry, got %d", len(doc.Parents))
	}
	p := doc.Parents[0]
	if p.UUID != parent.UUID {
		t.Errorf("parent uuid = %s, want %s", p.UUID, parent.UUID)
	}
	if !p.HRID.Equal(parent.HRID) {
		t.Errorf("parent hrid = %s, want %s", p.HRID, parent.HRID)
	}
	if want := fingerprint.Compute("beta", "", nil); p.Fingerprint != want {
		t.Errorf("parent fingerprint = %s, want %s", p.Fingerprint, want)
	}
}

func TestLoadReportsBothPathsOnDuplicateUUID(t *testing.T) {
	root := t.TempDir()
	id := "0b8e7c2e-9f6d-4a1b-8c3d-5e2f7a9b1c4d"
	file := func(name string) string {
		return "---\n_version: \"1\"\nuuid: " + id + "\ncreated: 2026-01-01T00:00:00Z\n---\n# " + name + " duplicated\n"
	}
	if err := os.WriteFile(filepath.Join(root, "REQ-001.md"), []byte(file("REQ-001")), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "REQ-002.md"), []byte(file("REQ-002")), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}

	_, err := Load(context.Background(), root)
	if err == nil {
		t.Fatal("expected duplicate uuid to fail the load")
	}
	msg := err.Error()
	if !strings.Contains(msg, "REQ-001.md") || !strings.Contains(msg, "REQ-002.md") {
		t.Errorf("expected both file paths in the error, got %q", msg)
	}
}

func TestFindOrphanedDescendantsExcludesSharedLineage(t *testing.T) {
	root := t.TempDir()
	d, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	top, err := d.AddRequirement(nil, "SYS", "top", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	other, err := d.AddRequirement(nil, "SYS", "other root", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	solo, err := d.AddRequirement(nil, "USR", "only under top", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	shared, err := d.AddRequirement(nil, "USR", "under both", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.LinkRequirement(solo.HRID, top.HRID); err != nil {
		t.Fatal(err)
	}
	if _, err := d.LinkRequirement(shared.HRID, top.HRID); err != nil {
		t.Fatal(err)
	}
	if _, err := d.LinkRequirement(shared.HRID, other.HRID); err != nil {
		t.Fatal(err)
	}

	orphaned, err := d.FindOrphanedDescendants(top.HRID)
	if err != nil {
		t.Fatalf("FindOrphanedDescendants: %v", err)
	}
	if len(orphaned) != 1 || !orphaned[0].Equal(solo.HRID) {
		t.Fatalf("expected only %s orphaned, got %v", solo.HRID, orphaned)
	}

	removed, err := d.DeleteCascade(top.HRID)
	if err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}
	if len(removed) != 1 || !removed[0].Equal(solo.HRID) {
		t.Fatalf("expected cascade to remove only %s, got %v", solo.HRID, removed)
	}
	if _, ok := d.FindByHRID(shared.HRID); !ok {
		t.Fatal("requirement with another ancestor must survive the cascade")
	}
	if _, ok := d.FindByHRID(top.HRID); ok {
		t.Fatal("cascade target itself must be gone")
	}
}

func replaceHeadingTitle(content, newTitle string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				lines[i] = fields[0] + " " + fields[1] + " " + newTitle
			}
			break
		}
	}
	return strings.Join(lines, "\n")
}
