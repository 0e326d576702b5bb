// Package directory is the filesystem-backed store of requirements: a
// thin wrapper around graph.Tree that knows how to load a requirements
// root from disk, keep dirty files in sync, and persist every graph
// mutation back to markdown.
package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/reqgraph/reqctl/internal/graph"
	"github.com/reqgraph/reqctl/internal/hrid"
	"github.com/reqgraph/reqctl/internal/pathcodec"
	"github.com/reqgraph/reqctl/internal/reqconfig"
	"github.com/reqgraph/reqctl/internal/reqfile"
)

// ErrKindNotAllowed is returned when a requirement's kind is not present
// in the configured allow-list.
var ErrKindNotAllowed = errors.New("directory: kind not allowed")

// ErrUnrecognisedFiles is returned by Load when markdown files are found
// that cannot be parsed as requirements and the configuration does not
// permit unrecognised files.
type ErrUnrecognisedFiles struct {
	Paths []string
}

func (e *ErrUnrecognisedFiles) Error() string {
	const maxDisplay = 5
	shown := e.Paths
	suffix := ""
	if len(shown) > maxDisplay {
		suffix = fmt.Sprintf("... (and %d more)", len(shown)-maxDisplay)
		shown = shown[:maxDisplay]
	}
	return "unrecognised files: " + strings.Join(shown, ", ") + suffix
}

// aggregateError collects per-path failures from a batch operation that
// does not fail fast, matching the teacher's "attempt everything, report
// everything" save-failure reporting.
type aggregateError struct {
	op       string
	failures []pathError
}

type pathError struct {
	Path string
	Err  error
}

func (e *aggregateError) Error() string {
	const maxDisplay = 5
	parts := make([]string, 0, len(e.failures))
	for _, f := range e.failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Path, f.Err))
	}
	suffix := ""
	if len(parts) > maxDisplay {
		suffix = fmt.Sprintf("... (and %d more)", len(parts)-maxDisplay)
		parts = parts[:maxDisplay]
	}
	return fmt.Sprintf("failed to %s: %s%s", e.op, strings.Join(parts, ", "), suffix)
}

// Directory is a filesystem-backed requirement store.
type Directory struct {
	root   string
	tree   *graph.Tree
	config reqconfig.Config

	// pathsByUUID records where each requirement was actually loaded
	// from (or last written to), which may differ from its canonical
	// path if a file was moved on disk outside of reqctl.
	pathsByUUID map[uuid.UUID]string

	// dirty holds the uuids whose files must be rewritten on the next
	// Flush. Mutations only touch the in-memory tree and this set; no
	// file is written until Flush runs.
	dirty map[uuid.UUID]struct{}
}

// Load opens root, reads its configuration, and parses every markdown
// file in the tree (excluding .req/) into the in-memory graph. Files are
// parsed in parallel; the tree is rebuilt sequentially afterward since
// graph.Tree is not safe for concurrent mutation.
func Load(ctx context.Context, root string) (*Directory, error) {
	cfg, err := reqconfig.LoadFromRoot(root)
	if err != nil {
		return nil, fmt.Errorf("directory: load config: %w", err)
	}

	paths, err := collectMarkdownPaths(root)
	if err != nil {
		return nil, fmt.Errorf("directory: scan requirements root: %w", err)
	}

	mode := pathcodec.ModeFilename
	if cfg.SubfoldersAreNamespaces {
		mode = pathcodec.ModePath
	}

	type parsed struct {
		path string
		req  graph.Requirement
	}

	results := make([]parsed, len(paths))
	errs := make([]error, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			req, err := loadRequirementFile(path, root, mode)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = parsed{path: path, req: req}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var unrecognised []string
	tree := graph.New()
	pathsByUUID := make(map[uuid.UUID]string)
	for i, r := range results {
		if errs[i] != nil {
			unrecognised = append(unrecognised, paths[i])
			continue
		}
		if err := tree.Insert(r.req); err != nil {
			// Duplicate uuid/hrid is a conflict between two otherwise
			// valid files, not an unrecognised file: name both paths so
			// the operator can pick which one to fix.
			if prevPath, ok := conflictingPath(tree, pathsByUUID, r.req); ok {
				return nil, fmt.Errorf("directory: %s conflicts with %s: %w", r.path, prevPath, err)
			}
			return nil, fmt.Errorf("directory: %s: %w", r.path, err)
		}
		pathsByUUID[r.req.UUID] = r.path
	}

	if !cfg.AllowUnrecognised && len(unrecognised) > 0 {
		sort.Strings(unrecognised)
		return nil, &ErrUnrecognisedFiles{Paths: unrecognised}
	}

	return &Directory{
		root:        root,
		tree:        tree,
		config:      cfg,
		pathsByUUID: pathsByUUID,
		dirty:       make(map[uuid.UUID]struct{}),
	}, nil
}

// conflictingPath locates the file an insert conflict collided with:
// either the file already loaded under the same uuid, or the one whose
// hrid the new requirement tried to reuse.
func conflictingPath(tree *graph.Tree, pathsByUUID map[uuid.UUID]string, r graph.Requirement) (string, bool) {
	if p, ok := pathsByUUID[r.UUID]; ok {
		return p, true
	}
	if existing, ok := tree.FindByHRID(r.HRID); ok {
		if p, ok := pathsByUUID[existing.UUID]; ok {
			return p, true
		}
	}
	return "", false
}

func collectMarkdownPaths(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == ".req" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}

func loadRequirementFile(path, root string, mode pathcodec.Mode) (graph.Requirement, error) {
	h, err := pathcodec.ParsePath(path, root, mode)
	if err != nil {
		return graph.Requirement{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return graph.Requirement{}, err
	}
	doc, err := reqfile.Parse(data)
	if err != nil {
		return graph.Requirement{}, err
	}
	if !doc.HRID.Equal(h) {
		return graph.Requirement{}, fmt.Errorf("directory: path %s declares hrid %s but file heading says %s", path, h, doc.HRID)
	}

	parents := make(map[uuid.UUID]graph.Parent, len(doc.Parents))
	for _, p := range doc.Parents {
		parents[p.UUID] = graph.Parent{HRID: p.HRID, Fingerprint: p.Fingerprint}
	}

	return graph.Requirement{
		UUID: doc.UUID,
		HRID: doc.HRID,
		Content: graph.Content{
			Title:   doc.Title,
			Body:    doc.Body,
			Tags:    doc.Tags,
			Created: doc.Created,
		},
		Parents: parents,
	}, nil
}

// path returns the canonical on-disk path for h.
func (d *Directory) path(h hrid.HRID) string {
	mode := pathcodec.ModeFilename
	if d.config.SubfoldersAreNamespaces {
		mode = pathcodec.ModePath
	}
	return pathcodec.ConstructPath(d.root, h, mode, d.config.Digits)
}

func (d *Directory) markDirty(ids ...uuid.UUID) {
	for _, id := range ids {
		d.dirty[id] = struct{}{}
	}
}

// Dirty returns the uuids whose files are pending a rewrite, sorted for
// deterministic reporting.
func (d *Directory) Dirty() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(d.dirty))
	for id := range d.dirty {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Flush writes every dirty requirement to its canonical path. When a
// requirement's previous on-disk location differs from canonical (it was
// renamed, or the layout mode changed), the stale file is removed after
// the new one is written. Entries that fail to write stay dirty, so a
// second Flush retries exactly the remaining work; failures are
// aggregated rather than aborting the batch.
func (d *Directory) Flush() error {
	var failures []pathError
	for _, id := range d.Dirty() {
		req, ok := d.tree.FindByUUID(id)
		if !ok {
			// The node was removed after being marked dirty; there is
			// nothing left to write.
			delete(d.dirty, id)
			continue
		}
		prev := d.pathsByUUID[id]
		if err := d.save(req); err != nil {
			failures = append(failures, pathError{Path: d.path(req.HRID), Err: err})
			continue
		}
		if prev != "" && prev != d.pathsByUUID[id] {
			_ = os.Remove(prev)
		}
		delete(d.dirty, id)
	}
	if len(failures) > 0 {
		return &aggregateError{op: "flush", failures: failures}
	}
	return nil
}

// save renders and writes req to its canonical path.
func (d *Directory) save(req graph.Requirement) error {
	parents := make([]reqfile.ParentRef, 0, len(req.Parents))
	for id, p := range req.Parents {
		parents = append(parents, reqfile.ParentRef{UUID: id, Fingerprint: p.Fingerprint, HRID: p.HRID})
	}
	sort.Slice(parents, func(i, j int) bool { return hrid.Compare(parents[i].HRID, parents[j].HRID) < 0 })

	doc := reqfile.Document{
		UUID:    req.UUID,
		Created: req.Content.Created,
		Tags:    req.Content.Tags,
		Parents: parents,
		HRID:    req.HRID,
		Title:   req.Content.Title,
		Body:    req.Content.Body,
	}

	rendered, err := reqfile.Render(doc, d.config.Digits)
	if err != nil {
		return err
	}

	path := d.path(req.HRID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return err
	}
	if d.pathsByUUID == nil {
		d.pathsByUUID = make(map[uuid.UUID]string)
	}
	d.pathsByUUID[req.UUID] = path
	return nil
}

func (d *Directory) requirementView(id uuid.UUID) (graph.Requirement, error) {
	req, ok := d.tree.FindByUUID(id)
	if !ok {
		return graph.Requirement{}, graph.ErrNotFound
	}
	return req, nil
}

// loadTemplate returns the contents of the most specific matching
// template under .req/templates/, or "" if none exists: first the full
// namespace+kind prefix, then the bare kind.
func (d *Directory) loadTemplate(h hrid.HRID) string {
	templatesDir := filepath.Join(d.root, ".req", "templates")

	var prefix strings.Builder
	for _, seg := range h.Namespace {
		prefix.WriteString(string(seg))
		prefix.WriteByte('-')
	}
	prefix.WriteString(string(h.Kind))

	if content, ok := readTemplateFile(filepath.Join(templatesDir, prefix.String()+".md")); ok {
		return content
	}
	if content, ok := readTemplateFile(filepath.Join(templatesDir, string(h.Kind)+".md")); ok {
		return content
	}
	return ""
}

func readTemplateFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// AddRequirement creates a new requirement of kind under the given
// namespace, auto-assigning the next HRID index. When both title and
// body are empty, the body is filled from a configured template's contents.
func (d *Directory) AddRequirement(namespace []hrid.NamespaceSegment, kind, title, body string, tags []string) (graph.Requirement, error) {
	kindStr, err := hrid.NewKindString(kind)
	if err != nil {
		return graph.Requirement{}, err
	}
	if !d.config.IsKindAllowed(string(kindStr)) {
		return graph.Requirement{}, fmt.Errorf("%w: %s (allowed: %s)", ErrKindNotAllowed, kindStr, strings.Join(d.config.SortedKinds(), ", "))
	}

	id := d.tree.NextIndex(namespace, kindStr)
	h, err := hrid.NewWithNamespace(namespace, kindStr, id)
	if err != nil {
		return graph.Requirement{}, err
	}

	if title == "" && body == "" {
		body = d.loadTemplate(h)
	}

	req := graph.NewRequirement(h, graph.Content{Title: title, Body: body, Tags: tags, Created: time.Now().UTC()})
	if err := d.tree.Insert(req); err != nil {
		return graph.Requirement{}, err
	}
	d.markDirty(req.UUID)
	return req, nil
}

// AddRequirementWithParents creates a new requirement and links it to
// each of parents, all as one transaction: if any link fails partway
// through, the new requirement and any edges already created for it are
// rolled back so the tree and disk are left exactly as they were.
func (d *Directory) AddRequirementWithParents(namespace []hrid.NamespaceSegment, kind, title, body string, tags []string, parents []hrid.HRID) (graph.Requirement, error) {
	req, err := d.AddRequirement(namespace, kind, title, body, tags)
	if err != nil {
		return graph.Requirement{}, err
	}

	for _, parent := range parents {
		if _, linkErr := d.LinkRequirement(req.HRID, parent); linkErr != nil {
			if delErr := d.DeleteRequirement(req.HRID, true); delErr != nil {
				return graph.Requirement{}, fmt.Errorf("directory: link %s to %s failed (%w) and rollback also failed: %v", req.HRID, parent, linkErr, delErr)
			}
			return graph.Requirement{}, fmt.Errorf("directory: link %s to %s: %w", req.HRID, parent, linkErr)
		}
	}

	final, err := d.requirementView(req.UUID)
	if err != nil {
		return graph.Requirement{}, err
	}
	return final, nil
}

// LinkRequirement records a parent-child relationship and marks the
// child's file for rewrite.
func (d *Directory) LinkRequirement(child, parent hrid.HRID) (graph.LinkOutcome, error) {
	outcome, err := d.tree.Link(child, parent)
	if err != nil {
		return graph.LinkOutcome{}, err
	}
	d.markDirty(outcome.ChildUUID)
	return outcome, nil
}

// UnlinkRequirement removes a parent-child relationship and marks the
// child's file for rewrite.
func (d *Directory) UnlinkRequirement(child, parent hrid.HRID) error {
	childUUID, err := d.tree.Unlink(child, parent)
	if err != nil {
		return err
	}
	d.markDirty(childUUID)
	return nil
}

// RenameRequirement moves a requirement to a new HRID and marks it and
// every child that referenced the old HRID for rewrite. The stale file
// at the old path is removed by Flush once the new one is written.
func (d *Directory) RenameRequirement(oldHRID, newHRID hrid.HRID) error {
	id, children, err := d.tree.Rename(oldHRID, newHRID)
	if err != nil {
		return err
	}
	d.markDirty(id)
	d.markDirty(children...)
	return nil
}

// MoveRequirementToPath derives the HRID a new file location would
// declare under the directory's layout mode, then reuses Rename for the
// bookkeeping if that HRID differs from the current one.
func (d *Directory) MoveRequirementToPath(h hrid.HRID, newPath string) error {
	mode := pathcodec.ModeFilename
	if d.config.SubfoldersAreNamespaces {
		mode = pathcodec.ModePath
	}
	newHRID, err := pathcodec.ParsePath(newPath, d.root, mode)
	if err != nil {
		return err
	}
	if newHRID.Equal(h) {
		return nil
	}
	return d.RenameRequirement(h, newHRID)
}

// MoveRequirement relocates a requirement to a new namespace while
// keeping its kind and numeric id, reusing Rename for the underlying
// bookkeeping.
func (d *Directory) MoveRequirement(h hrid.HRID, newNamespace []hrid.NamespaceSegment) error {
	newHRID, err := hrid.NewWithNamespace(newNamespace, h.Kind, h.ID)
	if err != nil {
		return err
	}
	return d.RenameRequirement(h, newHRID)
}

// DeleteRequirement removes a requirement's file and node. If orphan is
// false and the requirement has children, it fails rather than leaving
// dangling parent references.
func (d *Directory) DeleteRequirement(h hrid.HRID, orphan bool) error {
	req, ok := d.tree.FindByHRID(h)
	if !ok {
		return graph.ErrNotFound
	}
	if !orphan && len(req.Children) > 0 {
		return fmt.Errorf("directory: %s has %d children; pass orphan=true to delete anyway", h, len(req.Children))
	}

	// Children lose their edge to this node, so their files must be
	// rewritten to stop listing it as a parent.
	d.markDirty(req.Children...)

	if err := d.tree.Remove(req.UUID); err != nil {
		return err
	}
	actualPath := d.actualPath(req.UUID, h)
	delete(d.pathsByUUID, req.UUID)
	delete(d.dirty, req.UUID)
	if err := os.Remove(actualPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// actualPath returns the path a requirement was last loaded from or
// written to, falling back to its canonical path if unrecorded.
func (d *Directory) actualPath(id uuid.UUID, h hrid.HRID) string {
	if p, ok := d.pathsByUUID[id]; ok {
		return p
	}
	return d.path(h)
}

// FindOrphanedDescendants returns the descendants of h whose entire
// ancestry runs through h: removing h would leave them with no ancestor
// outside its subtree. Descendants that are also reachable from some
// other ancestor are not orphaned and are excluded.
func (d *Directory) FindOrphanedDescendants(h hrid.HRID) ([]hrid.HRID, error) {
	req, ok := d.tree.FindByHRID(h)
	if !ok {
		return nil, graph.ErrNotFound
	}

	subtree := map[uuid.UUID]struct{}{req.UUID: {}}
	descendants := d.tree.DescendantsOf(req.UUID)
	for _, id := range descendants {
		subtree[id] = struct{}{}
	}

	var orphaned []uuid.UUID
	for _, id := range descendants {
		inside := true
		for _, anc := range d.tree.AncestorsOf(id) {
			if _, ok := subtree[anc]; !ok {
				inside = false
				break
			}
		}
		if inside {
			orphaned = append(orphaned, id)
		}
	}
	return d.idsToHRIDs(orphaned), nil
}

// DeleteCascade removes h and every descendant whose only remaining
// ancestry ran through it, so no requirement is left dangling without
// the lineage that justified its existence.
func (d *Directory) DeleteCascade(h hrid.HRID) ([]hrid.HRID, error) {
	orphaned, err := d.FindOrphanedDescendants(h)
	if err != nil {
		return nil, err
	}
	for _, oh := range orphaned {
		if err := d.DeleteRequirement(oh, true); err != nil {
			return nil, fmt.Errorf("directory: cascade delete %s: %w", oh, err)
		}
	}
	if err := d.DeleteRequirement(h, true); err != nil {
		return nil, err
	}
	return orphaned, nil
}

// UpdateHRIDs rewrites every parent reference whose stored HRID has
// drifted from the parent's current HRID, marking every affected child
// for rewrite. Returns the affected children's HRIDs; a second call
// right after returns an empty slice.
func (d *Directory) UpdateHRIDs() []hrid.HRID {
	updated := d.tree.UpdateHRIDs()
	d.markDirty(updated...)
	return d.idsToHRIDs(updated)
}

// CheckHRIDDrift reports every child requirement with at least one edge
// whose stored parent_hrid no longer matches that parent's current
// HRID, typically because the parent was renamed without the child's
// edge being refreshed via UpdateHRIDs.
func (d *Directory) CheckHRIDDrift() []hrid.HRID {
	ids := d.tree.CheckHRIDDrift()
	out := make([]hrid.HRID, 0, len(ids))
	for _, id := range ids {
		if req, ok := d.tree.FindByUUID(id); ok {
			out = append(out, req.HRID)
		}
	}
	return out
}

// PathDrift names one requirement whose on-disk file no longer sits at
// its canonical path.
type PathDrift struct {
	HRID       hrid.HRID
	ActualPath string
	Canonical  string
}

// CheckPathDrift reports every requirement whose actual on-disk path
// (where it was loaded from, or last written to) differs from the
// canonical path its HRID and the current layout mode dictate. This is
// distinct from CheckHRIDDrift: a file can sit in the wrong place on
// disk while every parent_hrid in it is perfectly up to date, and vice
// versa.
func (d *Directory) CheckPathDrift() []PathDrift {
	var drift []PathDrift
	for _, h := range d.tree.AllHRIDs() {
		req, ok := d.tree.FindByHRID(h)
		if !ok {
			continue
		}
		actual, ok := d.pathsByUUID[req.UUID]
		canonical := d.path(h)
		if !ok || actual == canonical {
			continue
		}
		drift = append(drift, PathDrift{HRID: h, ActualPath: actual, Canonical: canonical})
	}
	return drift
}

// SyncPaths moves every requirement file whose actual path differs from
// its canonical path into place, rewriting it via the markdown codec
// rather than a bare filesystem rename so formatting stays canonical.
// It does not fail fast; failures are aggregated by the flush.
func (d *Directory) SyncPaths() error {
	for _, pd := range d.CheckPathDrift() {
		if req, ok := d.tree.FindByHRID(pd.HRID); ok {
			d.markDirty(req.UUID)
		}
	}
	return d.Flush()
}

// SuspectLinks returns every parent link whose stored fingerprint no
// longer matches the parent's current content.
func (d *Directory) SuspectLinks() []graph.SuspectLink {
	return d.tree.SuspectLinks()
}

// AcceptSuspectLink refreshes the stored fingerprint for one link and
// persists the child.
func (d *Directory) AcceptSuspectLink(child, parent hrid.HRID) (bool, error) {
	childReq, ok := d.tree.FindByHRID(child)
	if !ok {
		return false, fmt.Errorf("%w: %s", graph.ErrChildNotFound, child)
	}
	parentReq, ok := d.tree.FindByHRID(parent)
	if !ok {
		return false, fmt.Errorf("%w: %s", graph.ErrParentNotFound, parent)
	}

	updated, err := d.tree.AcceptSuspectLink(childReq.UUID, parentReq.UUID)
	if err != nil {
		return false, err
	}
	if updated {
		d.markDirty(childReq.UUID)
	}
	return updated, nil
}

// AcceptAllSuspectLinks refreshes every stale fingerprint and marks
// every affected child for rewrite; skips reported by the graph layer
// are passed through unchanged for the caller to report.
func (d *Directory) AcceptAllSuspectLinks() ([]graph.AcceptedEdge, []graph.SkipReason) {
	accepted, skipped := d.tree.AcceptAllSuspectLinks()
	for _, edge := range accepted {
		d.markDirty(edge.ChildUUID)
	}
	return accepted, skipped
}

// DetectCycles reports every distinct cycle in the dependency graph.
func (d *Directory) DetectCycles() [][]hrid.HRID {
	return d.tree.DetectCycles()
}

// FindByHRID looks up a requirement by its human-readable id.
func (d *Directory) FindByHRID(h hrid.HRID) (graph.Requirement, bool) {
	return d.tree.FindByHRID(h)
}

// Ancestors returns every ancestor (recursively) of h's requirement.
func (d *Directory) Ancestors(h hrid.HRID) ([]hrid.HRID, error) {
	req, ok := d.tree.FindByHRID(h)
	if !ok {
		return nil, graph.ErrNotFound
	}
	return d.idsToHRIDs(d.tree.AncestorsOf(req.UUID)), nil
}

// Descendants returns every descendant (recursively) of h's requirement.
func (d *Directory) Descendants(h hrid.HRID) ([]hrid.HRID, error) {
	req, ok := d.tree.FindByHRID(h)
	if !ok {
		return nil, graph.ErrNotFound
	}
	return d.idsToHRIDs(d.tree.DescendantsOf(req.UUID)), nil
}

func (d *Directory) idsToHRIDs(ids []uuid.UUID) []hrid.HRID {
	out := make([]hrid.HRID, 0, len(ids))
	for _, id := range ids {
		if req, ok := d.tree.FindByUUID(id); ok {
			out = append(out, req.HRID)
		}
	}
	return out
}

// Config returns the directory's loaded configuration.
func (d *Directory) Config() reqconfig.Config {
	return d.config
}

// SaveConfig persists cfg as the directory's configuration. It does not
// itself reload the in-memory graph: a config change that affects load
// (allowed kinds, layout mode, digit width) must be followed by a fresh
// Load for the Directory to become self-consistent again, which is why
// the service layer (internal/service) always pairs this with a reload
// under the same write lock.
func (d *Directory) SaveConfig(cfg reqconfig.Config) error {
	if err := reqconfig.SaveToRoot(d.root, cfg); err != nil {
		return err
	}
	d.config = cfg
	return nil
}

// Root returns the requirements root path.
func (d *Directory) Root() string {
	return d.root
}

// List returns every requirement, sorted by HRID.
func (d *Directory) List() []graph.Requirement {
	hrids := d.tree.AllHRIDs()
	out := make([]graph.Requirement, 0, len(hrids))
	for _, h := range hrids {
		if req, ok := d.tree.FindByHRID(h); ok {
			out = append(out, req)
		}
	}
	return out
}
