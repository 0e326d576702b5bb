// Package graph holds the decomposed in-memory requirement graph: a
// content table, a bidirectional HRID/UUID index, and a directed
// child-to-parent edge set annotated with the parent's HRID and
// fingerprint at link time.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reqgraph/reqctl/internal/fingerprint"
	"github.com/reqgraph/reqctl/internal/hrid"
)

// Errors returned by Tree operations. Callers use errors.Is/As to
// distinguish cases per the taxonomy in the error handling design.
var (
	ErrDuplicateUUID = errors.New("graph: duplicate uuid")
	ErrDuplicateHRID = errors.New("graph: duplicate hrid")
	ErrNotFound      = errors.New("graph: requirement not found")
	ErrChildNotFound = errors.New("graph: child not found")
	ErrParentNotFound = errors.New("graph: parent not found")
	ErrLinkNotFound  = errors.New("graph: link not found")
	ErrCycle         = errors.New("graph: link would create a cycle")
)

// Content is the semantically meaningful payload of a requirement: the
// part that contributes to its fingerprint, plus its creation time.
type Content struct {
	Title   string
	Body    string
	Tags    []string
	Created time.Time
}

// Fingerprint computes the content fingerprint for c.
func (c Content) Fingerprint() string {
	return fingerprint.Compute(c.Title, c.Body, c.Tags)
}

// Parent is the data stored on a child→parent edge: the parent's HRID
// and content fingerprint as they were at link time.
type Parent struct {
	HRID        hrid.HRID
	Fingerprint string
}

// Requirement is a fully reconstructed view returned by lookups: owned
// content plus relations freshly collected from the edge set.
type Requirement struct {
	UUID     uuid.UUID
	HRID     hrid.HRID
	Content  Content
	Parents  map[uuid.UUID]Parent
	Children []uuid.UUID
}

// NewRequirement builds a Requirement ready for Tree.Insert, generating a
// fresh UUID.
func NewRequirement(h hrid.HRID, content Content) Requirement {
	return Requirement{
		UUID:    uuid.New(),
		HRID:    h,
		Content: content,
		Parents: make(map[uuid.UUID]Parent),
	}
}

type edge struct {
	parentHRID  hrid.HRID
	fingerprint string
}

// Tree is the decomposed requirement graph. It knows nothing about the
// filesystem; Directory is the layer that synchronizes a Tree with disk.
type Tree struct {
	content  map[uuid.UUID]Content
	hridOf   map[uuid.UUID]hrid.HRID
	uuidOf   map[string]uuid.UUID // keyed by hrid.Display(0) for map lookup
	ordered  []hrid.HRID          // kept sorted by hrid.Compare for range scans
	// edges: child uuid -> parent uuid -> edge data
	edges map[uuid.UUID]map[uuid.UUID]edge
	// reverse: parent uuid -> set of child uuids, for O(1) children lookup
	reverse map[uuid.UUID]map[uuid.UUID]struct{}
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{
		content: make(map[uuid.UUID]Content),
		hridOf:  make(map[uuid.UUID]hrid.HRID),
		uuidOf:  make(map[string]uuid.UUID),
		edges:   make(map[uuid.UUID]map[uuid.UUID]edge),
		reverse: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func hridKey(h hrid.HRID) string {
	return h.Display(0)
}

func (t *Tree) ensureNode(id uuid.UUID) {
	if _, ok := t.edges[id]; !ok {
		t.edges[id] = make(map[uuid.UUID]edge)
	}
	if _, ok := t.reverse[id]; !ok {
		t.reverse[id] = make(map[uuid.UUID]struct{})
	}
}

func (t *Tree) hasRequirement(id uuid.UUID) bool {
	_, ok := t.content[id]
	return ok
}

func (t *Tree) insertOrdered(h hrid.HRID) {
	i := sort.Search(len(t.ordered), func(i int) bool { return hrid.Compare(t.ordered[i], h) >= 0 })
	t.ordered = append(t.ordered, hrid.HRID{})
	copy(t.ordered[i+1:], t.ordered[i:])
	t.ordered[i] = h
}

func (t *Tree) removeOrdered(h hrid.HRID) {
	i := sort.Search(len(t.ordered), func(i int) bool { return hrid.Compare(t.ordered[i], h) >= 0 })
	if i < len(t.ordered) && t.ordered[i].Equal(h) {
		t.ordered = append(t.ordered[:i], t.ordered[i+1:]...)
	}
}

// Insert adds requirement into the tree. It is not cycle-checked: a
// parent uuid that is not yet present becomes a placeholder node,
// resolved later when that requirement is itself inserted. This
// permissive behavior is intentional for bulk load; see UpsertParentLink
// for the strict, interactive counterpart.
func (t *Tree) Insert(r Requirement) error {
	if t.hasRequirement(r.UUID) {
		return fmt.Errorf("%w: %s", ErrDuplicateUUID, r.UUID)
	}
	if existing, ok := t.uuidOf[hridKey(r.HRID)]; ok {
		return fmt.Errorf("%w: %s (attempting to insert %s, but hrid already maps to %s)",
			ErrDuplicateHRID, r.HRID.Display(3), r.UUID, existing)
	}

	t.content[r.UUID] = r.Content
	t.hridOf[r.UUID] = r.HRID
	t.uuidOf[hridKey(r.HRID)] = r.UUID
	t.insertOrdered(r.HRID)
	t.ensureNode(r.UUID)

	for parentUUID, p := range r.Parents {
		t.ensureNode(parentUUID)
		t.edges[r.UUID][parentUUID] = edge{parentHRID: p.HRID, fingerprint: p.Fingerprint}
		t.reverse[parentUUID][r.UUID] = struct{}{}
	}
	return nil
}

// FindByUUID reconstructs a full Requirement view for id.
func (t *Tree) FindByUUID(id uuid.UUID) (Requirement, bool) {
	content, ok := t.content[id]
	if !ok {
		return Requirement{}, false
	}
	h := t.hridOf[id]
	parents := make(map[uuid.UUID]Parent, len(t.edges[id]))
	for parentUUID, e := range t.edges[id] {
		parents[parentUUID] = Parent{HRID: e.parentHRID, Fingerprint: e.fingerprint}
	}
	children := make([]uuid.UUID, 0, len(t.reverse[id]))
	for childUUID := range t.reverse[id] {
		children = append(children, childUUID)
	}
	sortUUIDs(children)
	return Requirement{UUID: id, HRID: h, Content: content, Parents: parents, Children: children}, true
}

// FindByHRID reconstructs a full Requirement view for h.
func (t *Tree) FindByHRID(h hrid.HRID) (Requirement, bool) {
	id, ok := t.uuidOf[hridKey(h)]
	if !ok {
		return Requirement{}, false
	}
	return t.FindByUUID(id)
}

// AllHRIDs returns every HRID currently stored, in sorted order.
func (t *Tree) AllHRIDs() []hrid.HRID {
	out := make([]hrid.HRID, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// NextIndex returns one greater than the highest ID currently in use
// under (namespace, kind), or 1 if none exist. It is implemented as a
// binary-search range scan over the sorted HRID slice, matching the
// complexity of an ordered-map range query.
func (t *Tree) NextIndex(namespace []hrid.NamespaceSegment, kind hrid.KindString) uint64 {
	lo, _ := hrid.NewWithNamespace(namespace, kind, 1)
	hi, _ := hrid.NewWithNamespace(namespace, kind, ^uint64(0))

	loIdx := sort.Search(len(t.ordered), func(i int) bool { return hrid.Compare(t.ordered[i], lo) >= 0 })
	hiIdx := sort.Search(len(t.ordered), func(i int) bool { return hrid.Compare(t.ordered[i], hi) > 0 })
	if loIdx >= hiIdx {
		return 1
	}
	max := t.ordered[hiIdx-1]
	return max.ID + 1
}

// Remove deletes a node and all incident edges.
func (t *Tree) Remove(id uuid.UUID) error {
	if !t.hasRequirement(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	h := t.hridOf[id]

	for parentUUID := range t.edges[id] {
		delete(t.reverse[parentUUID], id)
	}
	for childUUID := range t.reverse[id] {
		delete(t.edges[childUUID], id)
	}

	delete(t.content, id)
	delete(t.hridOf, id)
	delete(t.uuidOf, hridKey(h))
	delete(t.edges, id)
	delete(t.reverse, id)
	t.removeOrdered(h)
	return nil
}

// LinkOutcome describes the result of an interactive Link call.
type LinkOutcome struct {
	ChildUUID, ParentUUID uuid.UUID
	ChildHRID, ParentHRID hrid.HRID
	AlreadyLinked         bool
}

// CycleError carries the HRID path that a rejected link would have
// closed, parent → ... → child → parent.
type CycleError struct {
	Path []hrid.HRID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, h := range e.Path {
		parts[i] = h.Display(3)
	}
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(parts, " → "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Link resolves child and parent HRIDs, checks for cycles, and delegates
// the actual edge write to UpsertParentLink with the parent's current
// fingerprint. It reports AlreadyLinked=true when the edge existed prior
// to the call (in which case the fingerprint is still refreshed).
func (t *Tree) Link(child, parent hrid.HRID) (LinkOutcome, error) {
	childUUID, ok := t.uuidOf[hridKey(child)]
	if !ok {
		return LinkOutcome{}, fmt.Errorf("%w: %s", ErrChildNotFound, child.Display(3))
	}
	parentUUID, ok := t.uuidOf[hridKey(parent)]
	if !ok {
		return LinkOutcome{}, fmt.Errorf("%w: %s", ErrParentNotFound, parent.Display(3))
	}

	if childUUID == parentUUID {
		return LinkOutcome{}, &CycleError{Path: []hrid.HRID{child, child}}
	}

	if t.canReach(parentUUID, childUUID) {
		path := t.findCyclePath(parentUUID, childUUID)
		hrids := make([]hrid.HRID, 0, len(path)+1)
		for _, id := range path {
			hrids = append(hrids, t.hridOf[id])
		}
		hrids = append(hrids, parent)
		return LinkOutcome{}, &CycleError{Path: hrids}
	}

	parentFingerprint := t.content[parentUUID].Fingerprint()
	alreadyLinked, err := t.UpsertParentLink(childUUID, parentUUID, parentFingerprint)
	if err != nil {
		return LinkOutcome{}, err
	}

	return LinkOutcome{
		ChildUUID: childUUID, ParentUUID: parentUUID,
		ChildHRID: child, ParentHRID: parent,
		AlreadyLinked: alreadyLinked,
	}, nil
}

// UpsertParentLink is the strict, interactive counterpart to the
// permissive Insert: both child and parent must already be known nodes.
// Link calls it to perform the actual edge write once its own cycle
// check has passed, keeping the bulk-load permissiveness (Insert) and
// interactive strictness split documented as an explicit design decision.
func (t *Tree) UpsertParentLink(childUUID, parentUUID uuid.UUID, parentFingerprint string) (bool, error) {
	if !t.hasRequirement(childUUID) {
		return false, fmt.Errorf("%w: %s", ErrChildNotFound, childUUID)
	}
	if !t.hasRequirement(parentUUID) {
		return false, fmt.Errorf("%w: %s", ErrParentNotFound, parentUUID)
	}
	_, existed := t.edges[childUUID][parentUUID]
	if err := t.upsertEdge(childUUID, parentUUID, parentFingerprint); err != nil {
		return false, err
	}
	return existed, nil
}

func (t *Tree) upsertEdge(childUUID, parentUUID uuid.UUID, parentFingerprint string) error {
	parentHRID, ok := t.hridOf[parentUUID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrParentNotFound, parentUUID)
	}
	t.ensureNode(childUUID)
	t.ensureNode(parentUUID)
	t.edges[childUUID][parentUUID] = edge{parentHRID: parentHRID, fingerprint: parentFingerprint}
	t.reverse[parentUUID][childUUID] = struct{}{}
	return nil
}

// Unlink removes the child→parent edge.
func (t *Tree) Unlink(child, parent hrid.HRID) (uuid.UUID, error) {
	childUUID, ok := t.uuidOf[hridKey(child)]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: child %s", ErrNotFound, child.Display(3))
	}
	parentUUID, ok := t.uuidOf[hridKey(parent)]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: parent %s", ErrNotFound, parent.Display(3))
	}
	if _, ok := t.edges[childUUID][parentUUID]; !ok {
		return uuid.Nil, fmt.Errorf("%w: between %s and %s", ErrLinkNotFound, child.Display(3), parent.Display(3))
	}
	delete(t.edges[childUUID], parentUUID)
	delete(t.reverse[parentUUID], childUUID)
	return childUUID, nil
}

// Rename changes a requirement's HRID, rewriting the stored parent_hrid
// of every child edge that points at it. Fingerprints are untouched.
// Returns the uuid renamed and the set of child uuids now dirty.
func (t *Tree) Rename(oldHRID, newHRID hrid.HRID) (uuid.UUID, []uuid.UUID, error) {
	id, ok := t.uuidOf[hridKey(oldHRID)]
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("%w: %s", ErrNotFound, oldHRID.Display(3))
	}
	if _, taken := t.uuidOf[hridKey(newHRID)]; taken {
		return uuid.Nil, nil, fmt.Errorf("%w: cannot rename to %s", ErrDuplicateHRID, newHRID.Display(3))
	}

	delete(t.uuidOf, hridKey(oldHRID))
	t.uuidOf[hridKey(newHRID)] = id
	t.hridOf[id] = newHRID
	t.removeOrdered(oldHRID)
	t.insertOrdered(newHRID)

	children := make([]uuid.UUID, 0, len(t.reverse[id]))
	for childUUID := range t.reverse[id] {
		children = append(children, childUUID)
		e := t.edges[childUUID][id]
		e.parentHRID = newHRID
		t.edges[childUUID][id] = e
	}
	sortUUIDs(children)
	return id, children, nil
}

// AncestorsOf returns the breadth-first transitive closure of parent
// edges from id, deduplicated, in deterministic (sorted) order.
func (t *Tree) AncestorsOf(id uuid.UUID) []uuid.UUID {
	if !t.hasRequirement(id) {
		return nil
	}
	visited := make(map[uuid.UUID]struct{})
	var queue []uuid.UUID
	for parentUUID := range t.edges[id] {
		queue = append(queue, parentUUID)
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, seen := visited[next]; seen {
			continue
		}
		visited[next] = struct{}{}
		for parentUUID := range t.edges[next] {
			queue = append(queue, parentUUID)
		}
	}
	return sortedKeys(visited)
}

// DescendantsOf returns the breadth-first transitive closure of incoming
// edges from id (i.e. children, recursively), deduplicated, sorted.
func (t *Tree) DescendantsOf(id uuid.UUID) []uuid.UUID {
	if !t.hasRequirement(id) {
		return nil
	}
	visited := make(map[uuid.UUID]struct{})
	var queue []uuid.UUID
	for childUUID := range t.reverse[id] {
		queue = append(queue, childUUID)
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, seen := visited[next]; seen {
			continue
		}
		visited[next] = struct{}{}
		for childUUID := range t.reverse[next] {
			queue = append(queue, childUUID)
		}
	}
	return sortedKeys(visited)
}

// SuspectLink describes an edge whose stored fingerprint no longer
// matches the parent's current content fingerprint.
type SuspectLink struct {
	ChildUUID, ParentUUID           uuid.UUID
	ChildHRID, ParentHRID           hrid.HRID
	StoredFingerprint, CurrentFingerprint string
}

// SuspectLinks scans every edge and reports those whose stored
// fingerprint diverges from the parent's current fingerprint. A missing
// parent is reported with an empty current fingerprint rather than
// silently skipped.
func (t *Tree) SuspectLinks() []SuspectLink {
	var suspect []SuspectLink
	for _, childUUID := range t.sortedNodeIDs() {
		childHRID, ok := t.hridOf[childUUID]
		if !ok {
			continue
		}
		for _, parentUUID := range t.sortedParentIDs(childUUID) {
			e := t.edges[childUUID][parentUUID]
			var current string
			if c, ok := t.content[parentUUID]; ok {
				current = c.Fingerprint()
			}
			if e.fingerprint != current {
				suspect = append(suspect, SuspectLink{
					ChildUUID: childUUID, ParentUUID: parentUUID,
					ChildHRID: childHRID, ParentHRID: e.parentHRID,
					StoredFingerprint: e.fingerprint, CurrentFingerprint: current,
				})
			}
		}
	}
	return suspect
}

// AcceptSuspectLink refreshes an edge's fingerprint to the parent's
// current fingerprint. Returns whether a change was written.
func (t *Tree) AcceptSuspectLink(childUUID, parentUUID uuid.UUID) (bool, error) {
	if !t.hasRequirement(childUUID) {
		return false, fmt.Errorf("%w: child %s", ErrChildNotFound, childUUID)
	}
	content, ok := t.content[parentUUID]
	if !ok {
		return false, fmt.Errorf("%w: parent %s", ErrParentNotFound, parentUUID)
	}
	e, ok := t.edges[childUUID][parentUUID]
	if !ok {
		return false, fmt.Errorf("%w: between %s and %s", ErrLinkNotFound, childUUID, parentUUID)
	}
	current := content.Fingerprint()
	if e.fingerprint == current {
		return false, nil
	}
	e.fingerprint = current
	t.edges[childUUID][parentUUID] = e
	return true, nil
}

// SkipReason explains why accept_all_suspect_links could not refresh a
// particular edge.
type SkipReason struct {
	ChildUUID, ParentUUID uuid.UUID
	Reason                string
}

// AcceptedEdge names an edge refreshed by AcceptAllSuspectLinks.
type AcceptedEdge struct {
	ChildUUID, ParentUUID uuid.UUID
}

// AcceptAllSuspectLinks is a best-effort batch accept: each failure (a
// dangling parent) is skipped rather than aborting the whole batch. Both
// the accepted set and the skip reasons are returned (Open Question
// resolution: elevated from log-only to a returned value).
func (t *Tree) AcceptAllSuspectLinks() ([]AcceptedEdge, []SkipReason) {
	suspect := t.SuspectLinks()
	var accepted []AcceptedEdge
	var skipped []SkipReason
	for _, link := range suspect {
		changed, err := t.AcceptSuspectLink(link.ChildUUID, link.ParentUUID)
		switch {
		case err != nil:
			skipped = append(skipped, SkipReason{ChildUUID: link.ChildUUID, ParentUUID: link.ParentUUID, Reason: err.Error()})
		case changed:
			accepted = append(accepted, AcceptedEdge{ChildUUID: link.ChildUUID, ParentUUID: link.ParentUUID})
		}
	}
	return accepted, skipped
}

// CheckHRIDDrift returns the set of child uuids with at least one edge
// whose stored parent_hrid no longer matches the parent's current HRID.
func (t *Tree) CheckHRIDDrift() []uuid.UUID {
	drifted := make(map[uuid.UUID]struct{})
	for childUUID, parents := range t.edges {
		for parentUUID, e := range parents {
			current, ok := t.hridOf[parentUUID]
			if !ok {
				continue
			}
			if !e.parentHRID.Equal(current) {
				drifted[childUUID] = struct{}{}
			}
		}
	}
	return sortedKeys(drifted)
}

// UpdateHRIDs rewrites every edge's stored parent_hrid to match its
// parent's current HRID. Returns the set of affected children. Idempotent:
// a second call returns an empty slice.
func (t *Tree) UpdateHRIDs() []uuid.UUID {
	updated := make(map[uuid.UUID]struct{})
	type pair struct{ child, parent uuid.UUID }
	var toUpdate []pair

	for childUUID, parents := range t.edges {
		for parentUUID, e := range parents {
			current, ok := t.hridOf[parentUUID]
			if !ok {
				continue
			}
			if !e.parentHRID.Equal(current) {
				toUpdate = append(toUpdate, pair{childUUID, parentUUID})
				updated[childUUID] = struct{}{}
			}
		}
	}

	for _, p := range toUpdate {
		current, ok := t.hridOf[p.parent]
		if !ok {
			continue
		}
		e := t.edges[p.child][p.parent]
		e.parentHRID = current
		t.edges[p.child][p.parent] = e
	}

	return sortedKeys(updated)
}

// DetectCycles runs a three-color DFS over parent edges and returns every
// distinct cycle as an HRID sequence, deduplicated by rotational
// equivalence.
func (t *Tree) DetectCycles() [][]hrid.HRID {
	const (
		white = iota
		gray
		black
	)
	colors := make(map[uuid.UUID]int)
	var cycles [][]hrid.HRID

	var dfs func(node uuid.UUID, path []uuid.UUID)
	dfs = func(node uuid.UUID, path []uuid.UUID) {
		colors[node] = gray
		path = append(path, node)

		for _, parentUUID := range t.sortedParentIDs(node) {
			switch colors[parentUUID] {
			case gray:
				pos := -1
				for i, id := range path {
					if id == parentUUID {
						pos = i
						break
					}
				}
				if pos >= 0 {
					cyclePath := append([]uuid.UUID(nil), path[pos:]...)
					cyclePath = append(cyclePath, parentUUID)
					hrids := make([]hrid.HRID, 0, len(cyclePath))
					for _, id := range cyclePath {
						if h, ok := t.hridOf[id]; ok {
							hrids = append(hrids, h)
						}
					}
					if len(hrids) > 0 && !cycleAlreadyRecorded(cycles, hrids) {
						cycles = append(cycles, hrids)
					}
				}
			case white:
				// the zero value for an unvisited node's map entry is
				// also white, so this case covers both explicitly-set
				// and never-visited nodes.
				dfs(parentUUID, path)
			}
		}

		colors[node] = black
	}

	for _, node := range t.sortedNodeIDs() {
		if _, seen := colors[node]; !seen {
			dfs(node, nil)
		}
	}

	return cycles
}

// cycleAlreadyRecorded checks whether candidate is a rotation of any
// cycle already in cycles, resolving Open Question 3 with a canonical-
// rotation predicate: rotate each sequence to start at its
// lexicographically smallest display, then compare as strings.
func cycleAlreadyRecorded(cycles [][]hrid.HRID, candidate []hrid.HRID) bool {
	canon := canonicalRotation(candidate)
	for _, c := range cycles {
		if canon == canonicalRotation(c) {
			return true
		}
	}
	return false
}

func canonicalRotation(hrids []hrid.HRID) string {
	if len(hrids) == 0 {
		return ""
	}
	// A recorded cycle repeats its first HRID at the end; drop the repeat
	// so that rotations of the same cycle compare equal.
	if len(hrids) > 1 && hrids[0].Equal(hrids[len(hrids)-1]) {
		hrids = hrids[:len(hrids)-1]
	}
	strs := make([]string, len(hrids))
	for i, h := range hrids {
		strs[i] = h.Display(3)
	}
	best := rotationString(strs, 0)
	for i := 1; i < len(strs); i++ {
		candidate := rotationString(strs, i)
		if candidate < best {
			best = candidate
		}
	}
	return best
}

func rotationString(strs []string, start int) string {
	var b strings.Builder
	for i := 0; i < len(strs); i++ {
		b.WriteString(strs[(start+i)%len(strs)])
		b.WriteByte(',')
	}
	return b.String()
}

func (t *Tree) canReach(source, target uuid.UUID) bool {
	if !t.hasRequirement(source) {
		return false
	}
	visited := map[uuid.UUID]struct{}{source: {}}
	queue := []uuid.UUID{source}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == target {
			return true
		}
		for parentUUID := range t.edges[node] {
			if _, seen := visited[parentUUID]; !seen {
				visited[parentUUID] = struct{}{}
				queue = append(queue, parentUUID)
			}
		}
	}
	return false
}

func (t *Tree) findCyclePath(source, target uuid.UUID) []uuid.UUID {
	parentOf := map[uuid.UUID]uuid.UUID{source: source}
	queue := []uuid.UUID{source}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == target {
			var path []uuid.UUID
			current := target
			for current != source {
				path = append(path, current)
				current = parentOf[current]
			}
			path = append(path, source)
			reverseUUIDs(path)
			return path
		}
		for parentUUID := range t.edges[node] {
			if _, seen := parentOf[parentUUID]; !seen {
				parentOf[parentUUID] = node
				queue = append(queue, parentUUID)
			}
		}
	}
	return nil
}

func (t *Tree) sortedNodeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.edges))
	for id := range t.edges {
		ids = append(ids, id)
	}
	sortUUIDs(ids)
	return ids
}

func (t *Tree) sortedParentIDs(child uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.edges[child]))
	for id := range t.edges[child] {
		ids = append(ids, id)
	}
	sortUUIDs(ids)
	return ids
}

func sortUUIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}

func sortedKeys(m map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortUUIDs(ids)
	return ids
}

func reverseUUIDs(ids []uuid.UUID) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}
