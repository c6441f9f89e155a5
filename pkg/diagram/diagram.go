package diagram

import (
	"errors"
	"fmt"
	"slices"

	errs "github.com/matzehuels/canopy/pkg/errors"
)

var (
	// ErrInvalidNodeID is returned by [Diagram.AddNode] when the node is nil
	// or its ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Diagram.AddNode] when a node with the
	// same ID is already part of the diagram. IDs are never reused.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Diagram.Connect] when either endpoint is
	// not part of the diagram.
	ErrUnknownNode = errors.New("unknown node")

	// ErrWouldCycle is returned by [Diagram.Connect] when the child is the
	// parent itself or one of its ancestors. The diagram is left unchanged.
	ErrWouldCycle = errors.New("connection would create a cycle")

	// ErrGraphHasCycle is returned by [Diagram.Validate] when a node is
	// reachable from itself through children. Cycles are detected using
	// depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("diagram contains a cycle")

	// ErrInconsistentEdge is returned by [Diagram.Validate] when a parent link
	// and the parent's children list disagree. This indicates corruption.
	ErrInconsistentEdge = errors.New("inconsistent parent/child edge")
)

// Diagram is the node forest. It owns every node, keeps them in paint order
// (last is topmost), and stores hierarchy as id-keyed tables.
//
// The zero value is not usable; use [New].
type Diagram struct {
	nodes    []*Node
	index    map[string]*Node
	parent   map[string]string   // child id -> parent id
	children map[string][]string // parent id -> child ids, insertion order
}

// New creates an empty diagram.
func New() *Diagram {
	return &Diagram{
		index:    make(map[string]*Node),
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}
}

// ===== Node set =====

// AddNode appends n on top of the paint order. It returns a VALIDATION_ERROR
// wrapping [ErrDuplicateNodeID] if the id is taken, or [ErrInvalidNodeID] if
// it is empty.
func (d *Diagram) AddNode(n *Node) error {
	if n == nil || n.ID == "" {
		return errs.Wrap(errs.ErrCodeValidation, ErrInvalidNodeID, "add node")
	}
	if _, ok := d.index[n.ID]; ok {
		return errs.Wrap(errs.ErrCodeValidation, ErrDuplicateNodeID, "add node %q", n.ID)
	}
	if n.Metadata == nil {
		n.Metadata = map[string]string{}
	}
	d.nodes = append(d.nodes, n)
	d.index[n.ID] = n
	return nil
}

// RemoveNode detaches the node from its parent and removes it together with
// every descendant. It returns the removed ids in pre-order (the node first).
// Removing an unknown id is a no-op and returns nil.
func (d *Diagram) RemoveNode(id string) []string {
	if _, ok := d.index[id]; !ok {
		return nil
	}
	d.detach(id)

	removed := []string{id}
	for _, n := range d.Descendants(id) {
		removed = append(removed, n.ID)
	}

	gone := make(map[string]bool, len(removed))
	for _, rid := range removed {
		gone[rid] = true
		delete(d.index, rid)
		delete(d.parent, rid)
		delete(d.children, rid)
	}
	d.nodes = slices.DeleteFunc(d.nodes, func(n *Node) bool { return gone[n.ID] })
	return removed
}

// Node returns the node with the given id.
func (d *Diagram) Node(id string) (*Node, bool) {
	n, ok := d.index[id]
	return n, ok
}

// Has reports whether id is part of the diagram.
func (d *Diagram) Has(id string) bool {
	_, ok := d.index[id]
	return ok
}

// Nodes returns all nodes in paint order. The slice is a copy; the nodes are
// not.
func (d *Diagram) Nodes() []*Node {
	return slices.Clone(d.nodes)
}

// Len returns the number of nodes.
func (d *Diagram) Len() int { return len(d.nodes) }

// BringToFront moves the node to the end of the paint order.
func (d *Diagram) BringToFront(id string) {
	i := slices.IndexFunc(d.nodes, func(n *Node) bool { return n.ID == id })
	if i < 0 || i == len(d.nodes)-1 {
		return
	}
	n := d.nodes[i]
	d.nodes = append(slices.Delete(d.nodes, i, i+1), n)
}

// ===== Hierarchy =====

// Connect makes child a child of parent, appending it to parent's children.
//
// A child that already has a different parent is reparented: the old edge is
// removed in the same step. Connecting a node to itself or to one of its own
// descendants returns [ErrWouldCycle] and leaves the diagram unchanged.
// Connecting an existing edge again is a no-op.
func (d *Diagram) Connect(parentID, childID string) error {
	if !d.Has(parentID) {
		return errs.Wrap(errs.ErrCodeValidation, ErrUnknownNode, "connect: parent %q", parentID)
	}
	if !d.Has(childID) {
		return errs.Wrap(errs.ErrCodeValidation, ErrUnknownNode, "connect: child %q", childID)
	}
	if d.IsAncestor(childID, parentID) {
		return errs.Wrap(errs.ErrCodeValidation, ErrWouldCycle, "connect %q -> %q", parentID, childID)
	}
	if p, ok := d.parent[childID]; ok && p == parentID {
		return nil
	}
	d.detach(childID)
	d.parent[childID] = parentID
	d.children[parentID] = append(d.children[parentID], childID)
	return nil
}

// Disconnect removes the direct edge between a and b in whichever direction
// it exists. It reports whether an edge was removed. Non-adjacent pairs are a
// no-op.
func (d *Diagram) Disconnect(a, b string) bool {
	switch {
	case d.parent[b] == a && a != "":
		d.detach(b)
		return true
	case d.parent[a] == b && b != "":
		d.detach(a)
		return true
	}
	return false
}

func (d *Diagram) detach(id string) {
	p, ok := d.parent[id]
	if !ok {
		return
	}
	delete(d.parent, id)
	kids := slices.DeleteFunc(d.children[p], func(c string) bool { return c == id })
	if len(kids) == 0 {
		delete(d.children, p)
		return
	}
	d.children[p] = kids
}

// Parent returns the parent id of a node, or false for roots and unknown ids.
func (d *Diagram) Parent(id string) (string, bool) {
	p, ok := d.parent[id]
	return p, ok
}

// Children returns the child ids of a node in insertion order.
func (d *Diagram) Children(id string) []string {
	return slices.Clone(d.children[id])
}

// ChildNodes is like [Diagram.Children] but resolves the ids.
func (d *Diagram) ChildNodes(id string) []*Node {
	kids := d.children[id]
	out := make([]*Node, 0, len(kids))
	for _, c := range kids {
		out = append(out, d.index[c])
	}
	return out
}

// Roots returns the nodes without a parent, in paint order.
func (d *Diagram) Roots() []*Node {
	var roots []*Node
	for _, n := range d.nodes {
		if _, ok := d.parent[n.ID]; !ok {
			roots = append(roots, n)
		}
	}
	return roots
}

// IsRoot reports whether id has no parent.
func (d *Diagram) IsRoot(id string) bool {
	_, ok := d.parent[id]
	return !ok && d.Has(id)
}

// IsAncestor reports whether anc is id itself or lies on id's parent chain.
func (d *Diagram) IsAncestor(anc, id string) bool {
	seen := make(map[string]bool)
	for cur := id; cur != "" && !seen[cur]; {
		if cur == anc {
			return true
		}
		seen[cur] = true
		cur = d.parent[cur]
	}
	return false
}

// Root returns the id of the topmost ancestor of id.
func (d *Diagram) Root(id string) string {
	seen := make(map[string]bool)
	cur := id
	for !seen[cur] {
		seen[cur] = true
		p, ok := d.parent[cur]
		if !ok {
			break
		}
		cur = p
	}
	return cur
}

// Depth returns the number of edges between id and its root (0 for roots).
func (d *Diagram) Depth(id string) int {
	depth := 0
	seen := map[string]bool{id: true}
	for cur := d.parent[id]; cur != "" && !seen[cur]; cur = d.parent[cur] {
		seen[cur] = true
		depth++
	}
	return depth
}

// Descendants returns every descendant of id in depth-first pre-order (each
// child before its own children). The node itself is not included. The
// traversal does not mutate the diagram and can be repeated.
func (d *Diagram) Descendants(id string) []*Node {
	var out []*Node
	seen := map[string]bool{id: true}
	var walk func(string)
	walk = func(cur string) {
		for _, c := range d.children[cur] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, d.index[c])
			walk(c)
		}
	}
	walk(id)
	return out
}

// Subtree returns the node followed by its descendants in pre-order.
func (d *Diagram) Subtree(id string) []*Node {
	n, ok := d.index[id]
	if !ok {
		return nil
	}
	return append([]*Node{n}, d.Descendants(id)...)
}

// ===== Geometry =====

// MoveNode sets the center of a single node. It reports false for unknown ids.
func (d *Diagram) MoveNode(id string, x, y float64) bool {
	n, ok := d.index[id]
	if !ok {
		return false
	}
	n.X, n.Y = x, y
	return true
}

// MoveSubtree translates the node and all of its descendants by (dx, dy).
func (d *Diagram) MoveSubtree(id string, dx, dy float64) bool {
	sub := d.Subtree(id)
	for _, n := range sub {
		n.X += dx
		n.Y += dy
	}
	return len(sub) > 0
}

// Bounds returns the union of all node bounds. It reports false for an empty
// diagram.
func (d *Diagram) Bounds() (Rect, bool) {
	return unionBounds(d.nodes)
}

// SubtreeBounds returns the union of the bounds of id and its descendants.
func (d *Diagram) SubtreeBounds(id string) (Rect, bool) {
	return unionBounds(d.Subtree(id))
}

func unionBounds(nodes []*Node) (Rect, bool) {
	if len(nodes) == 0 {
		return Rect{}, false
	}
	r := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		r = r.Union(n.Bounds())
	}
	return r, true
}

// ===== Copy and validation =====

// Copy returns a deep copy of the diagram. Nodes are copied, ids are kept.
func (d *Diagram) Copy() *Diagram {
	c := New()
	c.nodes = make([]*Node, len(d.nodes))
	for i, n := range d.nodes {
		cn := n.Copy()
		c.nodes[i] = cn
		c.index[cn.ID] = cn
	}
	for k, v := range d.parent {
		c.parent[k] = v
	}
	for k, v := range d.children {
		c.children[k] = slices.Clone(v)
	}
	return c
}

// Validate checks the forest property: every parent link has a matching
// children entry, every edge endpoint exists, and no node can reach itself
// through children.
func (d *Diagram) Validate() error {
	for child, p := range d.parent {
		if !d.Has(child) || !d.Has(p) {
			return fmt.Errorf("%w: %s -> %s", ErrInconsistentEdge, p, child)
		}
		if !slices.Contains(d.children[p], child) {
			return fmt.Errorf("%w: %s missing from children of %s", ErrInconsistentEdge, child, p)
		}
	}
	for p, kids := range d.children {
		for _, c := range kids {
			if d.parent[c] != p {
				return fmt.Errorf("%w: %s lists %s", ErrInconsistentEdge, p, c)
			}
		}
	}
	return d.detectCycles()
}

func (d *Diagram) detectCycles() error {
	const (
		white = iota
		gray
		black
	)
	state := make(map[string]int, len(d.nodes))

	var visit func(string) bool
	visit = func(id string) bool {
		state[id] = gray
		for _, c := range d.children[id] {
			switch state[c] {
			case gray:
				return true
			case white:
				if visit(c) {
					return true
				}
			}
		}
		state[id] = black
		return false
	}

	for _, n := range d.nodes {
		if state[n.ID] == white && visit(n.ID) {
			return ErrGraphHasCycle
		}
	}
	return nil
}
