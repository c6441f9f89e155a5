// Package diagram provides the node forest edited by canopy.
//
// # Overview
//
// A [Diagram] owns an ordered sequence of [Node] values (paint order: the last
// node is drawn on top) and the parent/child relation between them. Nodes do
// not hold pointers to each other: the hierarchy lives in the Diagram as an
// id-keyed adjacency table, so the parent link is a weak back-reference and
// the Diagram is the sole owner of every node.
//
// # Forest Invariant
//
// Every node has at most one parent and no node is reachable from itself
// through children. [Diagram.Connect] enforces this before mutating:
//
//   - connecting a node to itself or to one of its descendants returns
//     [ErrWouldCycle]
//   - connecting a node that already has a parent reparents it explicitly
//     (the old edge is removed in the same step)
//
// [Diagram.Validate] re-checks the invariant using depth-first search with
// white/gray/black coloring.
//
// # Basic Usage
//
//	d := diagram.New()
//	root := diagram.NewNode("Project", 0, 0)
//	task := diagram.NewNode("Design", 0, 150)
//	_ = d.AddNode(root)
//	_ = d.AddNode(task)
//	_ = d.Connect(root.ID, task.ID)
//
//	removed := d.RemoveNode(root.ID) // cascades: [root task]
//
// # Children Order
//
// Children are kept in insertion order. That order drives layout fan-out and
// the pre-order traversal returned by [Diagram.Descendants].
//
// # Concurrency
//
// A Diagram is owned by a single editing session and is not safe for
// concurrent use without external synchronization.
package diagram
