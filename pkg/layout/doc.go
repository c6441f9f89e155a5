// Package layout repositions diagram nodes in place.
//
// Three strategies are provided:
//
//   - [Tree]: recursive subtree placement below (or beside) a root. Each
//     child gets a slot as wide as its own subtree, and the slots are
//     centered on the parent, so sibling subtrees never overlap.
//   - [Radial]: breadth-first rings around a center node at multiples of
//     the ring spacing.
//   - [Force]: a fixed number of repulsion/spring steps. Forces are applied
//     directly as displacement (scaled by damping); there is no velocity
//     integration and no early exit.
//
// [Auto] picks tree layout when the diagram has exactly one root and
// force-directed layout over every node otherwise. [Apply] dispatches on a
// [Kind] and is what the session and CLI call.
//
// All functions run to completion synchronously and only write node
// positions (and the transient FX/FY accumulators). They never change the
// hierarchy.
package layout
