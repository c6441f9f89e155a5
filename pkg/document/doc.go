// Package document converts between a live diagram and its JSON form.
//
// # Format
//
// A document is a JSON object holding the title, the node forest and the
// viewport. Only roots appear at the top level; every other node is nested in
// its parent's "children" array:
//
//	{
//	  "version": "1.0",
//	  "title": "Roadmap",
//	  "nodes": [
//	    {"id": "r", "x": 0, "y": 0, "text": "Root", "shape": "rounded", ...,
//	     "children": [{"id": "a", "x": -100, "y": 150, "text": "A", ...}]}
//	  ],
//	  "viewOffset": {"x": 0, "y": 0},
//	  "zoom": 1,
//	  "generationColors": {"0": "#4f46e5", "1": "#6366f1"}
//	}
//
// generationColors is written only when the caller passes a palette (history
// snapshots do, exports do not).
//
// # Decoding
//
// [Decoder.Decode] is lenient about individual records and strict about the
// payload as a whole:
//
//   - payloads over the size limit, or with more nodes plus skipped records
//     than the node limit, fail with LIMIT_EXCEEDED before anything is built
//   - invalid JSON fails with PARSE_ERROR
//   - a record without a non-empty text or numeric x/y is skipped with a
//     warning; its nested records are still loaded
//   - an id listed more than once is one node: the first valid listing
//     supplies its fields and every listing contributes its children
//   - over-long text, notes, title and metadata are truncated, not rejected
//
// Roots are derived, not stored. The decoder first collects every listing,
// then builds a child to parent index over all "children" arrays; a node is
// a root iff it is missing from that index. A node listed under two parents
// keeps the first, and an edge that would close a cycle is dropped with a
// warning.
//
// The returned diagram is always freshly built, so a failed decode never
// touches the caller's current diagram.
package document
