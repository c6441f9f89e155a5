// Package pkg provides the core libraries for Canopy diagram editing.
//
// # Overview
//
// Canopy models mind-map style diagrams: a forest of shaped, colored nodes
// joined by parent/child edges, positioned in a 2D world and viewed through
// a pannable, zoomable viewport. The pkg directory is organized into three
// areas:
//
//  1. Editor core - the graph model, layouts, viewport, hit testing, undo
//     history and generation colors
//  2. Documents - the JSON wire format and the session that drives edits
//  3. Infrastructure - configuration, layout caching, document storage and
//     metrics hooks
//
// # Architecture
//
// The typical data flow through Canopy:
//
//	JSON document
//	     ↓
//	[document] package (decode, validate, enforce limits)
//	     ↓
//	[session] package (commands, undo/redo, selection)
//	     ↓
//	[layout] package via [pipeline] (cached tree / radial / force layouts)
//	     ↓
//	[viewport] + [hittest] (screen mapping, picking)
//	     ↓
//	JSON document or [store] (file, Redis, MongoDB)
//
// # Quick Start
//
// Build a small tree, lay it out and export it:
//
//	s := session.New(session.Options{Title: "Launch"})
//	root, _ := s.AddNode("Launch", 0, 0)
//	s.AddChildNode(root.ID, "Design")
//	s.AddChildNode(root.ID, "Build")
//	s.AutoLayout()
//	s.FitToScreen(1280, 800)
//	data, _ := s.Export()
//
// # Main Packages
//
// ## Editor Core
//
// [diagram] - The graph model: nodes, the single-parent hierarchy, paint
// order and geometry. Every mutation keeps the hierarchy a forest.
//
// [layout] - Tree, radial and force-directed positioning, plus Auto which
// picks tree layout for a single root and force layout for a forest.
//
// [viewport] - World/screen transforms, anchored zoom and fit-to-screen.
//
// [hittest] - Topmost-node picking and rectangle selection.
//
// [history] - Bounded undo/redo stack of compressed document snapshots.
//
// [palette] - Hex color handling and per-generation child colors.
//
// ## Documents
//
// [document] - The JSON document format: encoding, lenient decoding with
// per-record warnings, and size limits.
//
// [session] - The editing controller. Every mutating command records one
// history snapshot.
//
// ## Infrastructure
//
// [config] - TOML configuration with validation.
//
// [pipeline] - Layout runner that caches positions by diagram structure.
//
// [cache] - File, Redis and null caches with keyers and instrumentation.
//
// [store] - Named document storage on the filesystem, Redis or MongoDB.
//
// [observability] - Hook interfaces and a Prometheus implementation.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/session/...            # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis/MongoDB tests
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/diagram
// [layout]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/viewport
// [hittest]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/hittest
// [history]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/history
// [palette]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/palette
// [document]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/document
// [session]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/errors
package pkg
