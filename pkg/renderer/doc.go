// Package renderer reconciles virtual node trees against a host.
//
// The renderer is host-agnostic: everything it does to the real tree goes
// through the Host interface (see pkg/memdom for an in-memory host).
//
//	doc := memdom.NewDocument()
//	r := renderer.New(doc)
//	r.Render(vdom.H(App), doc.Body)
//	// ... reactive state changes enqueue component updates ...
//	r.Flush()
//
// # Patching
//
// Patch compares an old and a new tree. Nodes of different type (tag,
// component or key) are replaced. Keyed children are reconciled by syncing
// the common prefix and suffix, then matching the remaining middle range
// by key; nodes whose relative order is already correct (the longest
// increasing subsequence of their old positions) stay in place and only
// the others are moved, so a list rotation costs one move.
//
// # Components
//
// A Component either renders directly or returns a render function from
// Setup. Its render runs inside a reactive effect; when state it read
// changes, the update is enqueued on the renderer's scheduler.Queue and
// runs at the next Flush, so several writes cause one re-render.
package renderer
