// Package memdom is an in-memory document that implements the renderer's
// host interface.
//
// Every mutation is appended to a journal of Ops, which the dev server
// encodes with pkg/protocol and streams to the browser, and which tests use
// to count physical operations:
//
//	doc := memdom.NewDocument()
//	r := renderer.New(doc)
//	r.Render(app, doc.Body)
//	for _, op := range doc.TakeOps() {
//	    fmt.Println(op)
//	}
//
// Inserting a node that already has a parent is journaled as OpMove.
package memdom
