// Package devserver serves the demo application as a live page.
//
// Routes:
//
//	GET /           server-rendered HTML plus the client script
//	GET /client.js  the client that applies op frames to the page
//	GET /ws         websocket: op frames out, event frames in
//	GET /metrics    Prometheus metrics, when enabled
//	GET /healthz    liveness
//
// Each websocket connection gets its own memdom.Document, renderer and
// scheduler loop. All document access happens on the loop goroutine; the
// read loop only decodes event frames and dispatches them.
package devserver
