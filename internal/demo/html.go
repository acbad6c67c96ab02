package demo

import (
	"fmt"
	"html"
	"strings"

	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/protocol"
	"github.com/vango-dev/reactor/pkg/renderer"
)

// RenderHTML renders a fresh app for s and returns the markup of its
// container.
func RenderHTML(s *State) string {
	doc := memdom.NewDocument()
	r := renderer.New(doc)
	Render(r, s, doc.Body)
	out := doc.Body.InnerHTML()
	r.Render(nil, doc.Body)
	return out
}

// RenderOps renders a fresh app for s and returns the encoded initial ops
// frame a live client would receive.
func RenderOps(s *State) ([]byte, error) {
	doc := memdom.NewDocument()
	r := renderer.New(doc)
	Render(r, s, doc.Body)
	payload, err := protocol.EncodeOps(doc.TakeOps())
	r.Render(nil, doc.Body)
	if err != nil {
		return nil, err
	}
	f := &protocol.Frame{Type: protocol.FrameOps, Flags: protocol.FlagInitial, Payload: payload}
	return f.Encode()
}

// Page wraps body markup in an HTML shell. With script set the page loads
// the live client from /client.js.
func Page(title, body string, script bool) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>li.done span{text-decoration:line-through}</style>\n")
	b.WriteString("</head>\n<body>\n<div id=\"root\">")
	b.WriteString(body)
	b.WriteString("</div>\n")
	if script {
		b.WriteString("<script src=\"/client.js\" defer></script>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
