package memdom

import (
	"fmt"
	"html"
	"strings"
)

// voidElements cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// HTML returns the outer HTML of n. Attributes are sorted by name.
// The "value" property is rendered as an attribute and "checked" as a
// boolean attribute, so the markup reflects form state.
func (n *Node) HTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

// InnerHTML returns the HTML of n's children.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		c.writeHTML(&b)
	}
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	if n.Type == TextNode {
		b.WriteString(html.EscapeString(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)

	attrs := make(map[string]string, len(n.attrs)+2)
	for k, v := range n.attrs {
		attrs[k] = v
	}
	if len(n.style) > 0 {
		var sb strings.Builder
		for i, k := range sortedKeys(n.style) {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(n.style[k])
			sb.WriteByte(';')
		}
		attrs["style"] = sb.String()
	}
	if v, ok := n.props["value"]; ok {
		attrs["value"] = toString(v)
	}
	if v, ok := n.props["checked"].(bool); ok && v {
		attrs["checked"] = ""
	}

	for _, k := range sortedKeys(attrs) {
		b.WriteByte(' ')
		b.WriteString(k)
		if v := attrs[k]; v != "" {
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(v))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')

	if voidElements[n.Tag] {
		return
	}
	for _, c := range n.children {
		c.writeHTML(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
