package memdom

import (
	"slices"
	"strings"
)

// NodeType distinguishes elements from text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is an element or text node.
type Node struct {
	ID   uint64
	Type NodeType
	Tag  string
	Text string

	attrs     map[string]string
	props     map[string]any
	style     map[string]string
	listeners map[string]*invoker

	parent   *Node
	children []*Node
}

// invoker holds the current handler of an event; updating the handler
// replaces the value without re-registering the listener.
type invoker struct {
	value any
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Attr returns the value of an attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Prop returns the value of a DOM property such as "value" or "checked".
func (n *Node) Prop(name string) any {
	return n.props[name]
}

// Style returns one inline style declaration.
func (n *Node) Style(name string) string {
	return n.style[name]
}

// Class returns the class attribute.
func (n *Node) Class() string {
	return n.attrs["class"]
}

// HasListener reports whether a handler is registered for event.
func (n *Node) HasListener(event string) bool {
	inv, ok := n.listeners[event]
	return ok && inv.value != nil
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var b strings.Builder
	n.walk(func(c *Node) bool {
		if c.Type == TextNode {
			b.WriteString(c.Text)
		}
		return true
	})
	return b.String()
}

// walk visits the descendants of n in document order until fn returns
// false.
func (n *Node) walk(fn func(*Node) bool) bool {
	for _, c := range n.children {
		if !fn(c) {
			return false
		}
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// Find returns the first descendant of n matching selector. Supported
// selectors are "#id", ".class" and a tag name.
func (n *Node) Find(selector string) *Node {
	match := compileSelector(selector)
	var found *Node
	n.walk(func(c *Node) bool {
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant of n matching selector.
func (n *Node) FindAll(selector string) []*Node {
	match := compileSelector(selector)
	var found []*Node
	n.walk(func(c *Node) bool {
		if match(c) {
			found = append(found, c)
		}
		return true
	})
	return found
}

func compileSelector(sel string) func(*Node) bool {
	sel = strings.TrimSpace(sel)
	switch {
	case strings.HasPrefix(sel, "#"):
		id := sel[1:]
		return func(n *Node) bool { return n.Type == ElementNode && n.attrs["id"] == id }
	case strings.HasPrefix(sel, "."):
		cls := sel[1:]
		return func(n *Node) bool {
			return n.Type == ElementNode && slices.Contains(strings.Fields(n.attrs["class"]), cls)
		}
	default:
		return func(n *Node) bool { return n.Type == ElementNode && n.Tag == sel }
	}
}
