package memdom

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
)

// Document owns a tree of nodes rooted at Body and journals every
// mutation. It is not safe for concurrent use.
type Document struct {
	Body *Node

	nodes  map[uint64]*Node
	nextID uint64
	ops    []Op
	logger *slog.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for dropped events.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDocument creates a document with an empty <body>.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		nodes:  make(map[uint64]*Node),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Body = d.newNode(ElementNode, "body", "")
	return d
}

func (d *Document) newNode(t NodeType, tag, text string) *Node {
	d.nextID++
	n := &Node{ID: d.nextID, Type: t, Tag: tag, Text: text}
	d.nodes[n.ID] = n
	return n
}

func (d *Document) record(op Op) {
	d.ops = append(d.ops, op)
}

// Ops returns the journal without clearing it.
func (d *Document) Ops() []Op {
	return slices.Clone(d.ops)
}

// TakeOps returns the journal and clears it.
func (d *Document) TakeOps() []Op {
	ops := d.ops
	d.ops = nil
	return ops
}

// ResetOps clears the journal.
func (d *Document) ResetOps() {
	d.ops = nil
}

// NodeByID returns a node created by this document.
func (d *Document) NodeByID(id uint64) *Node {
	return d.nodes[id]
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) any {
	n := d.newNode(ElementNode, tag, "")
	d.record(Op{Kind: OpCreateElement, Node: n.ID, Name: tag})
	return n
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) any {
	n := d.newNode(TextNode, "", text)
	d.record(Op{Kind: OpCreateText, Node: n.ID, Value: text})
	return n
}

// SetText replaces the content of a text node.
func (d *Document) SetText(node any, text string) {
	n := node.(*Node)
	n.Text = text
	d.record(Op{Kind: OpSetText, Node: n.ID, Value: text})
}

// SetElementText replaces all children of an element with one text node.
func (d *Document) SetElementText(el any, text string) {
	n := el.(*Node)
	for _, c := range n.children {
		c.parent = nil
		d.release(c)
	}
	n.children = nil
	if text != "" {
		t := d.newNode(TextNode, "", text)
		t.parent = n
		n.children = []*Node{t}
	}
	d.record(Op{Kind: OpSetElementText, Node: n.ID, Value: text})
}

// Insert inserts child into parent before anchor, or at the end when
// anchor is nil. A child that is already attached is moved.
func (d *Document) Insert(child, parent, anchor any) {
	c := child.(*Node)
	p := parent.(*Node)

	kind := OpInsert
	if c.parent != nil {
		kind = OpMove
		c.detach()
	}

	var anchorID uint64
	idx := len(p.children)
	if a, ok := anchor.(*Node); ok && a != nil {
		if i := p.indexOf(a); i >= 0 {
			idx = i
			anchorID = a.ID
		}
	}
	p.children = slices.Insert(p.children, idx, c)
	c.parent = p
	if _, ok := d.nodes[c.ID]; !ok {
		d.register(c)
	}
	d.record(Op{Kind: kind, Node: c.ID, Parent: p.ID, Anchor: anchorID})
}

// Remove detaches node from its parent.
func (d *Document) Remove(node any) {
	n := node.(*Node)
	if n.parent == nil {
		return
	}
	n.detach()
	d.release(n)
	d.record(Op{Kind: OpRemove, Node: n.ID})
}

// release forgets n and its subtree so the id map does not grow with
// removed nodes.
func (d *Document) release(n *Node) {
	delete(d.nodes, n.ID)
	n.walk(func(c *Node) bool {
		delete(d.nodes, c.ID)
		return true
	})
}

func (d *Document) register(n *Node) {
	d.nodes[n.ID] = n
	n.walk(func(c *Node) bool {
		d.nodes[c.ID] = c
		return true
	})
}

// ParentNode returns the parent of node, or nil.
func (d *Document) ParentNode(node any) any {
	n := node.(*Node)
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// NextSibling returns the node following node, or nil.
func (d *Document) NextSibling(node any) any {
	n := node.(*Node)
	p := n.parent
	if p == nil {
		return nil
	}
	i := p.indexOf(n)
	if i < 0 || i+1 >= len(p.children) {
		return nil
	}
	return p.children[i+1]
}

// QuerySelector returns the first element under Body matching selector,
// or nil.
func (d *Document) QuerySelector(selector string) any {
	if n := d.Find(selector); n != nil {
		return n
	}
	return nil
}

// Find is QuerySelector returning a *Node.
func (d *Document) Find(selector string) *Node {
	if compileSelector(selector)(d.Body) {
		return d.Body
	}
	return d.Body.Find(selector)
}

// domProps are set as properties rather than attributes.
var domProps = map[string]bool{
	"value":    true,
	"checked":  true,
	"selected": true,
	"muted":    true,
}

// PatchProp updates one prop of el from prev to next. Keys of the form
// onXxx register event handlers; "class" and "style" are handled
// specially; a few form fields are DOM properties; everything else is an
// attribute. A nil or false next removes an attribute.
func (d *Document) PatchProp(el any, key string, prev, next any) {
	n := el.(*Node)
	switch {
	case key == "class":
		d.patchClass(n, next)
	case key == "style":
		d.patchStyle(n, prev, next)
	case isOn(key):
		d.patchEvent(n, eventName(key), next)
	case domProps[key]:
		if n.props == nil {
			n.props = make(map[string]any)
		}
		if next == nil {
			delete(n.props, key)
		} else {
			n.props[key] = next
		}
		d.record(Op{Kind: OpSetProp, Node: n.ID, Name: key, Value: fmt.Sprint(next)})
	default:
		d.patchAttr(n, key, next)
	}
}

func (d *Document) patchClass(n *Node, next any) {
	cls := normalizeClass(next)
	if cls == "" {
		d.patchAttr(n, "class", nil)
		return
	}
	d.patchAttr(n, "class", cls)
}

func (d *Document) patchAttr(n *Node, key string, next any) {
	if next == nil || next == false {
		if _, ok := n.attrs[key]; ok {
			delete(n.attrs, key)
			d.record(Op{Kind: OpRemoveAttr, Node: n.ID, Name: key})
		}
		return
	}
	val := ""
	if next != true {
		val = fmt.Sprint(next)
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = val
	d.record(Op{Kind: OpSetAttr, Node: n.ID, Name: key, Value: val})
}

func (d *Document) patchStyle(n *Node, prev, next any) {
	nextStyle := normalizeStyle(next)
	for k := range n.style {
		if _, ok := nextStyle[k]; !ok {
			delete(n.style, k)
			d.record(Op{Kind: OpRemoveStyle, Node: n.ID, Name: k})
		}
	}
	if len(nextStyle) > 0 && n.style == nil {
		n.style = make(map[string]string)
	}
	for _, k := range sortedKeys(nextStyle) {
		v := nextStyle[k]
		if n.style[k] == v {
			continue
		}
		n.style[k] = v
		d.record(Op{Kind: OpSetStyle, Node: n.ID, Name: k, Value: v})
	}
}

func (d *Document) patchEvent(n *Node, name string, next any) {
	inv := n.listeners[name]
	switch {
	case next != nil && inv != nil:
		inv.value = next
	case next != nil:
		if n.listeners == nil {
			n.listeners = make(map[string]*invoker)
		}
		n.listeners[name] = &invoker{value: next}
		d.record(Op{Kind: OpAddListener, Node: n.ID, Name: name})
	case inv != nil:
		delete(n.listeners, name)
		d.record(Op{Kind: OpRemoveListener, Node: n.ID, Name: name})
	}
}

// isOn reports whether key names an event handler: "on" followed by an
// upper-case letter.
func isOn(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on") && unicode.IsUpper(rune(key[2]))
}

// eventName converts "onClick" to "click".
func eventName(key string) string {
	return strings.ToLower(key[2:])
}

// normalizeClass accepts a string, a []string, or a map[string]bool of
// class names to enabled flags.
func normalizeClass(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case []string:
		return strings.Join(c, " ")
	case map[string]bool:
		var names []string
		for _, k := range sortedKeys(c) {
			if c[k] {
				names = append(names, k)
			}
		}
		return strings.Join(names, " ")
	}
	return fmt.Sprint(v)
}

// normalizeStyle accepts "k: v; k2: v2", map[string]string or
// map[string]any.
func normalizeStyle(v any) map[string]string {
	out := make(map[string]string)
	switch s := v.(type) {
	case string:
		for _, decl := range strings.Split(s, ";") {
			k, val, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			out[strings.TrimSpace(k)] = strings.TrimSpace(val)
		}
	case map[string]string:
		for k, val := range s {
			out[k] = val
		}
	case map[string]any:
		for k, val := range s {
			if val != nil {
				out[k] = fmt.Sprint(val)
			}
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
