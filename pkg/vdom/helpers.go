package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a placeholder node. It renders as an empty text node.
func Comment(content string) *VNode {
	return &VNode{Kind: KindComment, Text: content}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	return CreateVNode(TypeFragment, nil, children)
}

// Keyed sets the key of v and returns it.
func Keyed(key any, v *VNode) *VNode {
	if v != nil {
		v.Key = normalizeKey(key)
	}
	return v
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but only builds the node when condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to vnodes, skipping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// RenderSlot renders the named slot of slots, or fallback when the slot is
// missing.
func RenderSlot(slots Slots, name string, props Props, fallback ...*VNode) *VNode {
	if s := slots[name]; s != nil {
		return CreateVNode(TypeFragment, nil, s(props))
	}
	return CreateVNode(TypeFragment, nil, fallback)
}
