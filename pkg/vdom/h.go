package vdom

import (
	"fmt"
	"reflect"
)

// H creates a vnode. t is a tag name, a Type marker, a Definition or a
// FunctionalComponent. The remaining arguments are disambiguated by count:
//
//   - one argument: Props (or map[string]any) are props; anything else is
//     children
//   - two arguments: props, then children
//   - more: props, then each remaining argument is a child
//
// Children may be a string, a *VNode, a []*VNode, a []any of those, Slots
// or a Slot (default slot).
func H(t any, args ...any) *VNode {
	switch len(args) {
	case 0:
		return CreateVNode(t, nil, nil)
	case 1:
		if p, ok := asProps(args[0]); ok {
			return CreateVNode(t, p, nil)
		}
		return CreateVNode(t, nil, args[0])
	case 2:
		p, _ := asProps(args[0])
		return CreateVNode(t, p, args[1])
	default:
		p, _ := asProps(args[0])
		return CreateVNode(t, p, args[1:])
	}
}

func asProps(v any) (Props, bool) {
	switch p := v.(type) {
	case Props:
		return p, true
	case map[string]any:
		return Props(p), true
	}
	return nil, false
}

// VNodeOption sets optimization hints on a vnode.
type VNodeOption func(*VNode)

// WithPatchFlag sets the patch flag and, for PatchProps, the names of the
// dynamic props.
func WithPatchFlag(flag PatchFlag, dynamicProps ...string) VNodeOption {
	return func(v *VNode) {
		v.PatchFlag = flag
		v.DynamicProps = dynamicProps
	}
}

// WithTransition attaches transition hooks.
func WithTransition(hooks *TransitionHooks) VNodeOption {
	return func(v *VNode) {
		v.Transition = hooks
	}
}

// CreateVNode creates a vnode from a type, props and children. The
// reserved props "key" and "ref" are moved into the node.
func CreateVNode(t any, props Props, children any, opts ...VNodeOption) *VNode {
	v := &VNode{}

	switch tt := t.(type) {
	case string:
		v.Kind = KindElement
		v.Tag = tt
		v.ShapeFlag = ShapeElement
	case Type:
		switch tt {
		case TypeText:
			v.Kind = KindText
		case TypeComment:
			v.Kind = KindComment
		case TypeFragment:
			v.Kind = KindFragment
		case TypeTeleport:
			v.Kind = KindTeleport
			v.ShapeFlag = ShapeTeleport
		default:
			panic(fmt.Sprintf("vdom: unknown node type %d", tt))
		}
	case FunctionalComponent:
		v.Kind = KindFunctional
		v.Functional = tt
		v.ShapeFlag = ShapeFunctionalComponent
	case func(Props, Slots) *VNode:
		v.Kind = KindFunctional
		v.Functional = tt
		v.ShapeFlag = ShapeFunctionalComponent
	case Definition:
		v.Kind = KindComponent
		v.Component = tt
		v.ShapeFlag = ShapeStatefulComponent
	default:
		panic(fmt.Sprintf("vdom: invalid node type %T", t))
	}

	if props != nil {
		props = extractReserved(v, props)
	}
	v.Props = props

	for _, opt := range opts {
		opt(v)
	}

	normalizeChildren(v, children)
	return v
}

// extractReserved lifts "key" and "ref" out of props. The caller's map is
// not modified.
func extractReserved(v *VNode, props Props) Props {
	key, hasKey := props["key"]
	ref, hasRef := props["ref"]
	if !hasKey && !hasRef {
		return props
	}
	if hasKey {
		v.Key = normalizeKey(key)
	}
	if hasRef {
		v.Ref = ref
	}
	out := make(Props, len(props))
	for k, val := range props {
		if k != "key" && k != "ref" {
			out[k] = val
		}
	}
	return out
}

// normalizeKey makes a key usable as a map key.
func normalizeKey(key any) any {
	if key == nil {
		return nil
	}
	if reflect.TypeOf(key).Comparable() {
		return key
	}
	return fmt.Sprint(key)
}

func normalizeChildren(v *VNode, children any) {
	if children == nil {
		return
	}

	switch v.Kind {
	case KindText, KindComment:
		if s, ok := children.(string); ok {
			v.Text = s
		} else {
			v.Text = fmt.Sprint(children)
		}
		return
	case KindComponent, KindFunctional:
		if slots := toSlots(children); slots != nil {
			v.Slots = slots
			v.ShapeFlag |= ShapeSlotsChildren
		}
		return
	}

	if s, ok := children.(string); ok && v.Kind == KindElement {
		v.Text = s
		v.ShapeFlag |= ShapeTextChildren
		return
	}
	v.Children = NormalizeChildren(children)
	v.ShapeFlag |= ShapeArrayChildren
}

// toSlots converts component children to slots. Plain children become the
// default slot.
func toSlots(children any) Slots {
	switch c := children.(type) {
	case Slots:
		return c
	case map[string]Slot:
		return Slots(c)
	case Slot:
		return Slots{"default": c}
	case func(Props) []*VNode:
		return Slots{"default": c}
	}
	nodes := NormalizeChildren(children)
	if len(nodes) == 0 {
		return nil
	}
	return Slots{"default": func(Props) []*VNode { return nodes }}
}

// NormalizeChildren flattens children into a node list. Strings and
// numbers become text nodes; nil entries are dropped.
func NormalizeChildren(children any) []*VNode {
	var out []*VNode
	appendChildren(&out, children)
	return out
}

func appendChildren(out *[]*VNode, c any) {
	switch x := c.(type) {
	case nil:
	case *VNode:
		if x != nil {
			*out = append(*out, x)
		}
	case []*VNode:
		for _, n := range x {
			if n != nil {
				*out = append(*out, n)
			}
		}
	case []any:
		for _, n := range x {
			appendChildren(out, n)
		}
	case string:
		*out = append(*out, Text(x))
	case fmt.Stringer:
		*out = append(*out, Text(x.String()))
	case int, int64, float64, bool:
		*out = append(*out, Text(fmt.Sprint(x)))
	default:
		panic(fmt.Sprintf("vdom: invalid child %T", c))
	}
}

// Normalize turns a render result into a single vnode: nil becomes an
// empty placeholder and a node list becomes a fragment.
func Normalize(child any) *VNode {
	switch x := child.(type) {
	case nil:
		return Comment("")
	case *VNode:
		if x == nil {
			return Comment("")
		}
		return x
	case []*VNode:
		return CreateVNode(TypeFragment, nil, x)
	case string:
		return Text(x)
	}
	return CreateVNode(TypeFragment, nil, NormalizeChildren(child))
}
