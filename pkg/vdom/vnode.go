package vdom

import (
	"fmt"
	"reflect"
)

// Kind is the node category discriminator.
type Kind uint8

const (
	KindElement    Kind = iota // <div>, <button>, etc.
	KindText                   // Text node
	KindComment                // Empty placeholder
	KindFragment               // Children without a wrapper
	KindComponent              // Stateful component
	KindFunctional             // Stateless render function
	KindTeleport               // Children rendered into another container
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindFunctional:
		return "Functional"
	case KindTeleport:
		return "Teleport"
	default:
		return "Unknown"
	}
}

// Type is a built-in node type passed to H in place of a tag name.
type Type uint8

const (
	TypeText Type = iota + 1
	TypeComment
	TypeFragment
	TypeTeleport
)

// Definition is implemented by stateful component definitions.
// Two vnodes are of the same component type when their definitions are
// equal, so definitions are normally pointers.
type Definition interface {
	ComponentName() string
}

// FunctionalComponent renders without an instance.
type FunctionalComponent func(props Props, slots Slots) *VNode

// Slot renders slot content with optional slot props.
type Slot func(props Props) []*VNode

// Slots maps slot names to slot functions. The default slot is "default".
type Slots map[string]Slot

// Props holds attributes, DOM properties and event handlers.
// Event handler keys follow the onXxx convention ("onClick").
type Props map[string]any

// TransitionHooks are invoked around host insertion and removal.
type TransitionHooks struct {
	// Persisted skips the hooks on insert and remove; the node stays
	// mounted and only its visibility is toggled by the caller.
	Persisted bool

	BeforeEnter func(el any)
	Enter       func(el any)
	Leave       func(el any, done func())
	AfterLeave  func(el any)
}

// VNode is a virtual node.
type VNode struct {
	Kind       Kind
	Tag        string              // KindElement
	Component  Definition          // KindComponent
	Functional FunctionalComponent // KindFunctional

	Props    Props
	Children []*VNode // array children
	Text     string   // KindText, or an element's text children
	Slots    Slots    // component slot children

	// Key gives the node a stable identity among its siblings.
	Key any
	// Ref receives the realized element or component after patch:
	// a reactive.AnyRef or a func(any).
	Ref any

	ShapeFlag       ShapeFlag
	PatchFlag       PatchFlag
	DynamicProps    []string
	DynamicChildren []*VNode

	Transition *TransitionHooks

	// Set by the renderer.
	El           any // host node; first host node for fragments and components
	Anchor       any // fragment end anchor, teleport end anchor
	Target       any // teleport container
	TargetAnchor any // teleport anchor inside Target
	Instance     any // component instance
}

// HasKey reports whether the node carries a key.
func (v *VNode) HasKey() bool {
	return v != nil && v.Key != nil
}

// IsComponent reports whether the node is a stateful or functional
// component.
func (v *VNode) IsComponent() bool {
	return v != nil && v.ShapeFlag.Any(ShapeComponent)
}

// TypeName returns a short description of the node type for diagnostics.
func (v *VNode) TypeName() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindElement:
		return v.Tag
	case KindComponent:
		if v.Component != nil {
			return v.Component.ComponentName()
		}
	case KindFunctional:
		return "functional"
	}
	return v.Kind.String()
}

// String returns a compact representation for debugging.
func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.Kind == KindText {
		return fmt.Sprintf("%q", v.Text)
	}
	if v.Key != nil {
		return fmt.Sprintf("<%s key=%v>", v.TypeName(), v.Key)
	}
	return "<" + v.TypeName() + ">"
}

// IsSameVNodeType reports whether b can be patched from a: same kind, same
// key, and same tag or component identity.
func IsSameVNodeType(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Tag == b.Tag
	case KindComponent:
		return a.Component == b.Component
	case KindFunctional:
		return funcIdentity(a.Functional) == funcIdentity(b.Functional)
	}
	return true
}

func funcIdentity(fn FunctionalComponent) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}
