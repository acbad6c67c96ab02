package renderer

import "github.com/vango-dev/reactor/pkg/vdom"

// Transition attaches enter and leave hooks to the single child of its
// default slot. Hooks are read from the props:
//
//	"onBeforeEnter" func(el any)
//	"onEnter"       func(el any)
//	"onLeave"       func(el any, done func())
//	"onAfterLeave"  func(el any)
//	"persisted"     bool
//
// The element is removed only after onLeave calls done.
func Transition(props vdom.Props, slots vdom.Slots) *vdom.VNode {
	slot := slots["default"]
	if slot == nil {
		return nil
	}
	children := slot(nil)
	if len(children) == 0 {
		return nil
	}
	child := children[0]
	if child.El != nil {
		child = vdom.CloneVNode(child, nil)
	}
	hooks := &vdom.TransitionHooks{}
	hooks.Persisted, _ = props["persisted"].(bool)
	hooks.BeforeEnter, _ = props["onBeforeEnter"].(func(any))
	hooks.Enter, _ = props["onEnter"].(func(any))
	hooks.Leave, _ = props["onLeave"].(func(any, func()))
	hooks.AfterLeave, _ = props["onAfterLeave"].(func(any))
	child.Transition = hooks
	return child
}
