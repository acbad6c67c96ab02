package renderer

import (
	"maps"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func (r *Renderer) processElement(n1, n2 *vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	if n1 == nil {
		r.mountElement(n2, container, anchor, parent, optimized)
		return
	}
	r.patchElement(n1, n2, parent, optimized)
}

func (r *Renderer) mountElement(v *vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	el := r.host.CreateElement(v.Tag)
	v.El = el

	if v.ShapeFlag.Has(vdom.ShapeTextChildren) {
		r.host.SetElementText(el, v.Text)
	} else if v.ShapeFlag.Has(vdom.ShapeArrayChildren) {
		r.mountChildren(v, el, nil, parent, optimized && v.DynamicChildren != nil)
	}

	for _, k := range sortedPropKeys(v.Props) {
		if isReservedProp(k) {
			continue
		}
		r.host.PatchProp(el, k, nil, v.Props[k])
	}

	t := v.Transition
	if t != nil && !t.Persisted && t.BeforeEnter != nil {
		t.BeforeEnter(el)
	}
	r.host.Insert(el, container, anchor)
	if t != nil && !t.Persisted && t.Enter != nil {
		t.Enter(el)
	}
}

func (r *Renderer) patchElement(n1, n2 *vdom.VNode, parent *Instance, optimized bool) {
	el := n1.El
	n2.El = el
	oldProps, newProps := n1.Props, n2.Props

	switch flag := n2.PatchFlag; {
	case flag.Has(vdom.PatchFullProps):
		r.patchProps(el, oldProps, newProps)
	case flag > 0:
		if flag.Has(vdom.PatchClass) && propChanged("class", oldProps["class"], newProps["class"]) {
			r.host.PatchProp(el, "class", oldProps["class"], newProps["class"])
		}
		if flag.Has(vdom.PatchStyle) {
			r.host.PatchProp(el, "style", oldProps["style"], newProps["style"])
		}
		if flag.Has(vdom.PatchProps) {
			for _, k := range n2.DynamicProps {
				prev, next := oldProps[k], newProps[k]
				if propChanged(k, prev, next) || k == "value" {
					r.host.PatchProp(el, k, prev, next)
				}
			}
		}
		if flag.Has(vdom.PatchText) && n1.Text != n2.Text {
			r.host.SetElementText(el, n2.Text)
		}
	case !optimized && flag != vdom.PatchHoisted:
		r.patchProps(el, oldProps, newProps)
	}

	switch {
	case n1.DynamicChildren != nil && n2.DynamicChildren != nil:
		r.patchBlockChildren(n1.DynamicChildren, n2.DynamicChildren, el, parent)
		inheritStatic(n1, n2)
	case !optimized:
		r.patchChildren(n1, n2, el, nil, parent, false)
	}
}

// patchProps applies every difference between two prop maps.
func (r *Renderer) patchProps(el any, oldProps, newProps vdom.Props) {
	for _, k := range sortedPropKeys(newProps) {
		if isReservedProp(k) {
			continue
		}
		prev, next := oldProps[k], newProps[k]
		if propChanged(k, prev, next) {
			r.host.PatchProp(el, k, prev, next)
		}
	}
	for _, k := range sortedPropKeys(oldProps) {
		if isReservedProp(k) {
			continue
		}
		if _, ok := newProps[k]; !ok {
			r.host.PatchProp(el, k, oldProps[k], nil)
		}
	}
}

// patchBlockChildren patches the dynamic descendants of a block pairwise.
// A node that changed type is replaced inside its current parent.
func (r *Renderer) patchBlockChildren(oldChildren, newChildren []*vdom.VNode, fallback any, parent *Instance) {
	for i, n2 := range newChildren {
		if i >= len(oldChildren) {
			break
		}
		n1 := oldChildren[i]
		container := fallback
		if n1.El != nil && (n1.Kind == vdom.KindFragment || n1.IsComponent() || !vdom.IsSameVNodeType(n1, n2)) {
			container = r.hostParent(n1)
		}
		r.patch(n1, n2, container, nil, parent, true)
	}
}

// inheritStatic copies host nodes from the old block tree to static nodes
// of the new one, which patchBlockChildren never visits.
func inheritStatic(n1, n2 *vdom.VNode) {
	if len(n1.Children) != len(n2.Children) {
		return
	}
	for i, c2 := range n2.Children {
		c1 := n1.Children[i]
		if c1 == nil || c2 == nil || c1 == c2 {
			continue
		}
		if c2.El == nil {
			c2.El = c1.El
			c2.Anchor = c1.Anchor
		}
		if c2.DynamicChildren == nil {
			inheritStatic(c1, c2)
		}
	}
}

// propChanged reports whether a prop must be re-applied. Handlers are
// always re-applied; the host swaps them without touching listeners.
func propChanged(key string, prev, next any) bool {
	if isEventProp(key) {
		return prev != nil || next != nil
	}
	if prev != nil && reflect.TypeOf(prev).Kind() == reflect.Map && !isStyleOrClass(key) {
		return true
	}
	if isStyleOrClass(key) && isMapValue(prev, next) {
		return !reflect.DeepEqual(prev, next)
	}
	return reactive.HasChanged(prev, next)
}

func isStyleOrClass(key string) bool {
	return key == "style" || key == "class"
}

func isMapValue(vals ...any) bool {
	for _, v := range vals {
		if v != nil && reflect.TypeOf(v).Kind() == reflect.Map {
			return true
		}
	}
	return false
}

func isEventProp(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on") && unicode.IsUpper(rune(key[2]))
}

func isReservedProp(key string) bool {
	return key == "key" || key == "ref"
}

func sortedPropKeys(p vdom.Props) []string {
	if len(p) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(p))
}
