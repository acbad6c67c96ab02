// Package vdom defines the virtual node model consumed by the renderer.
//
// A VNode describes one node of a UI tree: a host element, a text node, a
// fragment, a component, or a teleport. Trees are rebuilt on every render;
// the renderer diffs the new tree against the previous one and copies the
// realized host node (El) forward into the new tree.
//
// # Building trees
//
// H mirrors the familiar hyperscript signature and accepts its arguments
// in any of these shapes:
//
//	vdom.H("div")
//	vdom.H("div", vdom.Props{"class": "card"})
//	vdom.H("div", "text children")
//	vdom.H("ul", []*vdom.VNode{item1, item2})
//	vdom.H("div", vdom.Props{"id": "x"}, child1, child2)
//	vdom.H(counter, vdom.Props{"start": 1})              // component
//	vdom.H(vdom.TypeFragment, []*vdom.VNode{a, b})
//	vdom.H(vdom.TypeTeleport, vdom.Props{"to": "#modal"}, dialog)
//
// The reserved props "key" and "ref" are lifted into VNode.Key and
// VNode.Ref and never reach the host.
//
// # Classification
//
// ShapeFlag records what a node is and what its children are, so the
// renderer dispatches with bit tests. PatchFlag marks which parts of an
// element are known to be dynamic; CreateElementBlock collects the dynamic
// descendants of a subtree so updates can skip static structure.
package vdom
