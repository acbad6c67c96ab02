package vdom

// CreateElementBlock creates an element vnode that tracks its dynamic
// descendants. On update the renderer patches only DynamicChildren, in
// order, instead of diffing the whole child tree, so the block's structure
// (which children exist, and where) must not change between renders.
// Dynamic nodes are those with a positive patch flag, components, and
// nested blocks; the search does not descend into nested blocks.
func CreateElementBlock(tag string, props Props, children any, opts ...VNodeOption) *VNode {
	return makeBlock(CreateVNode(tag, props, children, opts...))
}

// CreateBlock is CreateElementBlock for any node type; a fragment block is
// the usual root of a multi-node template.
func CreateBlock(t any, props Props, children any, opts ...VNodeOption) *VNode {
	return makeBlock(CreateVNode(t, props, children, opts...))
}

func makeBlock(v *VNode) *VNode {
	v.DynamicChildren = make([]*VNode, 0)
	for _, c := range v.Children {
		collectDynamic(c, &v.DynamicChildren)
	}
	if v.Kind == KindFragment && v.PatchFlag == 0 {
		v.PatchFlag = PatchStableFragment
	}
	return v
}

func collectDynamic(v *VNode, out *[]*VNode) {
	if v == nil {
		return
	}
	if v.PatchFlag > 0 || v.IsComponent() || v.DynamicChildren != nil {
		*out = append(*out, v)
	}
	if v.DynamicChildren != nil {
		return
	}
	for _, c := range v.Children {
		collectDynamic(c, out)
	}
}

// IsBlock reports whether v tracks dynamic children.
func (v *VNode) IsBlock() bool {
	return v != nil && v.DynamicChildren != nil
}
