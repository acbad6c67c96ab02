package renderer

import "github.com/vango-dev/reactor/pkg/vdom"

// prepareChild returns a vnode safe to mount: a node that is already
// mounted elsewhere is cloned so the two positions don't share El.
func prepareChild(children []*vdom.VNode, i int) *vdom.VNode {
	c := children[i]
	if c.El != nil && c.PatchFlag != vdom.PatchHoisted {
		c = vdom.CloneVNode(c, nil)
		children[i] = c
	}
	return c
}

func (r *Renderer) mountChildren(v *vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	for i := range v.Children {
		c := prepareChild(v.Children, i)
		r.patch(nil, c, container, anchor, parent, optimized)
	}
}

func (r *Renderer) unmountChildren(children []*vdom.VNode, parent *Instance, doRemove bool) {
	for _, c := range children {
		r.unmount(c, parent, doRemove)
	}
}

// patchChildren reconciles the children of n1 into n2. Children are text,
// an array, or absent; every combination is handled. anchor is where new
// children go when container also holds siblings of the parent (fragments).
func (r *Renderer) patchChildren(n1, n2 *vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	oldArray := n1.ShapeFlag.Has(vdom.ShapeArrayChildren)
	oldText := n1.ShapeFlag.Has(vdom.ShapeTextChildren)

	switch {
	case n2.ShapeFlag.Has(vdom.ShapeTextChildren):
		if oldArray {
			r.unmountChildren(n1.Children, parent, true)
		}
		if !oldText || n1.Text != n2.Text {
			r.host.SetElementText(container, n2.Text)
		}

	case n2.ShapeFlag.Has(vdom.ShapeArrayChildren):
		switch {
		case oldArray && n2.PatchFlag.Has(vdom.PatchUnkeyedFragment):
			r.patchUnkeyedChildren(n1.Children, n2.Children, container, anchor, parent, optimized)
		case oldArray:
			r.patchKeyedChildren(n1.Children, n2.Children, container, anchor, parent, optimized)
		default:
			if oldText {
				r.host.SetElementText(container, "")
			}
			r.mountChildren(n2, container, anchor, parent, optimized)
		}

	default:
		if oldArray {
			r.unmountChildren(n1.Children, parent, true)
		} else if oldText {
			r.host.SetElementText(container, "")
		}
	}
}

// patchUnkeyedChildren patches children pairwise by position.
func (r *Renderer) patchUnkeyedChildren(c1, c2 []*vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	common := min(len(c1), len(c2))
	for i := 0; i < common; i++ {
		r.patch(c1[i], prepareChild(c2, i), container, nil, parent, optimized)
	}
	if len(c1) > len(c2) {
		r.unmountChildren(c1[common:], parent, true)
		return
	}
	for i := common; i < len(c2); i++ {
		r.patch(nil, prepareChild(c2, i), container, anchor, parent, optimized)
	}
}

// patchKeyedChildren reconciles two child lists with the minimum number of
// moves:
//
//  1. patch the common prefix and suffix in place;
//  2. if only new nodes remain, mount them; if only old ones, unmount them;
//  3. otherwise match the middle range by key (unkeyed nodes match the
//     first unclaimed new node of the same type), unmount what has no
//     match, and move only the matched nodes that are not part of the
//     longest increasing subsequence of old positions.
func (r *Renderer) patchKeyedChildren(c1, c2 []*vdom.VNode, container, parentAnchor any, parent *Instance, optimized bool) {
	i := 0
	e1 := len(c1) - 1
	e2 := len(c2) - 1

	// 1. sync from start
	for i <= e1 && i <= e2 {
		n1, n2 := c1[i], prepareChild(c2, i)
		if !vdom.IsSameVNodeType(n1, n2) {
			break
		}
		r.patch(n1, n2, container, nil, parent, optimized)
		i++
	}

	// 2. sync from end
	for i <= e1 && i <= e2 {
		n1, n2 := c1[e1], prepareChild(c2, e2)
		if !vdom.IsSameVNodeType(n1, n2) {
			break
		}
		r.patch(n1, n2, container, nil, parent, optimized)
		e1--
		e2--
	}

	// 3. common sequence + mount
	if i > e1 {
		if i <= e2 {
			anchor := r.anchorAfter(c2, e2, parentAnchor)
			for ; i <= e2; i++ {
				r.patch(nil, prepareChild(c2, i), container, anchor, parent, optimized)
			}
		}
		return
	}

	// 4. common sequence + unmount
	if i > e2 {
		for ; i <= e1; i++ {
			r.unmount(c1[i], parent, true)
		}
		return
	}

	// 5. unknown sequence
	s1, s2 := i, i

	keyToNewIndex := make(map[any]int, e2-s2+1)
	for i = s2; i <= e2; i++ {
		n2 := prepareChild(c2, i)
		if n2.Key != nil {
			keyToNewIndex[n2.Key] = i
		}
	}

	toBePatched := e2 - s2 + 1
	patched := 0
	moved := false
	maxNewIndexSoFar := 0

	// newIndexToOldIndex[k] is 1 + the old index of the node now at
	// s2+k, or 0 for a node with no old counterpart.
	newIndexToOldIndex := make([]int, toBePatched)

	for i = s1; i <= e1; i++ {
		prev := c1[i]
		if patched >= toBePatched {
			// every new node is matched; the rest are stale
			r.unmount(prev, parent, true)
			continue
		}

		newIndex := -1
		if prev.Key != nil {
			if idx, ok := keyToNewIndex[prev.Key]; ok {
				newIndex = idx
			}
		} else {
			for j := s2; j <= e2; j++ {
				if newIndexToOldIndex[j-s2] == 0 && vdom.IsSameVNodeType(prev, c2[j]) {
					newIndex = j
					break
				}
			}
		}

		if newIndex < 0 {
			r.unmount(prev, parent, true)
			continue
		}
		newIndexToOldIndex[newIndex-s2] = i + 1
		if newIndex >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIndex
		} else {
			moved = true
		}
		r.patch(prev, c2[newIndex], container, nil, parent, optimized)
		patched++
	}

	var increasing []int
	if moved {
		increasing = Sequence(newIndexToOldIndex)
	}
	j := len(increasing) - 1

	// Walk backwards so the node after the current one is always in its
	// final place and can serve as the anchor.
	for k := toBePatched - 1; k >= 0; k-- {
		nextIndex := s2 + k
		next := c2[nextIndex]
		anchor := r.anchorAfter(c2, nextIndex, parentAnchor)

		switch {
		case newIndexToOldIndex[k] == 0:
			r.patch(nil, next, container, anchor, parent, optimized)
		case moved:
			if j < 0 || k != increasing[j] {
				r.move(next, container, anchor)
			} else {
				j--
			}
		}
	}
}

// anchorAfter returns the host node of children[i+1], or fallback when i
// is the last index.
func (r *Renderer) anchorAfter(children []*vdom.VNode, i int, fallback any) any {
	if i+1 < len(children) {
		return children[i+1].El
	}
	return fallback
}
