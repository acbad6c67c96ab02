package renderer

import (
	"fmt"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// A teleport renders two empty anchors in place (El and Anchor) and its
// children into the container named by the "to" prop: a selector resolved
// through the host's TargetResolver, or a host node. With "disabled" set
// the children stay in place between the anchors.

func (r *Renderer) processTeleport(n1, n2 *vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	disabled := isTeleportDisabled(n2.Props)

	if n1 == nil {
		start := r.host.CreateText("")
		end := r.host.CreateText("")
		n2.El, n2.Anchor = start, end
		r.host.Insert(start, container, anchor)
		r.host.Insert(end, container, anchor)

		switch {
		case disabled:
			r.resolveTeleportTarget(n2)
			r.mountChildren(n2, container, end, parent, optimized)
		case r.resolveTeleportTarget(n2):
			r.mountChildren(n2, n2.Target, n2.TargetAnchor, parent, optimized)
		}
		return
	}

	n2.El, n2.Anchor = n1.El, n1.Anchor
	n2.Target, n2.TargetAnchor = n1.Target, n1.TargetAnchor
	wasDisabled := isTeleportDisabled(n1.Props)

	if !wasDisabled && n1.Target == nil {
		// The target never resolved, so nothing was mounted.
		switch {
		case disabled:
			r.resolveTeleportTarget(n2)
			r.mountChildren(n2, r.hostParent(n2), n2.Anchor, parent, optimized)
		case r.resolveTeleportTarget(n2):
			r.mountChildren(n2, n2.Target, n2.TargetAnchor, parent, optimized)
		}
		return
	}

	current, currentAnchor := n2.Target, n2.TargetAnchor
	if wasDisabled {
		current, currentAnchor = r.hostParent(n2), n2.Anchor
	}
	r.patchChildren(n1, n2, current, currentAnchor, parent, optimized)

	switch {
	case disabled && !wasDisabled:
		r.moveTeleportChildren(n2, r.hostParent(n2), n2.Anchor)
	case !disabled && n2.Props["to"] != n1.Props["to"]:
		prevTarget := n2.Target
		if !r.resolveTeleportTarget(n2) {
			n2.Target = prevTarget
			return
		}
		if n2.Target != prevTarget || wasDisabled {
			r.host.Insert(n2.TargetAnchor, n2.Target, nil)
			r.moveTeleportChildren(n2, n2.Target, n2.TargetAnchor)
		}
	case !disabled && wasDisabled:
		if n2.Target == nil && !r.resolveTeleportTarget(n2) {
			return
		}
		r.moveTeleportChildren(n2, n2.Target, n2.TargetAnchor)
	}
}

// resolveTeleportTarget resolves the "to" prop into v.Target and makes
// sure the target holds v's target anchor. It reports whether a target
// was found; a miss is logged as R105.
func (r *Renderer) resolveTeleportTarget(v *vdom.VNode) bool {
	var target any
	switch to := v.Props["to"].(type) {
	case nil:
	case string:
		if tr, ok := r.host.(TargetResolver); ok {
			target = tr.QuerySelector(to)
		}
	default:
		target = to
	}
	if target == nil {
		if !isTeleportDisabled(v.Props) {
			errors.Warn(r.logger, "R105", "to", fmt.Sprint(v.Props["to"]))
		}
		return false
	}
	v.Target = target
	if v.TargetAnchor == nil {
		v.TargetAnchor = r.host.CreateText("")
		r.host.Insert(v.TargetAnchor, target, nil)
	}
	return true
}

// moveTeleport moves the teleport's in-place anchors; its children only
// follow when the teleport is disabled.
func (r *Renderer) moveTeleport(v *vdom.VNode, container, anchor any) {
	r.host.Insert(v.El, container, anchor)
	if isTeleportDisabled(v.Props) {
		for _, c := range v.Children {
			r.move(c, container, anchor)
		}
	}
	r.host.Insert(v.Anchor, container, anchor)
}

func (r *Renderer) moveTeleportChildren(v *vdom.VNode, container, anchor any) {
	for _, c := range v.Children {
		r.move(c, container, anchor)
	}
}

// unmountTeleport tears down the children, which live outside the parent
// element unless disabled, and removes the anchors.
func (r *Renderer) unmountTeleport(v *vdom.VNode, parent *Instance, doRemove bool) {
	disabled := isTeleportDisabled(v.Props)
	if doRemove {
		r.host.Remove(v.El)
		r.host.Remove(v.Anchor)
	}
	if v.TargetAnchor != nil {
		r.host.Remove(v.TargetAnchor)
	}
	if disabled || v.Target != nil {
		r.unmountChildren(v.Children, parent, doRemove || !disabled)
	}
}

func isTeleportDisabled(p vdom.Props) bool {
	switch d := p["disabled"].(type) {
	case bool:
		return d
	case string:
		return d == "" || d == "true"
	}
	return false
}
