package renderer

import (
	"fmt"
	"maps"
	"reflect"
	"runtime/debug"
	"slices"
	"sync/atomic"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

var uidCounter atomic.Uint64

// unsupportedComponent stands in for a component definition the renderer
// cannot mount.
func unsupportedComponent(vdom.Props, vdom.Slots) *vdom.VNode {
	return vdom.Comment("unsupported component")
}

func (r *Renderer) processComponent(n1, n2 *vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	if n1 != nil {
		r.updateComponent(n1, n2)
		return
	}
	if n2.ShapeFlag.Has(vdom.ShapeComponentKeptAlive) {
		if ka := parent.keepAliveCtx(); ka != nil {
			ka.activate(n2, container, anchor)
			return
		}
	}
	r.mountComponent(n2, container, anchor, parent)
}

func (r *Renderer) mountComponent(v *vdom.VNode, container, anchor any, parent *Instance) {
	inst := &Instance{
		uid:    uidCounter.Add(1),
		vnode:  v,
		parent: parent,
		r:      r,
		slots:  v.Slots,
	}
	v.Instance = inst

	if v.Kind == vdom.KindFunctional {
		inst.functional = v.Functional
	} else {
		def, ok := v.Component.(*Component)
		if !ok {
			errors.Warn(r.logger, "R101", "type", fmt.Sprintf("%T", v.Component))
			inst.functional = unsupportedComponent
			r.setupRenderEffect(inst, container, anchor)
			return
		}
		inst.def = def
		if def.keepAlive {
			inst.keepAlive = newKeepAliveCtx(r, inst)
		}
		r.setupComponent(inst)
	}
	r.setupRenderEffect(inst, container, anchor)
}

// setupComponent resolves props, data and the setup result. Setup runs
// untracked so that the reads it performs are not attributed to the
// parent's render.
func (r *Renderer) setupComponent(inst *Instance) {
	def := inst.def
	props, attrs := inst.resolveProps(inst.vnode.Props)
	inst.props = reactive.Reactive(props)
	inst.attrs = attrs

	reactive.Untracked(func() {
		if def.Data != nil {
			inst.data = reactive.Reactive(def.Data())
		}
		if def.Setup == nil {
			return
		}
		result := def.Setup(inst.props, &SetupContext{inst: inst})
		switch res := result.(type) {
		case nil:
		case func() *vdom.VNode:
			inst.render = res
		case map[string]any:
			inst.setupState = reactive.ProxyRefs(res)
		default:
			errors.Warn(r.logger, "R106", "component", def.ComponentName(), "type", fmt.Sprintf("%T", result))
		}
	})

	if inst.render == nil && def.Render == nil {
		errors.Warn(r.logger, "R101", "component", def.ComponentName())
	}
}

// setupRenderEffect creates the effect that renders the instance and
// patches the result. Re-renders triggered by reactive writes are queued
// as one job per instance.
func (r *Renderer) setupRenderEffect(inst *Instance, container, anchor any) {
	inst.effect = reactive.NewEffect(func() {
		if !inst.isMounted {
			r.mountSubTree(inst, container, anchor)
		} else {
			r.updateSubTree(inst)
		}
	}, func() {
		r.queue.Enqueue(inst.job)
	}, reactive.WithName(inst.Name()))

	inst.job = scheduler.NewJob(inst.Name(), func() {
		r.withPost(func() { r.runUpdate(inst) })
	})

	r.runUpdate(inst)
}

// runUpdate re-renders inst if anything invalidated it since its last
// render. A parent-driven update that already ran makes a queued job a
// no-op.
func (r *Renderer) runUpdate(inst *Instance) {
	if inst.isUnmounted || !inst.effect.Dirty() {
		return
	}
	inst.effect.Run()
}

func (r *Renderer) mountSubTree(inst *Instance, container, anchor any) {
	r.callHooks(inst, hookBeforeMount)
	subTree := r.renderRoot(inst)
	inst.subTree = subTree
	r.patch(nil, subTree, container, anchor, inst, false)
	inst.vnode.El = subTree.El
	inst.isMounted = true
	r.queuePostHooks(inst, hookMounted)
	if inst.vnode.ShapeFlag.Has(vdom.ShapeComponentShouldKeepAlive) {
		r.queuePostHooks(inst, hookActivated)
	}
}

func (r *Renderer) updateSubTree(inst *Instance) {
	next := inst.next
	if next != nil {
		inst.next = nil
		next.El = inst.vnode.El
		r.updatePreRender(inst, next)
		// Prop writes above invalidated the running effect.
		inst.effect.SetDirty(false)
	} else {
		next = inst.vnode
	}

	r.callHooks(inst, hookBeforeUpdate)
	prev := inst.subTree
	subTree := r.renderRoot(inst)
	inst.subTree = subTree
	r.patch(prev, subTree, r.hostParent(prev), r.nextHostNode(prev), inst, false)
	next.El = subTree.El
	// A component rendered as another component's root shares its El.
	for p, v := inst.parent, next; p != nil && p.subTree == v; p, v = p.parent, p.vnode {
		p.vnode.El = v.El
	}
	r.queuePostHooks(inst, hookUpdated)
}

// updatePreRender installs the vnode a parent re-render produced.
func (r *Renderer) updatePreRender(inst *Instance, next *vdom.VNode) {
	next.Instance = inst
	inst.vnode = next
	inst.slots = next.Slots
	if inst.def == nil {
		if next.Kind == vdom.KindFunctional {
			inst.functional = next.Functional
		}
		return
	}

	props, attrs := inst.resolveProps(next.Props)
	raw := inst.props.Raw()
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		if _, ok := props[k]; !ok {
			inst.props.Delete(k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(props)) {
		inst.props.Set(k, props[k])
	}
	inst.attrs = attrs
}

// renderRoot calls the render function and normalizes the result. A panic
// in render is logged and renders a placeholder.
func (r *Renderer) renderRoot(inst *Instance) (root *vdom.VNode) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("component render panic",
				"component", inst.Name(),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			root = vdom.Comment("render error")
		}
	}()

	var result *vdom.VNode
	switch {
	case inst.functional != nil:
		result = inst.functional(inst.vnode.Props, inst.slots)
	case inst.render != nil:
		result = inst.render()
	case inst.def != nil && inst.def.Render != nil:
		result = inst.def.Render(inst)
	}

	root = vdom.Normalize(result)
	if root.El != nil {
		root = vdom.CloneVNode(root, nil)
	}
	if inst.def != nil && !inst.def.NoInheritAttrs && len(inst.attrs) > 0 &&
		(root.Kind == vdom.KindElement || root.IsComponent()) {
		root = vdom.CloneVNode(root, inst.attrs)
	}
	return root
}

func (r *Renderer) updateComponent(n1, n2 *vdom.VNode) {
	inst := instanceOf(n1)
	n2.Instance = inst
	if inst == nil {
		return
	}
	if !shouldUpdateComponent(n1, n2) {
		n2.El = n1.El
		inst.vnode = n2
		return
	}
	inst.next = n2
	inst.effect.SetDirty(true)
	r.runUpdate(inst)
}

// shouldUpdateComponent reports whether a parent re-render must re-render
// the child: it has slots, or any prop changed.
func shouldUpdateComponent(n1, n2 *vdom.VNode) bool {
	if n1.Slots != nil || n2.Slots != nil {
		return true
	}
	prev, next := n1.Props, n2.Props
	if len(prev) == 0 && len(next) == 0 {
		return false
	}
	if len(prev) == len(next) && reflect.ValueOf(prev).UnsafePointer() == reflect.ValueOf(next).UnsafePointer() {
		return false
	}
	if len(prev) != len(next) {
		return true
	}
	for k, v := range next {
		old, ok := prev[k]
		if !ok || reactive.HasChanged(old, v) {
			return true
		}
	}
	return false
}

func (r *Renderer) unmountComponent(inst *Instance, doRemove bool) {
	r.callHooks(inst, hookBeforeUnmount)
	for _, stop := range inst.scope {
		stop()
	}
	inst.scope = nil
	if inst.effect != nil {
		inst.effect.Stop()
	}
	if inst.job != nil {
		inst.job.Stop()
	}
	if inst.subTree != nil {
		r.unmount(inst.subTree, inst, doRemove)
	}
	inst.isUnmounted = true
	r.queuePostHooks(inst, hookUnmounted)
}

// callHooks runs the hooks of kind k synchronously and untracked. A
// panicking hook is logged; the remaining hooks still run.
func (r *Renderer) callHooks(inst *Instance, k hookKind) {
	for _, fn := range inst.hooks[k] {
		r.safeCall(inst, k, fn)
	}
}

func (r *Renderer) queuePostHooks(inst *Instance, k hookKind) {
	for _, fn := range inst.hooks[k] {
		r.post = append(r.post, func() { r.safeCall(inst, k, fn) })
	}
}

func (r *Renderer) safeCall(inst *Instance, k hookKind, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("lifecycle hook panic",
				"component", inst.Name(),
				"hook", hookNames[k],
				"panic", rec,
			)
		}
	}()
	reactive.Untracked(fn)
}

// withPost runs fn and then, at the outermost level, the callbacks it
// queued for after the patch (mounted, updated, unmounted hooks).
func (r *Renderer) withPost(fn func()) {
	r.depth++
	defer func() {
		r.depth--
		if r.depth == 0 {
			r.flushPost()
		}
	}()
	fn()
}

func (r *Renderer) flushPost() {
	for len(r.post) > 0 {
		batch := r.post
		r.post = nil
		for _, fn := range batch {
			fn()
		}
	}
}
