package renderer

import (
	"log/slog"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Renderer mounts and patches vnode trees on a Host.
// It is not safe for concurrent use; drive it from one goroutine (see
// scheduler.Loop).
type Renderer struct {
	host     Host
	queue    *scheduler.Queue
	logger   *slog.Logger
	roots    map[any]*vdom.VNode
	provides map[any]any

	// post holds callbacks that run once the outermost patch returns.
	post  []func()
	depth int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger for render diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithQueue sets the queue component updates are scheduled on. By default
// each renderer owns a private queue.
func WithQueue(q *scheduler.Queue) Option {
	return func(r *Renderer) {
		if q != nil {
			r.queue = q
		}
	}
}

// New creates a renderer for host.
func New(host Host, opts ...Option) *Renderer {
	r := &Renderer{
		host:   host,
		logger: slog.Default(),
		roots:  make(map[any]*vdom.VNode),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.queue == nil {
		r.queue = scheduler.NewQueue(scheduler.WithLogger(r.logger))
	}
	return r
}

// Host returns the renderer's host.
func (r *Renderer) Host() Host {
	return r.host
}

// Queue returns the queue component updates are scheduled on.
func (r *Renderer) Queue() *scheduler.Queue {
	return r.queue
}

// Flush runs pending component updates.
func (r *Renderer) Flush() error {
	return r.queue.Flush()
}

// Provide makes value available to Inject in every component rendered by r.
func (r *Renderer) Provide(key, value any) {
	if r.provides == nil {
		r.provides = make(map[any]any)
	}
	r.provides[key] = value
}

// Render renders v into container, patching against whatever was last
// rendered there. A nil v unmounts the previous tree.
func (r *Renderer) Render(v *vdom.VNode, container any) {
	r.withPost(func() {
		prev := r.roots[container]
		if v == nil {
			if prev != nil {
				r.unmount(prev, nil, true)
				delete(r.roots, container)
			}
			return
		}
		r.patch(prev, v, container, nil, nil, false)
		r.roots[container] = v
	})
}

// Root returns the tree last rendered into container.
func (r *Renderer) Root(container any) *vdom.VNode {
	return r.roots[container]
}

// Patch reconciles old into v under container, inserting new host nodes
// before anchor. A nil old mounts v.
func (r *Renderer) Patch(old, v *vdom.VNode, container, anchor any) {
	r.withPost(func() { r.patch(old, v, container, anchor, nil, false) })
}

// Unmount tears down a mounted tree and removes it from the host.
func (r *Renderer) Unmount(v *vdom.VNode) {
	r.withPost(func() { r.unmount(v, nil, true) })
}

// patch is the dispatch point of the reconciler. optimized is set while
// patching the dynamic children of a block: nodes without their own
// dynamic children then skip the full children diff.
func (r *Renderer) patch(n1, n2 *vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	if n1 == n2 {
		return
	}
	if n1 != nil && !vdom.IsSameVNodeType(n1, n2) {
		anchor = r.nextHostNode(n1)
		r.unmount(n1, parent, true)
		n1 = nil
	}
	if n2.PatchFlag == vdom.PatchBail {
		optimized = false
		n2.DynamicChildren = nil
	}

	switch n2.Kind {
	case vdom.KindText:
		r.processText(n1, n2, container, anchor)
	case vdom.KindComment:
		r.processComment(n1, n2, container, anchor)
	case vdom.KindFragment:
		r.processFragment(n1, n2, container, anchor, parent, optimized)
	case vdom.KindElement:
		r.processElement(n1, n2, container, anchor, parent, optimized)
	case vdom.KindComponent, vdom.KindFunctional:
		r.processComponent(n1, n2, container, anchor, parent, optimized)
	case vdom.KindTeleport:
		r.processTeleport(n1, n2, container, anchor, parent, optimized)
	}

	if n1 != nil && n1.Ref != nil {
		r.unsetStaleRef(n1.Ref, n2.Ref)
	}
	if n2.Ref != nil {
		r.setRef(n2.Ref, n2, false)
	}
}

func (r *Renderer) processText(n1, n2 *vdom.VNode, container, anchor any) {
	if n1 == nil {
		n2.El = r.host.CreateText(n2.Text)
		r.host.Insert(n2.El, container, anchor)
		return
	}
	n2.El = n1.El
	if n2.Text != n1.Text {
		r.host.SetText(n2.El, n2.Text)
	}
}

// processComment realizes placeholders as empty text nodes.
func (r *Renderer) processComment(n1, n2 *vdom.VNode, container, anchor any) {
	if n1 == nil {
		n2.El = r.host.CreateText("")
		r.host.Insert(n2.El, container, anchor)
		return
	}
	n2.El = n1.El
}

// processFragment brackets the children with empty text anchors so the
// fragment can be moved and removed as a unit.
func (r *Renderer) processFragment(n1, n2 *vdom.VNode, container, anchor any, parent *Instance, optimized bool) {
	if n1 == nil {
		start := r.host.CreateText("")
		end := r.host.CreateText("")
		n2.El, n2.Anchor = start, end
		r.host.Insert(start, container, anchor)
		r.host.Insert(end, container, anchor)
		r.mountChildren(n2, container, end, parent, optimized)
		return
	}

	n2.El, n2.Anchor = n1.El, n1.Anchor
	if n2.PatchFlag.Has(vdom.PatchStableFragment) && n1.DynamicChildren != nil && n2.DynamicChildren != nil {
		r.patchBlockChildren(n1.DynamicChildren, n2.DynamicChildren, container, parent)
		inheritStatic(n1, n2)
		return
	}
	r.patchChildren(n1, n2, container, n2.Anchor, parent, optimized)
}

// nextHostNode returns the host node following everything v rendered.
func (r *Renderer) nextHostNode(v *vdom.VNode) any {
	switch v.Kind {
	case vdom.KindComponent, vdom.KindFunctional:
		if inst := instanceOf(v); inst != nil && inst.subTree != nil {
			return r.nextHostNode(inst.subTree)
		}
		return nil
	case vdom.KindFragment, vdom.KindTeleport:
		return r.host.NextSibling(v.Anchor)
	}
	return r.host.NextSibling(v.El)
}

// hostParent returns the container currently holding v.
func (r *Renderer) hostParent(v *vdom.VNode) any {
	return r.host.ParentNode(v.El)
}

// move re-inserts everything v rendered before anchor in container.
func (r *Renderer) move(v *vdom.VNode, container, anchor any) {
	switch v.Kind {
	case vdom.KindComponent, vdom.KindFunctional:
		if inst := instanceOf(v); inst != nil {
			r.move(inst.subTree, container, anchor)
		}
	case vdom.KindFragment:
		r.host.Insert(v.El, container, anchor)
		for _, c := range v.Children {
			r.move(c, container, anchor)
		}
		r.host.Insert(v.Anchor, container, anchor)
	case vdom.KindTeleport:
		r.moveTeleport(v, container, anchor)
	default:
		r.host.Insert(v.El, container, anchor)
	}
}

// unmount tears v down. doRemove is false for descendants of an element
// that is itself being removed: their host nodes leave with it, but
// components still run their unmount hooks and refs are cleared.
func (r *Renderer) unmount(v *vdom.VNode, parent *Instance, doRemove bool) {
	if v.Ref != nil {
		r.setRef(v.Ref, v, true)
	}
	if v.ShapeFlag.Has(vdom.ShapeComponentShouldKeepAlive) {
		if ka := parent.keepAliveCtx(); ka != nil {
			ka.deactivate(v)
			return
		}
	}

	switch v.Kind {
	case vdom.KindComponent, vdom.KindFunctional:
		if inst := instanceOf(v); inst != nil {
			r.unmountComponent(inst, doRemove)
		}
	case vdom.KindFragment:
		r.unmountChildren(v.Children, parent, doRemove)
		if doRemove {
			r.host.Remove(v.El)
			r.host.Remove(v.Anchor)
		}
	case vdom.KindTeleport:
		r.unmountTeleport(v, parent, doRemove)
	case vdom.KindElement:
		r.unmountChildren(v.Children, parent, false)
		if doRemove {
			r.remove(v)
		}
	default:
		if doRemove {
			r.host.Remove(v.El)
		}
	}
}

// remove detaches an element, running its leave transition first.
func (r *Renderer) remove(v *vdom.VNode) {
	el := v.El
	t := v.Transition
	if t == nil || t.Persisted || t.Leave == nil {
		r.host.Remove(el)
		return
	}
	t.Leave(el, func() {
		r.host.Remove(el)
		if t.AfterLeave != nil {
			t.AfterLeave(el)
		}
	})
}

// setRef binds the realized value of v to ref: the exposed value or the
// instance for components, the host node otherwise.
func (r *Renderer) setRef(ref any, v *vdom.VNode, unset bool) {
	var value any
	if !unset {
		if inst := instanceOf(v); inst != nil && v.Kind == vdom.KindComponent {
			if inst.exposed != nil {
				value = inst.exposed
			} else {
				value = inst
			}
		} else {
			value = v.El
		}
	}
	switch target := ref.(type) {
	case reactive.AnyRef:
		target.SetAny(value)
	case func(any):
		target(value)
	default:
		r.logger.Warn("unsupported ref binding", "type", v.TypeName())
	}
}

// unsetStaleRef clears the ref of the previous vnode when the new vnode
// binds a different one.
func (r *Renderer) unsetStaleRef(oldRef, newRef any) {
	o, ok := oldRef.(reactive.AnyRef)
	if !ok {
		return
	}
	if n, ok := newRef.(reactive.AnyRef); ok && n == o {
		return
	}
	o.SetAny(nil)
}

func instanceOf(v *vdom.VNode) *Instance {
	inst, _ := v.Instance.(*Instance)
	return inst
}
