package renderer

import (
	"slices"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// KeepAlive caches the component instances rendered in its default slot.
// A component switched out is moved to an off-screen container instead of
// being unmounted, and is moved back with its state when switched in.
//
// Props:
//   - "max" (int): cache size; the least recently used entry is unmounted
//     when it is exceeded. Zero means unbounded.
//   - "include", "exclude" ([]string): component names to cache, or not.
var KeepAlive = &Component{
	Name:      "KeepAlive",
	Props:     []string{"max", "include", "exclude"},
	Setup:     setupKeepAlive,
	keepAlive: true,
}

type keepAliveCtx struct {
	r       *Renderer
	inst    *Instance
	storage any

	cache   map[any]*vdom.VNode
	keys    []any // least recently used first
	pending any
}

func newKeepAliveCtx(r *Renderer, inst *Instance) *keepAliveCtx {
	return &keepAliveCtx{
		r:       r,
		inst:    inst,
		storage: r.host.CreateElement("div"),
		cache:   make(map[any]*vdom.VNode),
	}
}

// activate moves a cached subtree back into the tree and patches it
// against the vnode that replaced it.
func (ka *keepAliveCtx) activate(v *vdom.VNode, container, anchor any) {
	inst := instanceOf(v)
	r := ka.r
	r.move(v, container, anchor)
	r.patch(inst.vnode, v, container, anchor, inst.parent, false)
	inst.deactivated = false
	r.queuePostHooks(inst, hookActivated)
}

// deactivate moves v into the storage container.
func (ka *keepAliveCtx) deactivate(v *vdom.VNode) {
	inst := instanceOf(v)
	ka.r.move(v, ka.storage, nil)
	if inst != nil {
		inst.deactivated = true
		ka.r.queuePostHooks(inst, hookDeactivated)
	}
}

// Len returns the number of cached entries.
func (ka *keepAliveCtx) Len() int {
	return len(ka.cache)
}

func (ka *keepAliveCtx) touch(key any) {
	if i := slices.Index(ka.keys, key); i >= 0 {
		ka.keys = slices.Delete(ka.keys, i, i+1)
	}
	ka.keys = append(ka.keys, key)
}

// prune drops the cache entry for key. The entry is unmounted unless it
// is the component currently shown, which is instead unmounted normally
// once it is switched out.
func (ka *keepAliveCtx) prune(key any) {
	if cached := ka.cache[key]; cached != nil {
		if shown := ka.inst.subTree; shown != nil && vdom.IsSameVNodeType(cached, shown) {
			resetKeepAliveFlags(shown)
		} else {
			resetKeepAliveFlags(cached)
			ka.r.unmount(cached, ka.inst, true)
		}
	}
	delete(ka.cache, key)
	if i := slices.Index(ka.keys, key); i >= 0 {
		ka.keys = slices.Delete(ka.keys, i, i+1)
	}
}

func (ka *keepAliveCtx) cacheSubTree() {
	if ka.pending != nil {
		ka.cache[ka.pending] = ka.inst.subTree
	}
}

func resetKeepAliveFlags(v *vdom.VNode) {
	v.ShapeFlag &^= vdom.ShapeComponentShouldKeepAlive | vdom.ShapeComponentKeptAlive
}

func setupKeepAlive(props *reactive.Proxy, ctx *SetupContext) any {
	ka := ctx.Instance().keepAlive

	ctx.OnMounted(ka.cacheSubTree)
	ctx.OnUpdated(ka.cacheSubTree)
	ctx.OnBeforeUnmount(func() {
		shown := ka.inst.subTree
		for _, key := range slices.Clone(ka.keys) {
			cached := ka.cache[key]
			if cached == nil {
				continue
			}
			if shown != nil && vdom.IsSameVNodeType(cached, shown) {
				// Unmounted with the subtree.
				resetKeepAliveFlags(shown)
				if inst := instanceOf(shown); inst != nil {
					ka.r.callHooks(inst, hookDeactivated)
				}
				continue
			}
			resetKeepAliveFlags(cached)
			ka.r.unmount(cached, ka.inst, true)
		}
		ka.cache = make(map[any]*vdom.VNode)
		ka.keys = nil
	})

	return func() *vdom.VNode {
		ka.pending = nil
		slot := ctx.Slots()["default"]
		if slot == nil {
			return nil
		}
		children := slot(nil)
		if len(children) != 1 {
			if len(children) == 0 {
				return nil
			}
			ka.r.logger.Warn("KeepAlive should contain exactly one component child", "children", len(children))
			return vdom.Fragment(children)
		}

		v := children[0]
		if !v.ShapeFlag.Has(vdom.ShapeStatefulComponent) {
			return v
		}
		name := v.Component.ComponentName()
		include, _ := props.Get("include").([]string)
		exclude, _ := props.Get("exclude").([]string)
		if (include != nil && !slices.Contains(include, name)) || slices.Contains(exclude, name) {
			return v
		}

		key := v.Key
		if key == nil {
			key = v.Component
		}
		if v.El != nil {
			v = vdom.CloneVNode(v, nil)
		}

		if cached := ka.cache[key]; cached != nil {
			v.El = cached.El
			v.Instance = cached.Instance
			v.ShapeFlag |= vdom.ShapeComponentKeptAlive
			ka.touch(key)
		} else {
			ka.keys = append(ka.keys, key)
			if limit, _ := props.Get("max").(int); limit > 0 && len(ka.keys) > limit {
				ka.prune(ka.keys[0])
			}
		}

		v.ShapeFlag |= vdom.ShapeComponentShouldKeepAlive
		ka.pending = key
		return v
	}
}
