package renderer

import (
	"slices"
	"strings"
	"unicode"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Component is a stateful component definition. Vnodes reference a
// definition by pointer, so the same *Component must be used across renders
// for the instance to be reused.
//
//	var Counter = &renderer.Component{
//	    Name:  "Counter",
//	    Props: []string{"start"},
//	    Setup: func(props *reactive.Proxy, ctx *renderer.SetupContext) any {
//	        count := reactive.NewRef(props.Get("start").(int))
//	        return func() *vdom.VNode {
//	            return vdom.H("button", vdom.Props{
//	                "onClick": func() { count.Update(func(n int) int { return n + 1 }) },
//	            }, fmt.Sprint(count.Get()))
//	        }
//	    },
//	}
type Component struct {
	Name string

	// Props lists the declared props. Everything else passed to the
	// component lands in its attrs.
	Props []string

	// Emits lists the declared events. Their onXxx listeners are not
	// treated as attrs.
	Emits []string

	// Data returns the initial reactive state.
	Data func() map[string]any

	// Setup runs once per instance. It may return a render function
	// (func() *vdom.VNode) or a state map whose refs are unwrapped on
	// access through Instance.Get.
	Setup func(props *reactive.Proxy, ctx *SetupContext) any

	// Render is used when Setup does not return a render function.
	Render func(inst *Instance) *vdom.VNode

	// NoInheritAttrs disables copying attrs onto the root node.
	NoInheritAttrs bool

	keepAlive bool
}

// ComponentName implements vdom.Definition.
func (c *Component) ComponentName() string {
	if c.Name == "" {
		return "Anonymous"
	}
	return c.Name
}

type hookKind uint8

const (
	hookBeforeMount hookKind = iota
	hookMounted
	hookBeforeUpdate
	hookUpdated
	hookBeforeUnmount
	hookUnmounted
	hookActivated
	hookDeactivated
	numHooks
)

var hookNames = [numHooks]string{
	"beforeMount", "mounted", "beforeUpdate", "updated",
	"beforeUnmount", "unmounted", "activated", "deactivated",
}

// Instance is a mounted component.
type Instance struct {
	uid        uint64
	vnode      *vdom.VNode
	def        *Component
	functional vdom.FunctionalComponent
	parent     *Instance
	r          *Renderer

	props      *reactive.Proxy
	attrs      vdom.Props
	slots      vdom.Slots
	data       *reactive.Proxy
	setupState *reactive.RefsProxy
	exposed    map[string]any
	render     func() *vdom.VNode

	subTree     *vdom.VNode
	next        *vdom.VNode
	isMounted   bool
	isUnmounted bool
	deactivated bool

	effect *reactive.Effect
	job    *scheduler.Job
	scope  []func()

	hooks    [numHooks][]func()
	provides map[any]any

	keepAlive *keepAliveCtx
}

// UID returns the unique identifier of the instance.
func (i *Instance) UID() uint64 { return i.uid }

// Name returns the component name.
func (i *Instance) Name() string {
	if i.def != nil {
		return i.def.ComponentName()
	}
	return "functional"
}

// Parent returns the parent instance, or nil at the root.
func (i *Instance) Parent() *Instance { return i.parent }

// Props returns the reactive declared props.
func (i *Instance) Props() *reactive.Proxy { return i.props }

// Attrs returns the props that were not declared.
func (i *Instance) Attrs() vdom.Props { return i.attrs }

// Slots returns the slots passed by the parent.
func (i *Instance) Slots() vdom.Slots { return i.slots }

// Exposed returns what setup exposed, or nil.
func (i *Instance) Exposed() map[string]any { return i.exposed }

// SubTree returns the last rendered tree.
func (i *Instance) SubTree() *vdom.VNode { return i.subTree }

// El returns the first host node of the rendered tree.
func (i *Instance) El() any {
	if i.subTree == nil {
		return nil
	}
	return i.subTree.El
}

// IsMounted reports whether the first render has been patched.
func (i *Instance) IsMounted() bool { return i.isMounted }

// IsUnmounted reports whether the instance was torn down.
func (i *Instance) IsUnmounted() bool { return i.isUnmounted }

// Get resolves key against setup state, data and props, in that order.
// "$attrs", "$slots", "$props", "$el" and "$parent" return the
// corresponding instance fields.
func (i *Instance) Get(key string) any {
	if strings.HasPrefix(key, "$") {
		switch key {
		case "$attrs":
			return i.attrs
		case "$slots":
			return i.slots
		case "$props":
			return i.props
		case "$el":
			return i.El()
		case "$parent":
			if i.parent == nil {
				return nil
			}
			return i.parent
		}
	}
	if i.setupState != nil && i.setupState.Has(key) {
		return i.setupState.Get(key)
	}
	if i.data != nil && i.data.Has(key) {
		return i.data.Get(key)
	}
	if i.props != nil && i.props.Has(key) {
		return i.props.Get(key)
	}
	return nil
}

// Set writes key into setup state or data. Props are owned by the parent:
// writing one is reported and ignored. Set reports whether a write
// happened.
func (i *Instance) Set(key string, value any) bool {
	switch {
	case i.setupState != nil && i.setupState.Has(key):
		i.setupState.Set(key, value)
		return true
	case i.data != nil && i.data.Has(key):
		i.data.Set(key, value)
		return true
	case i.props != nil && i.props.Has(key):
		errors.Warn(i.r.logger, "R104", "component", i.Name(), "prop", key)
		return false
	}
	return false
}

// Update schedules a re-render.
func (i *Instance) Update() {
	if i.effect == nil || i.isUnmounted {
		return
	}
	i.effect.SetDirty(true)
	i.r.queue.Enqueue(i.job)
}

// Emit calls the parent's onXxx listener for event with args. It reports
// whether a listener was found.
func (i *Instance) Emit(event string, args ...any) bool {
	if i.vnode == nil {
		return false
	}
	h, ok := i.vnode.Props[handlerKey(event)]
	if !ok || h == nil {
		return false
	}
	invokeHandler(h, args)
	return true
}

func handlerKey(event string) string {
	if event == "" {
		return ""
	}
	r := []rune(event)
	r[0] = unicode.ToUpper(r[0])
	return "on" + string(r)
}

func invokeHandler(h any, args []any) {
	switch fn := h.(type) {
	case func():
		fn()
	case func(any):
		var arg any
		if len(args) > 0 {
			arg = args[0]
		}
		fn(arg)
	case func(...any):
		fn(args...)
	case []any:
		for _, each := range fn {
			invokeHandler(each, args)
		}
	}
}

func (i *Instance) keepAliveCtx() *keepAliveCtx {
	if i == nil {
		return nil
	}
	return i.keepAlive
}

func (i *Instance) isEmitListener(key string) bool {
	if i.def == nil || !isEventProp(key) {
		return false
	}
	for _, e := range i.def.Emits {
		if handlerKey(e) == key {
			return true
		}
	}
	return false
}

// resolveProps splits raw vnode props into declared props and attrs.
// Declared props missing from raw are present with a nil value.
func (i *Instance) resolveProps(raw vdom.Props) (map[string]any, vdom.Props) {
	props := make(map[string]any, len(i.def.Props))
	for _, k := range i.def.Props {
		props[k] = nil
	}
	var attrs vdom.Props
	for k, v := range raw {
		switch {
		case isReservedProp(k):
		case slices.Contains(i.def.Props, k):
			props[k] = v
		case i.isEmitListener(k):
		default:
			if attrs == nil {
				attrs = make(vdom.Props)
			}
			attrs[k] = v
		}
	}
	return props, attrs
}

// SetupContext is passed to Component.Setup.
type SetupContext struct {
	inst *Instance
}

// Instance returns the instance being set up.
func (c *SetupContext) Instance() *Instance { return c.inst }

// Attrs returns the undeclared props of the instance.
func (c *SetupContext) Attrs() vdom.Props { return c.inst.attrs }

// Slots returns the slots passed by the parent.
func (c *SetupContext) Slots() vdom.Slots { return c.inst.slots }

// Emit calls the parent's listener for event.
func (c *SetupContext) Emit(event string, args ...any) bool {
	return c.inst.Emit(event, args...)
}

// Expose sets the value a parent's ref receives instead of the instance.
func (c *SetupContext) Expose(exposed map[string]any) {
	c.inst.exposed = exposed
}

// OnBeforeMount registers fn to run before the first render is patched.
func (c *SetupContext) OnBeforeMount(fn func()) { c.addHook(hookBeforeMount, fn) }

// OnMounted registers fn to run after the component's nodes are inserted.
func (c *SetupContext) OnMounted(fn func()) { c.addHook(hookMounted, fn) }

// OnBeforeUpdate registers fn to run before a re-render is patched.
func (c *SetupContext) OnBeforeUpdate(fn func()) { c.addHook(hookBeforeUpdate, fn) }

// OnUpdated registers fn to run after a re-render is patched.
func (c *SetupContext) OnUpdated(fn func()) { c.addHook(hookUpdated, fn) }

// OnBeforeUnmount registers fn to run before teardown starts.
func (c *SetupContext) OnBeforeUnmount(fn func()) { c.addHook(hookBeforeUnmount, fn) }

// OnUnmounted registers fn to run after the component is torn down.
func (c *SetupContext) OnUnmounted(fn func()) { c.addHook(hookUnmounted, fn) }

// OnActivated registers fn to run when a kept-alive component is
// re-inserted.
func (c *SetupContext) OnActivated(fn func()) { c.addHook(hookActivated, fn) }

// OnDeactivated registers fn to run when a kept-alive component is moved
// out of the tree.
func (c *SetupContext) OnDeactivated(fn func()) { c.addHook(hookDeactivated, fn) }

func (c *SetupContext) addHook(k hookKind, fn func()) {
	if fn != nil {
		c.inst.hooks[k] = append(c.inst.hooks[k], fn)
	}
}

// Provide makes value available to Inject in descendants.
func (c *SetupContext) Provide(key, value any) {
	if c.inst.provides == nil {
		c.inst.provides = make(map[any]any)
	}
	c.inst.provides[key] = value
}

// Inject returns the value provided for key by the nearest ancestor, or
// by the renderer, or fallback.
func (c *SetupContext) Inject(key, fallback any) any {
	for p := c.inst.parent; p != nil; p = p.parent {
		if v, ok := p.provides[key]; ok {
			return v
		}
	}
	if v, ok := c.inst.r.provides[key]; ok {
		return v
	}
	return fallback
}

// Watch is reactive.Watch bound to the instance: callbacks run on the
// renderer's queue, and the watcher stops when the instance unmounts.
func (c *SetupContext) Watch(source any, cb reactive.WatchCallback, opts ...reactive.WatchOption) reactive.StopHandle {
	sched, job := c.queued("watch")
	stop := reactive.Watch(source, cb, append([]reactive.WatchOption{sched}, opts...)...)
	return c.bind(stop, job)
}

// WatchEffect is reactive.WatchEffect bound to the instance.
func (c *SetupContext) WatchEffect(fn func(onCleanup reactive.OnCleanup), opts ...reactive.WatchOption) reactive.StopHandle {
	sched, job := c.queued("watchEffect")
	stop := reactive.WatchEffect(fn, append([]reactive.WatchOption{sched}, opts...)...)
	return c.bind(stop, job)
}

func (c *SetupContext) queued(kind string) (reactive.WatchOption, **scheduler.Job) {
	var job *scheduler.Job
	name := c.inst.Name() + "." + kind
	q := c.inst.r.queue
	return reactive.WithWatchScheduler(func(run func()) {
		if job == nil {
			job = scheduler.NewJob(name, run)
		}
		q.Enqueue(job)
	}), &job
}

func (c *SetupContext) bind(stop reactive.StopHandle, job **scheduler.Job) reactive.StopHandle {
	done := false
	stopAll := func() {
		if done {
			return
		}
		done = true
		stop()
		if *job != nil {
			(*job).Stop()
		}
	}
	c.inst.scope = append(c.inst.scope, stopAll)
	return stopAll
}
