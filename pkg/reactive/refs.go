package reactive

// PropertyRef is a ref view of one key of a reactive object. Reading and
// writing it reads and writes the key through the proxy, so tracking and
// triggering follow the object.
type PropertyRef struct {
	object *Proxy
	key    string
}

// ToRef returns a ref bound to object[key].
func ToRef(object *Proxy, key string) *PropertyRef {
	return &PropertyRef{object: object, key: key}
}

// ToRefs returns a ref for every current key of object.
func ToRefs(object *Proxy) map[string]*PropertyRef {
	refs := make(map[string]*PropertyRef, len(object.raw))
	for k := range object.raw {
		refs[k] = ToRef(object, k)
	}
	return refs
}

// Key returns the bound key.
func (r *PropertyRef) Key() string { return r.key }

// Get reads the bound key.
func (r *PropertyRef) Get() any { return r.object.Get(r.key) }

// Set writes the bound key.
func (r *PropertyRef) Set(v any) { r.object.Set(r.key, v) }

// GetAny implements AnyRef.
func (r *PropertyRef) GetAny() any { return r.Get() }

// SetAny implements AnyRef.
func (r *PropertyRef) SetAny(v any) { r.Set(v) }

// RefsProxy exposes a map whose values may be refs as if the refs were
// plain values: Get unwraps refs and Set writes through them.
type RefsProxy struct {
	target map[string]any
}

// ProxyRefs wraps target in a RefsProxy. Setup results are exposed to
// render functions this way.
func ProxyRefs(target map[string]any) *RefsProxy {
	if target == nil {
		target = make(map[string]any)
	}
	return &RefsProxy{target: target}
}

// Get returns target[key], unwrapping a ref.
func (p *RefsProxy) Get(key string) any {
	return Unref(p.target[key])
}

// Has reports whether key is present.
func (p *RefsProxy) Has(key string) bool {
	_, ok := p.target[key]
	return ok
}

// Set writes value into the ref stored at key, or stores it directly when
// the current value is not a ref or value is itself a ref.
func (p *RefsProxy) Set(key string, value any) {
	if old, ok := p.target[key].(AnyRef); ok && !IsRef(value) {
		old.SetAny(value)
		return
	}
	p.target[key] = value
}

// Raw returns the wrapped map.
func (p *RefsProxy) Raw() map[string]any {
	return p.target
}
