package reactive

import (
	"reflect"
	"runtime"
	"slices"
	"sync"
	"weak"
)

// iterateKey is tracked by operations that depend on the set of keys.
type iterateKeyType struct{}

var iterateKey = iterateKeyType{}

// Proxy is the reactive view of a map. Reads through the proxy track the
// read key for the active effect; writes trigger the effects that read the
// key. Nested map values are wrapped lazily on read.
type Proxy struct {
	raw map[string]any
}

// proxyCache maps a raw map's identity to its proxy so re-wrapping returns
// the same proxy. Entries are weak and removed once the proxy is collected.
var (
	proxyCache   = make(map[uintptr]weak.Pointer[Proxy])
	proxyCacheMu sync.Mutex
)

type proxyCacheEntry struct {
	key uintptr
	wp  weak.Pointer[Proxy]
}

func dropProxyCacheEntry(e proxyCacheEntry) {
	proxyCacheMu.Lock()
	defer proxyCacheMu.Unlock()
	if cur, ok := proxyCache[e.key]; ok && cur == e.wp {
		delete(proxyCache, e.key)
	}
}

// Reactive returns the reactive proxy for target, creating it on first use.
// Wrapping the same map twice returns the same proxy. A nil map returns nil.
func Reactive(target map[string]any) *Proxy {
	if target == nil {
		return nil
	}
	key := reflect.ValueOf(target).Pointer()

	proxyCacheMu.Lock()
	defer proxyCacheMu.Unlock()

	if wp, ok := proxyCache[key]; ok {
		if p := wp.Value(); p != nil {
			return p
		}
	}
	p := &Proxy{raw: target}
	wp := weak.Make(p)
	proxyCache[key] = wp
	runtime.AddCleanup(p, dropProxyCacheEntry, proxyCacheEntry{key: key, wp: wp})
	return p
}

// ToReactive wraps maps in a proxy and returns other values unchanged.
func ToReactive(v any) any {
	if m, ok := v.(map[string]any); ok {
		return Reactive(m)
	}
	return v
}

// IsReactive reports whether v is a reactive proxy.
func IsReactive(v any) bool {
	p, ok := v.(*Proxy)
	return ok && p != nil
}

// ToRaw returns the map behind a proxy, or v itself.
func ToRaw(v any) any {
	if p, ok := v.(*Proxy); ok && p != nil {
		return p.raw
	}
	return v
}

// Get returns the value stored under key and tracks the read.
// Map values are returned as proxies.
func (p *Proxy) Get(key string) any {
	Track(p, key)
	return ToReactive(p.raw[key])
}

// Peek returns the value stored under key without tracking.
func (p *Proxy) Peek(key string) any {
	return ToReactive(p.raw[key])
}

// Has reports whether key is present and tracks the lookup.
func (p *Proxy) Has(key string) bool {
	Track(p, key)
	_, ok := p.raw[key]
	return ok
}

// Set stores value under key. Proxies are unwrapped before storing.
// Effects are triggered only when the stored value changes.
func (p *Proxy) Set(key string, value any) {
	value = ToRaw(value)
	old, had := p.raw[key]
	p.raw[key] = value
	if !had {
		Trigger(p, key, value, nil)
		Trigger(p, iterateKey, value, nil)
		return
	}
	if HasChanged(old, value) {
		Trigger(p, key, value, old)
	}
}

// Delete removes key and triggers its readers and key iterators.
func (p *Proxy) Delete(key string) {
	old, had := p.raw[key]
	if !had {
		return
	}
	delete(p.raw, key)
	Trigger(p, key, nil, old)
	Trigger(p, iterateKey, nil, old)
}

// Keys returns the sorted keys and tracks key additions and removals.
func (p *Proxy) Keys() []string {
	Track(p, iterateKey)
	keys := make([]string, 0, len(p.raw))
	for k := range p.raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of keys and tracks key additions and removals.
func (p *Proxy) Len() int {
	Track(p, iterateKey)
	return len(p.raw)
}

// Raw returns the underlying map. Access through it is not tracked.
func (p *Proxy) Raw() map[string]any {
	return p.raw
}
