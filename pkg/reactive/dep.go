package reactive

// Dep is the set of effects depending on one reactive property.
// Each subscribed effect is mapped to the trackID of the run in which it
// last read the property. Iteration follows subscription order.
type Dep struct {
	subs    map[*Effect]uint64
	order   []*Effect
	cleanup func()
	name    string
}

func newDep(cleanup func(), name string) *Dep {
	return &Dep{
		subs:    make(map[*Effect]uint64),
		cleanup: cleanup,
		name:    name,
	}
}

// Name returns the diagnostic name of the dep (usually the property key).
func (d *Dep) Name() string {
	return d.name
}

// Len returns the number of subscribed effects.
func (d *Dep) Len() int {
	return len(d.order)
}

// Has reports whether e is subscribed.
func (d *Dep) Has(e *Effect) bool {
	_, ok := d.subs[e]
	return ok
}

// Effects returns the subscribed effects in subscription order.
func (d *Dep) Effects() []*Effect {
	out := make([]*Effect, len(d.order))
	copy(out, d.order)
	return out
}

// fresh reports whether e subscribed during its current run.
func (d *Dep) fresh(e *Effect) bool {
	id, ok := d.subs[e]
	return ok && id == e.trackID
}

func (d *Dep) set(e *Effect, trackID uint64) {
	if _, ok := d.subs[e]; !ok {
		d.order = append(d.order, e)
	}
	d.subs[e] = trackID
}

func (d *Dep) remove(e *Effect) {
	if _, ok := d.subs[e]; !ok {
		return
	}
	delete(d.subs, e)
	for i, x := range d.order {
		if x == e {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// cleanupDepEffect drops a stale link between dep and e and releases the
// dep once it has no subscribers left. A link refreshed during e's current
// run is kept.
func cleanupDepEffect(dep *Dep, e *Effect) {
	id, ok := dep.subs[e]
	if !ok || id == e.trackID {
		return
	}
	dep.remove(e)
	if dep.Len() == 0 && dep.cleanup != nil {
		dep.cleanup()
	}
}
