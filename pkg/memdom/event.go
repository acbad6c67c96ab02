package memdom

import (
	"fmt"
	"runtime/debug"
)

// Event is passed to handlers registered through onXxx props.
type Event struct {
	Type   string
	Target *Node
	// Value carries input values and other event payloads.
	Value any

	stopped bool
}

// StopPropagation prevents the event from reaching ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Dispatch fires an event at target and bubbles it up through its
// ancestors. Handlers may be func(), func(*Event) or func(any) (receiving
// Value). It returns the number of handlers invoked. A panicking handler
// is logged and stops the dispatch.
func (d *Document) Dispatch(target *Node, eventType string, value any) (invoked int) {
	ev := &Event{Type: eventType, Target: target, Value: value}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panic",
				"event", eventType,
				"node", target.ID,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	for n := target; n != nil && !ev.stopped; n = n.parent {
		inv, ok := n.listeners[eventType]
		if !ok || inv.value == nil {
			continue
		}
		if err := call(inv.value, ev); err != nil {
			d.logger.Warn("event handler skipped", "event", eventType, "node", n.ID, "error", err)
			continue
		}
		invoked++
	}
	return invoked
}

// DispatchByID dispatches to the node with the given id. Unknown ids are
// ignored.
func (d *Document) DispatchByID(id uint64, eventType string, value any) int {
	n := d.nodes[id]
	if n == nil {
		d.logger.Debug("event for unknown node", "node", id, "event", eventType)
		return 0
	}
	return d.Dispatch(n, eventType, value)
}

func call(handler any, ev *Event) error {
	switch h := handler.(type) {
	case func():
		h()
	case func(*Event):
		h(ev)
	case func(any):
		h(ev.Value)
	case []any:
		for _, x := range h {
			if err := call(x, ev); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported handler type %T", handler)
	}
	return nil
}
