// Package demo is the counter and todo list application served by the dev
// server and used by the demo and export commands.
package demo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Todo is one list entry. Its ID is the list key.
type Todo struct {
	ID   int
	Text string
	Done bool
}

// State is the application model.
type State struct {
	Count     *reactive.Ref[int]
	Todos     *reactive.Ref[[]Todo]
	Draft     *reactive.Ref[string]
	Remaining *reactive.Computed[int]

	nextID int
}

// NewState creates a state holding one todo per text.
func NewState(texts ...string) *State {
	s := &State{
		Count: reactive.NewRef(0),
		Todos: reactive.NewRef[[]Todo](nil),
		Draft: reactive.NewRef(""),
	}
	s.Remaining = reactive.NewComputed(func(int) int {
		n := 0
		for _, t := range s.Todos.Get() {
			if !t.Done {
				n++
			}
		}
		return n
	})
	for _, text := range texts {
		s.Add(text)
	}
	return s
}

// Increment bumps the counter.
func (s *State) Increment() {
	s.Count.Update(func(n int) int { return n + 1 })
}

// Add appends a todo. Blank text gets a generated label.
func (s *State) Add(text string) {
	s.nextID++
	text = strings.TrimSpace(text)
	if text == "" {
		text = fmt.Sprintf("item %d", s.nextID)
	}
	todo := Todo{ID: s.nextID, Text: text}
	s.Todos.Update(func(ts []Todo) []Todo {
		return append(slices.Clone(ts), todo)
	})
}

// Remove deletes the todo with id.
func (s *State) Remove(id int) {
	s.Todos.Update(func(ts []Todo) []Todo {
		return slices.DeleteFunc(slices.Clone(ts), func(t Todo) bool { return t.ID == id })
	})
}

// Toggle flips the done flag of the todo with id.
func (s *State) Toggle(id int) {
	s.Todos.Update(func(ts []Todo) []Todo {
		out := slices.Clone(ts)
		for i := range out {
			if out[i].ID == id {
				out[i].Done = !out[i].Done
			}
		}
		return out
	})
}

// Shuffle moves the last todo to the front.
func (s *State) Shuffle() {
	s.Todos.Update(func(ts []Todo) []Todo {
		if len(ts) < 2 {
			return ts
		}
		out := make([]Todo, 0, len(ts))
		out = append(out, ts[len(ts)-1])
		return append(out, ts[:len(ts)-1]...)
	})
}

// Reverse reverses the list order.
func (s *State) Reverse() {
	s.Todos.Update(func(ts []Todo) []Todo {
		out := slices.Clone(ts)
		slices.Reverse(out)
		return out
	})
}

// Counter renders a button showing its count prop and emits "increment"
// when clicked.
var Counter = &renderer.Component{
	Name:  "Counter",
	Props: []string{"count"},
	Emits: []string{"increment"},
	Render: func(inst *renderer.Instance) *vdom.VNode {
		return vdom.H("button", vdom.Props{
			"id":      "count",
			"onClick": func() { inst.Emit("increment") },
		}, fmt.Sprintf("count is %v", inst.Get("count")))
	},
}

// TodoItem renders one todo. Clicking the text emits "toggle", the
// button emits "remove"; both pass the todo id.
var TodoItem = &renderer.Component{
	Name:  "TodoItem",
	Props: []string{"todo"},
	Emits: []string{"toggle", "remove"},
	Setup: func(props *reactive.Proxy, ctx *renderer.SetupContext) any {
		return func() *vdom.VNode {
			t, _ := props.Get("todo").(Todo)
			return vdom.H("li", vdom.Props{"class": map[string]bool{"done": t.Done}},
				vdom.H("span", vdom.Props{"onClick": func() { ctx.Emit("toggle", t.ID) }}, t.Text),
				vdom.H("button", vdom.Props{"onClick": func() { ctx.Emit("remove", t.ID) }}, "x"),
			)
		}
	},
}

// App returns the root component bound to s.
func App(s *State) *renderer.Component {
	return &renderer.Component{
		Name: "App",
		Setup: func(*reactive.Proxy, *renderer.SetupContext) any {
			return func() *vdom.VNode {
				items := vdom.Range(s.Todos.Get(), func(t Todo, _ int) *vdom.VNode {
					return vdom.H(TodoItem, vdom.Props{
						"key":      t.ID,
						"todo":     t,
						"onToggle": func(id any) { s.Toggle(id.(int)) },
						"onRemove": func(id any) { s.Remove(id.(int)) },
					})
				})

				return vdom.H("div", vdom.Props{"id": "app"},
					vdom.H("h1", nil, "reactor"),
					vdom.H(Counter, vdom.Props{
						"count":       s.Count.Get(),
						"onIncrement": s.Increment,
					}),
					vdom.H("input", vdom.Props{
						"id":      "draft",
						"value":   s.Draft.Get(),
						"onInput": func(v any) { s.Draft.Set(fmt.Sprint(v)) },
					}),
					vdom.H("button", vdom.Props{"id": "add", "onClick": func() {
						s.Add(s.Draft.Peek())
						s.Draft.Set("")
					}}, "add"),
					vdom.H("button", vdom.Props{"id": "shuffle", "onClick": s.Shuffle}, "shuffle"),
					vdom.H("button", vdom.Props{"id": "reverse", "onClick": s.Reverse}, "reverse"),
					vdom.H("p", vdom.Props{"id": "remaining"}, fmt.Sprintf("%d remaining", s.Remaining.Get())),
					vdom.H("ul", vdom.Props{"id": "todos"}, items),
				)
			}
		},
	}
}

// Render mounts a fresh app for s into container.
func Render(r *renderer.Renderer, s *State, container any) {
	r.Render(vdom.H(App(s)), container)
}
