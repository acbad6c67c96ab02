package renderer

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func newTestRenderer(t *testing.T) (*Renderer, *memdom.Document, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	doc := memdom.NewDocument(memdom.WithLogger(logger))
	return New(doc, WithLogger(logger)), doc, &buf
}

func item(key string) *vdom.VNode {
	return vdom.H("li", vdom.Props{"key": key}, key)
}

func list(keys ...string) *vdom.VNode {
	children := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		children[i] = item(k)
	}
	return vdom.H("ul", nil, children)
}

func TestMountElement(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	r.Render(vdom.H("div", vdom.Props{"id": "app", "class": "box"},
		vdom.H("span", nil, "hello"),
		"world",
	), doc.Body)

	want := `<div class="box" id="app"><span>hello</span>world</div>`
	if got := doc.Body.InnerHTML(); got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}

func TestReservedPropsNotApplied(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	ref := reactive.NewRef[any](nil)
	r.Render(vdom.H("div", vdom.Props{"key": "k", "ref": ref}), doc.Body)

	div := doc.Body.FirstChild()
	if _, ok := div.Attr("key"); ok {
		t.Error("key applied as attribute")
	}
	if _, ok := div.Attr("ref"); ok {
		t.Error("ref applied as attribute")
	}
	if ref.Get() != any(div) {
		t.Errorf("ref = %v, want the div", ref.Get())
	}
}

func TestKeyedDiff(t *testing.T) {
	tests := []struct {
		name                   string
		from, to               []string
		moves, inserts, removes int
	}{
		{"rotate right", []string{"A", "B", "C", "D"}, []string{"D", "A", "B", "C"}, 1, 0, 0},
		{"rotate left", []string{"A", "B", "C", "D"}, []string{"B", "C", "D", "A"}, 1, 0, 0},
		{"insert middle", []string{"A", "B", "C"}, []string{"A", "D", "B", "C"}, 0, 1, 0},
		{"remove middle", []string{"A", "B", "C"}, []string{"A", "C"}, 0, 0, 1},
		{"append", []string{"A", "B"}, []string{"A", "B", "C", "D"}, 0, 2, 0},
		{"prepend", []string{"C", "D"}, []string{"A", "B", "C", "D"}, 0, 2, 0},
		{"swap ends", []string{"A", "B", "C", "D", "E"}, []string{"E", "B", "C", "D", "A"}, 2, 0, 0},
		{"reverse", []string{"A", "B", "C", "D"}, []string{"D", "C", "B", "A"}, 3, 0, 0},
		{"replace all", []string{"A", "B"}, []string{"C", "D"}, 0, 2, 2},
		{"mixed", []string{"A", "B", "C", "D", "E", "F"}, []string{"A", "C", "X", "B", "E", "F"}, 1, 1, 1},
		{"unchanged", []string{"A", "B", "C"}, []string{"A", "B", "C"}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, doc, _ := newTestRenderer(t)
			r.Render(list(tt.from...), doc.Body)
			ul := doc.Body.FirstChild()
			doc.ResetOps()

			r.Render(list(tt.to...), doc.Body)
			ops := doc.TakeOps()

			if got := memdom.Count(ops, memdom.OpMove); got != tt.moves {
				t.Errorf("moves = %d, want %d (ops %v)", got, tt.moves, ops)
			}
			if got := memdom.Count(ops, memdom.OpInsert); got != tt.inserts {
				t.Errorf("inserts = %d, want %d (ops %v)", got, tt.inserts, ops)
			}
			if got := memdom.Count(ops, memdom.OpRemove); got != tt.removes {
				t.Errorf("removes = %d, want %d (ops %v)", got, tt.removes, ops)
			}
			if got, want := ul.TextContent(), strings.Join(tt.to, ""); got != want {
				t.Errorf("order = %q, want %q", got, want)
			}
		})
	}
}

func TestKeyedDiffPreservesNodes(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	r.Render(list("A", "B", "C"), doc.Body)
	ul := doc.Body.FirstChild()
	before := map[string]*memdom.Node{}
	for _, li := range ul.Children() {
		before[li.TextContent()] = li
	}

	r.Render(list("C", "A", "B"), doc.Body)
	for _, li := range ul.Children() {
		if before[li.TextContent()] != li {
			t.Errorf("node for %s was recreated", li.TextContent())
		}
	}
}

func TestUnkeyedChildren(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	render := func(items ...string) *vdom.VNode {
		children := make([]*vdom.VNode, len(items))
		for i, s := range items {
			children[i] = vdom.H("p", nil, s)
		}
		return vdom.H("div", nil, children)
	}

	r.Render(render("a", "b", "c"), doc.Body)
	doc.ResetOps()
	r.Render(render("a", "x"), doc.Body)

	ops := doc.TakeOps()
	if got := doc.Body.InnerHTML(); got != "<div><p>a</p><p>x</p></div>" {
		t.Errorf("InnerHTML() = %q", got)
	}
	if memdom.Count(ops, memdom.OpSetElementText) != 1 || memdom.Count(ops, memdom.OpRemove) != 1 {
		t.Errorf("ops = %v, want one text update and one remove", ops)
	}
}

func TestChildrenShapeTransitions(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	steps := []struct {
		node *vdom.VNode
		want string
	}{
		{vdom.H("div", nil, "text"), "<div>text</div>"},
		{vdom.H("div", nil, []*vdom.VNode{vdom.H("b", nil, "1"), vdom.H("i", nil, "2")}), "<div><b>1</b><i>2</i></div>"},
		{vdom.H("div"), "<div></div>"},
		{vdom.H("div", nil, []*vdom.VNode{vdom.H("b", nil, "3")}), "<div><b>3</b></div>"},
		{vdom.H("div", nil, "again"), "<div>again</div>"},
		{vdom.H("div"), "<div></div>"},
	}
	for i, step := range steps {
		r.Render(step.node, doc.Body)
		if got := doc.Body.InnerHTML(); got != step.want {
			t.Errorf("step %d: InnerHTML() = %q, want %q", i, got, step.want)
		}
	}
}

func TestReplaceKeepsPosition(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	r.Render(vdom.H("div", nil, vdom.H("p", nil, "1"), vdom.H("em", nil, "2"), vdom.H("p", nil, "3")), doc.Body)
	r.Render(vdom.H("div", nil, vdom.H("p", nil, "1"), vdom.H("strong", nil, "2"), vdom.H("p", nil, "3")), doc.Body)

	want := "<div><p>1</p><strong>2</strong><p>3</p></div>"
	if got := doc.Body.InnerHTML(); got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}

func TestPatchProps(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	r.Render(vdom.H("input", vdom.Props{"id": "a", "title": "t", "style": map[string]string{"color": "red"}}), doc.Body)
	doc.ResetOps()

	r.Render(vdom.H("input", vdom.Props{"id": "a", "value": "v", "style": map[string]string{"color": "red"}}), doc.Body)
	ops := doc.TakeOps()

	in := doc.Body.FirstChild()
	if _, ok := in.Attr("title"); ok {
		t.Error("title not removed")
	}
	if in.Prop("value") != "v" {
		t.Errorf("value = %v, want v", in.Prop("value"))
	}
	if memdom.Count(ops, memdom.OpSetStyle) != 0 {
		t.Errorf("unchanged style re-applied: %v", ops)
	}
	if memdom.Count(ops, memdom.OpSetAttr) != 0 {
		t.Errorf("unchanged attr re-applied: %v", ops)
	}
}

func TestEventHandlerSwap(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	var got []string
	render := func(label string) *vdom.VNode {
		return vdom.H("button", vdom.Props{"onClick": func() { got = append(got, label) }})
	}

	r.Render(render("first"), doc.Body)
	doc.ResetOps()
	r.Render(render("second"), doc.Body)
	if ops := doc.TakeOps(); memdom.Count(ops, memdom.OpAddListener) != 0 {
		t.Errorf("listener re-registered: %v", ops)
	}

	doc.Dispatch(doc.Body.FirstChild(), "click", nil)
	if len(got) != 1 || got[0] != "second" {
		t.Errorf("handlers called = %v, want [second]", got)
	}
}

func TestFragment(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	frag := func(keys ...string) *vdom.VNode {
		children := make([]*vdom.VNode, len(keys))
		for i, k := range keys {
			children[i] = item(k)
		}
		return vdom.H("ul", nil, vdom.H("li", nil, "head"), vdom.Fragment(children), vdom.H("li", nil, "tail"))
	}

	r.Render(frag("A", "B"), doc.Body)
	r.Render(frag("B", "A", "C"), doc.Body)
	if got := doc.Body.FirstChild().TextContent(); got != "headBACtail" {
		t.Errorf("TextContent() = %q, want headBACtail", got)
	}

	r.Render(vdom.H("ul", nil, vdom.H("li", nil, "head"), vdom.H("li", nil, "tail")), doc.Body)
	if got := doc.Body.FirstChild().InnerHTML(); got != "<li>head</li><li>tail</li>" {
		t.Errorf("InnerHTML() = %q", got)
	}
}

func TestMoveFragment(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	group := func(key string) *vdom.VNode {
		f := vdom.Fragment(vdom.H("i", nil, key+"1"), vdom.H("i", nil, key+"2"))
		f.Key = key
		return f
	}
	r.Render(vdom.H("div", nil, group("a"), group("b")), doc.Body)
	r.Render(vdom.H("div", nil, group("b"), group("a")), doc.Body)

	if got := doc.Body.FirstChild().TextContent(); got != "b1b2a1a2" {
		t.Errorf("TextContent() = %q, want b1b2a1a2", got)
	}
}

func TestRenderNilUnmounts(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	r.Render(list("A", "B"), doc.Body)
	r.Render(nil, doc.Body)

	if len(doc.Body.Children()) != 0 {
		t.Errorf("children = %d, want 0", len(doc.Body.Children()))
	}
	if r.Root(doc.Body) != nil {
		t.Error("root not cleared")
	}
}

func TestReusedVNodeIsCloned(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	shared := vdom.H("b", nil, "x")
	r.Render(vdom.H("div", nil, shared, shared), doc.Body)

	if got := doc.Body.InnerHTML(); got != "<div><b>x</b><b>x</b></div>" {
		t.Errorf("InnerHTML() = %q", got)
	}
}

func TestBlockPatchesDynamicChildrenOnly(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	render := func(n string) *vdom.VNode {
		return vdom.CreateElementBlock("div", nil, []*vdom.VNode{
			vdom.H("h1", nil, "static"),
			vdom.CreateVNode("p", nil, n, vdom.WithPatchFlag(vdom.PatchText)),
			vdom.CreateVNode("a", vdom.Props{"href": "/" + n}, nil, vdom.WithPatchFlag(vdom.PatchProps, "href")),
		})
	}

	r.Render(render("1"), doc.Body)
	doc.ResetOps()
	r.Render(render("2"), doc.Body)
	ops := doc.TakeOps()

	want := `<div><h1>static</h1><p>2</p><a href="/2"></a></div>`
	if got := doc.Body.InnerHTML(); got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
	if len(ops) != 2 {
		t.Errorf("ops = %v, want a text update and an attr update", ops)
	}

	// Static nodes inherit their host node and survive a third render.
	r.Render(render("3"), doc.Body)
	if got := doc.Body.FirstChild().FirstChild().TextContent(); got != "static" {
		t.Errorf("static child = %q", got)
	}
}

func TestTransitionHooks(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	var events []string
	var done func()
	hooks := &vdom.TransitionHooks{
		BeforeEnter: func(any) { events = append(events, "before-enter") },
		Enter:       func(any) { events = append(events, "enter") },
		Leave: func(_ any, d func()) {
			events = append(events, "leave")
			done = d
		},
		AfterLeave: func(any) { events = append(events, "after-leave") },
	}
	r.Render(vdom.H("div", nil, vdom.CreateVNode("p", nil, "x", vdom.WithTransition(hooks))), doc.Body)
	r.Render(vdom.H("div"), doc.Body)

	if got := doc.Body.FirstChild().InnerHTML(); got != "<p>x</p>" {
		t.Errorf("element removed before done: %q", got)
	}
	done()
	if got := doc.Body.FirstChild().InnerHTML(); got != "" {
		t.Errorf("element not removed after done: %q", got)
	}
	want := "before-enter,enter,leave,after-leave"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}

func TestTransitionComponent(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	entered := 0
	r.Render(vdom.H(Transition, vdom.Props{"onEnter": func(any) { entered++ }}, vdom.H("p", nil, "hi")), doc.Body)

	if entered != 1 {
		t.Errorf("enter calls = %d, want 1", entered)
	}
	if got := doc.Body.InnerHTML(); got != "<p>hi</p>" {
		t.Errorf("InnerHTML() = %q", got)
	}
}
