package vdom

import "testing"

func TestHArity(t *testing.T) {
	child := H("span")

	tests := []struct {
		name      string
		node      *VNode
		wantProps int
		wantKids  int
		wantText  string
		wantShape ShapeFlag
	}{
		{"tag only", H("div"), 0, 0, "", ShapeElement},
		{"props only", H("div", Props{"id": "x"}), 1, 0, "", ShapeElement},
		{"raw map props", H("div", map[string]any{"id": "x"}), 1, 0, "", ShapeElement},
		{"text only", H("div", "hello"), 0, 0, "hello", ShapeElement | ShapeTextChildren},
		{"vnode only", H("div", child), 0, 1, "", ShapeElement | ShapeArrayChildren},
		{"slice only", H("div", []*VNode{child, child}), 0, 2, "", ShapeElement | ShapeArrayChildren},
		{"props and text", H("div", Props{"id": "x"}, "t"), 1, 0, "t", ShapeElement | ShapeTextChildren},
		{"props and vnode", H("div", nil, child), 0, 1, "", ShapeElement | ShapeArrayChildren},
		{"variadic children", H("div", Props{}, child, "text", nil, child), 0, 3, "", ShapeElement | ShapeArrayChildren},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.node
			if len(n.Props) != tt.wantProps {
				t.Errorf("len(Props) = %d, want %d", len(n.Props), tt.wantProps)
			}
			if len(n.Children) != tt.wantKids {
				t.Errorf("len(Children) = %d, want %d", len(n.Children), tt.wantKids)
			}
			if n.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", n.Text, tt.wantText)
			}
			if n.ShapeFlag != tt.wantShape {
				t.Errorf("ShapeFlag = %v, want %v", n.ShapeFlag, tt.wantShape)
			}
		})
	}
}

func TestHReservedProps(t *testing.T) {
	ref := func(any) {}
	props := Props{"key": "a", "ref": ref, "class": "x"}
	n := H("li", props)

	if n.Key != "a" {
		t.Errorf("Key = %v, want a", n.Key)
	}
	if n.Ref == nil {
		t.Error("Ref not lifted")
	}
	if _, ok := n.Props["key"]; ok {
		t.Error("key left in props")
	}
	if _, ok := n.Props["ref"]; ok {
		t.Error("ref left in props")
	}
	if n.Props["class"] != "x" {
		t.Error("class dropped")
	}
	if _, ok := props["key"]; !ok {
		t.Error("caller's props were modified")
	}
}

func TestHNonComparableKey(t *testing.T) {
	n := H("li", Props{"key": []int{1, 2}})
	if n.Key != "[1 2]" {
		t.Errorf("Key = %v, want [1 2]", n.Key)
	}
}

func TestHComponentChildrenBecomeSlots(t *testing.T) {
	def := &testDef{"Card"}

	n := H(def, Props{"title": "t"}, H("p"))
	if !n.ShapeFlag.Has(ShapeStatefulComponent | ShapeSlotsChildren) {
		t.Fatalf("ShapeFlag = %v", n.ShapeFlag)
	}
	if got := n.Slots["default"](nil); len(got) != 1 || got[0].Tag != "p" {
		t.Errorf("default slot = %v", got)
	}

	named := H(def, nil, Slots{"header": func(Props) []*VNode { return []*VNode{Text("h")} }})
	if named.Slots["header"] == nil {
		t.Error("named slot missing")
	}

	bare := H(def)
	if bare.Slots != nil || bare.ShapeFlag.Has(ShapeSlotsChildren) {
		t.Error("component without children should have no slots")
	}
}

func TestHBuiltinTypes(t *testing.T) {
	if n := H(TypeText, "hi"); n.Kind != KindText || n.Text != "hi" {
		t.Errorf("text node = %+v", n)
	}
	if n := H(TypeFragment, []*VNode{Text("a"), Text("b")}); n.Kind != KindFragment || len(n.Children) != 2 {
		t.Errorf("fragment = %+v", n)
	}
	tp := H(TypeTeleport, Props{"to": "#modal"}, H("div"))
	if tp.Kind != KindTeleport || !tp.ShapeFlag.Has(ShapeTeleport|ShapeArrayChildren) {
		t.Errorf("teleport = %+v", tp)
	}
	fn := H(func(Props, Slots) *VNode { return nil })
	if fn.Kind != KindFunctional {
		t.Errorf("functional kind = %v", fn.Kind)
	}
}

func TestHInvalidTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid type")
		}
	}()
	H(42)
}

func TestNormalize(t *testing.T) {
	if n := Normalize(nil); n.Kind != KindComment {
		t.Errorf("Normalize(nil).Kind = %v", n.Kind)
	}
	if n := Normalize("x"); n.Kind != KindText {
		t.Errorf("Normalize(string).Kind = %v", n.Kind)
	}
	if n := Normalize([]*VNode{Text("a")}); n.Kind != KindFragment || len(n.Children) != 1 {
		t.Errorf("Normalize(slice) = %+v", n)
	}
	v := H("div")
	if Normalize(v) != v {
		t.Error("Normalize should return vnodes unchanged")
	}
	if n := Normalize([]any{"a", 1, H("b")}); len(n.Children) != 3 {
		t.Errorf("Normalize([]any) children = %d", len(n.Children))
	}
}

func TestCreateElementBlock(t *testing.T) {
	dyn1 := CreateVNode("span", nil, "x", WithPatchFlag(PatchText))
	dyn2 := CreateVNode("b", Props{"class": "c"}, nil, WithPatchFlag(PatchClass))
	comp := H(&testDef{"C"})
	nested := CreateElementBlock("section", nil, []*VNode{
		CreateVNode("i", nil, "deep", WithPatchFlag(PatchText)),
	})

	block := CreateElementBlock("div", nil, []*VNode{
		H("h1", "static"),
		dyn1,
		H("p", nil, dyn2),
		comp,
		nested,
	})

	want := []*VNode{dyn1, dyn2, comp, nested}
	if len(block.DynamicChildren) != len(want) {
		t.Fatalf("DynamicChildren = %v, want %v", block.DynamicChildren, want)
	}
	for i := range want {
		if block.DynamicChildren[i] != want[i] {
			t.Errorf("DynamicChildren[%d] = %v, want %v", i, block.DynamicChildren[i], want[i])
		}
	}
	if !block.IsBlock() || H("div").IsBlock() {
		t.Error("IsBlock mismatch")
	}

	frag := CreateBlock(TypeFragment, nil, []*VNode{H("a")})
	if frag.PatchFlag != PatchStableFragment || len(frag.DynamicChildren) != 0 {
		t.Errorf("fragment block = %v %v", frag.PatchFlag, frag.DynamicChildren)
	}
}

func TestHelpers(t *testing.T) {
	items := []string{"a", "", "c"}
	nodes := Range(items, func(s string, i int) *VNode {
		return If(s != "", Keyed(s, H("li", s)))
	})
	if len(nodes) != 2 || nodes[1].Key != "c" {
		t.Errorf("Range = %v", nodes)
	}
	if IfElse(false, Text("a"), Text("b")).Text != "b" {
		t.Error("IfElse mismatch")
	}
	if When(false, func() *VNode { t.Fatal("built"); return nil }) != nil {
		t.Error("When(false) should be nil")
	}
	if Textf("%d", 3).Text != "3" {
		t.Error("Textf mismatch")
	}

	slots := Slots{"default": func(p Props) []*VNode { return []*VNode{Text(p["msg"].(string))} }}
	out := RenderSlot(slots, "default", Props{"msg": "hi"})
	if out.Kind != KindFragment || out.Children[0].Text != "hi" {
		t.Errorf("RenderSlot = %+v", out)
	}
	fb := RenderSlot(slots, "missing", nil, Text("fallback"))
	if fb.Children[0].Text != "fallback" {
		t.Errorf("fallback = %+v", fb)
	}
}
