package vdom

import "testing"

type testDef struct{ name string }

func (d *testDef) ComponentName() string { return d.name }

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindComment, "Comment"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindFunctional, "Functional"},
		{KindTeleport, "Teleport"},
		{Kind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSameVNodeType(t *testing.T) {
	defA := &testDef{"A"}
	defB := &testDef{"B"}
	fnA := FunctionalComponent(func(Props, Slots) *VNode { return nil })
	fnB := FunctionalComponent(func(Props, Slots) *VNode { return Text("b") })

	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"same tag", H("div"), H("div"), true},
		{"different tag", H("div"), H("span"), false},
		{"same key", H("li", Props{"key": 1}), H("li", Props{"key": 1}), true},
		{"different key", H("li", Props{"key": 1}), H("li", Props{"key": 2}), false},
		{"key vs no key", H("li", Props{"key": 1}), H("li"), false},
		{"text nodes", Text("a"), Text("b"), true},
		{"text vs element", Text("a"), H("a"), false},
		{"same component", H(defA), H(defA), true},
		{"different component", H(defA), H(defB), false},
		{"same functional", H(fnA), H(fnA), true},
		{"different functional", H(fnA), H(fnB), false},
		{"fragments", Fragment(), Fragment("x"), true},
		{"nil", nil, H("div"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSameVNodeType(tt.a, tt.b); got != tt.want {
				t.Errorf("IsSameVNodeType(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestVNodeString(t *testing.T) {
	tests := []struct {
		node *VNode
		want string
	}{
		{nil, "<nil>"},
		{Text("hi"), `"hi"`},
		{H("li", Props{"key": "a"}), "<li key=a>"},
		{H(&testDef{"Counter"}), "<Counter>"},
		{Fragment(), "<Fragment>"},
	}
	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestShapeFlagString(t *testing.T) {
	f := ShapeElement | ShapeArrayChildren
	if got := f.String(); got != "ELEMENT|ARRAY_CHILDREN" {
		t.Errorf("String() = %q", got)
	}
	if !f.Has(ShapeElement) || f.Has(ShapeElement|ShapeTextChildren) {
		t.Error("Has mismatch")
	}
	if !ShapeStatefulComponent.Any(ShapeComponent) {
		t.Error("stateful component should match ShapeComponent")
	}
}

func TestPatchFlagString(t *testing.T) {
	tests := []struct {
		flag PatchFlag
		want string
	}{
		{0, "0"},
		{PatchText | PatchClass, "TEXT|CLASS"},
		{PatchHoisted, "HOISTED"},
		{PatchBail, "BAIL"},
	}
	for _, tt := range tests {
		if got := tt.flag.String(); got != tt.want {
			t.Errorf("PatchFlag(%d).String() = %q, want %q", tt.flag, got, tt.want)
		}
	}
	if PatchBail.Has(PatchText) {
		t.Error("special markers must not report bit flags")
	}
}
