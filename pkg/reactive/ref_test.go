package reactive

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRefBasic(t *testing.T) {
	r := NewRef(0)
	if r.Get() != 0 {
		t.Errorf("Get() = %d, want 0", r.Get())
	}
	r.Set(5)
	r.Update(func(n int) int { return n * 2 })
	if r.Peek() != 10 {
		t.Errorf("Peek() = %d, want 10", r.Peek())
	}
}

func TestRefSameValueDoesNotTrigger(t *testing.T) {
	r := NewRef("a")
	runs := 0
	e := CreateEffect(func() {
		runs++
		_ = r.Get()
	})
	defer e.Stop()

	r.Set("a")
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	r.Set("b")
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestRefWithEquals(t *testing.T) {
	r := NewRef([]int{1}).WithEquals(func(a, b []int) bool { return len(a) == len(b) })
	runs := 0
	e := CreateEffect(func() {
		runs++
		_ = r.Get()
	})
	defer e.Stop()

	r.Set([]int{2})
	if runs != 1 {
		t.Errorf("custom equality ignored: runs = %d, want 1", runs)
	}
	r.Set([]int{1, 2})
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestRefPeekDoesNotTrack(t *testing.T) {
	r := NewRef(0)
	e := CreateEffect(func() { _ = r.Peek() })
	defer e.Stop()
	if r.Dep() != nil {
		t.Error("Peek created a subscription")
	}
}

func TestRefSharedDep(t *testing.T) {
	r := NewRef(0)
	e1 := CreateEffect(func() { _ = r.Get() })
	e2 := CreateEffect(func() { _ = r.Get() })

	dep := r.Dep()
	if dep == nil || dep.Len() != 2 {
		t.Fatal("both effects should share the ref's dep")
	}

	e1.Stop()
	if r.Dep() != dep || dep.Len() != 1 {
		t.Error("dep dropped while a subscriber remains")
	}
	e2.Stop()
	if r.Dep() != nil {
		t.Error("dep kept after last subscriber left")
	}
}

func TestRefSetAny(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	r := NewRef(1)
	r.SetAny(2)
	if r.Peek() != 2 {
		t.Errorf("Peek() = %d, want 2", r.Peek())
	}
	r.SetAny("nope")
	if r.Peek() != 2 {
		t.Errorf("mismatched SetAny changed value to %d", r.Peek())
	}
	if !strings.Contains(buf.String(), "R109") {
		t.Errorf("expected R109 warning, got %q", buf.String())
	}
	r.SetAny(nil)
	if r.Peek() != 0 {
		t.Errorf("SetAny(nil) = %d, want 0", r.Peek())
	}
}

func TestIsRefUnref(t *testing.T) {
	r := NewRef(3)
	if !IsRef(r) || IsRef(3) {
		t.Error("IsRef mismatch")
	}
	if Unref(r) != 3 || Unref("x") != "x" {
		t.Error("Unref mismatch")
	}
}

func TestToRef(t *testing.T) {
	state := Reactive(map[string]any{"name": "a", "age": 1})
	name := ToRef(state, "name")
	runs := 0

	e := CreateEffect(func() {
		runs++
		_ = name.Get()
	})
	defer e.Stop()

	state.Set("name", "b")
	if runs != 2 || name.Get() != "b" {
		t.Errorf("runs = %d name = %v, want 2 b", runs, name.Get())
	}

	name.Set("c")
	if state.Peek("name") != "c" || runs != 3 {
		t.Errorf("write through ref: name = %v runs = %d", state.Peek("name"), runs)
	}

	refs := ToRefs(state)
	if len(refs) != 2 || refs["age"].Get() != 1 {
		t.Errorf("ToRefs = %v", refs)
	}
}

func TestProxyRefs(t *testing.T) {
	count := NewRef(1)
	p := ProxyRefs(map[string]any{"count": count, "label": "x"})

	if p.Get("count") != 1 || p.Get("label") != "x" {
		t.Errorf("Get unwrap failed: %v %v", p.Get("count"), p.Get("label"))
	}

	p.Set("count", 5)
	if count.Peek() != 5 {
		t.Errorf("write did not go through ref: %d", count.Peek())
	}

	other := NewRef(9)
	p.Set("count", other)
	if p.Get("count") != 9 || count.Peek() != 5 {
		t.Error("setting a ref should replace the stored ref")
	}

	p.Set("label", "y")
	if p.Raw()["label"] != "y" || !p.Has("label") {
		t.Error("plain value not replaced")
	}
}
