package vdom

import "strings"

// ShapeFlag classifies a node and its children.
type ShapeFlag uint16

const (
	ShapeElement ShapeFlag = 1 << iota
	ShapeFunctionalComponent
	ShapeStatefulComponent
	ShapeTextChildren
	ShapeArrayChildren
	ShapeSlotsChildren
	ShapeTeleport
	ShapeSuspense
	ShapeComponentShouldKeepAlive
	ShapeComponentKeptAlive

	ShapeComponent = ShapeStatefulComponent | ShapeFunctionalComponent
)

var shapeNames = []struct {
	flag ShapeFlag
	name string
}{
	{ShapeElement, "ELEMENT"},
	{ShapeFunctionalComponent, "FUNCTIONAL_COMPONENT"},
	{ShapeStatefulComponent, "STATEFUL_COMPONENT"},
	{ShapeTextChildren, "TEXT_CHILDREN"},
	{ShapeArrayChildren, "ARRAY_CHILDREN"},
	{ShapeSlotsChildren, "SLOTS_CHILDREN"},
	{ShapeTeleport, "TELEPORT"},
	{ShapeSuspense, "SUSPENSE"},
	{ShapeComponentShouldKeepAlive, "COMPONENT_SHOULD_KEEP_ALIVE"},
	{ShapeComponentKeptAlive, "COMPONENT_KEPT_ALIVE"},
}

// Has reports whether all bits of mask are set.
func (f ShapeFlag) Has(mask ShapeFlag) bool {
	return f&mask == mask
}

// Any reports whether any bit of mask is set.
func (f ShapeFlag) Any(mask ShapeFlag) bool {
	return f&mask != 0
}

// String returns the set flags joined with "|".
func (f ShapeFlag) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, n := range shapeNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// PatchFlag marks which aspects of an element may change between renders.
// Positive flags are bit sets; the negative values are special markers.
type PatchFlag int32

const (
	PatchText PatchFlag = 1 << iota
	PatchClass
	PatchStyle
	PatchProps
	PatchFullProps
	PatchNeedHydration
	PatchStableFragment
	PatchKeyedFragment
	PatchUnkeyedFragment
	PatchNeedPatch
	PatchDynamicSlots

	// PatchHoisted marks static content that never needs patching.
	PatchHoisted PatchFlag = -1
	// PatchBail disables optimized patching for the subtree.
	PatchBail PatchFlag = -2
)

var patchNames = []struct {
	flag PatchFlag
	name string
}{
	{PatchText, "TEXT"},
	{PatchClass, "CLASS"},
	{PatchStyle, "STYLE"},
	{PatchProps, "PROPS"},
	{PatchFullProps, "FULL_PROPS"},
	{PatchNeedHydration, "NEED_HYDRATION"},
	{PatchStableFragment, "STABLE_FRAGMENT"},
	{PatchKeyedFragment, "KEYED_FRAGMENT"},
	{PatchUnkeyedFragment, "UNKEYED_FRAGMENT"},
	{PatchNeedPatch, "NEED_PATCH"},
	{PatchDynamicSlots, "DYNAMIC_SLOTS"},
}

// Has reports whether all bits of mask are set. Special markers never
// contain bit flags.
func (f PatchFlag) Has(mask PatchFlag) bool {
	return f > 0 && f&mask == mask
}

// String returns the set flags joined with "|".
func (f PatchFlag) String() string {
	switch {
	case f == PatchHoisted:
		return "HOISTED"
	case f == PatchBail:
		return "BAIL"
	case f == 0:
		return "0"
	}
	var parts []string
	for _, n := range patchNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
