package renderer

// Host performs the physical mutations of the realized tree. Node handles
// are opaque to the renderer. ParentNode and NextSibling must return an
// untyped nil when there is no such node.
type Host interface {
	Insert(child, parent, anchor any)
	Remove(child any)
	CreateElement(tag string) any
	CreateText(text string) any
	SetElementText(el any, text string)
	SetText(node any, text string)
	ParentNode(node any) any
	NextSibling(node any) any
	PatchProp(el any, key string, prev, next any)
}

// TargetResolver is implemented by hosts that can look up a container by
// selector. Teleport uses it to resolve a string "to" prop.
type TargetResolver interface {
	QuerySelector(selector string) any
}
