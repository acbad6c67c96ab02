package memdom

import "fmt"

// OpKind identifies a journaled mutation.
type OpKind uint8

const (
	OpCreateElement OpKind = iota + 1
	OpCreateText
	OpInsert
	OpMove
	OpRemove
	OpSetText
	OpSetElementText
	OpSetAttr
	OpRemoveAttr
	OpSetProp
	OpSetStyle
	OpRemoveStyle
	OpAddListener
	OpRemoveListener
)

var opNames = map[OpKind]string{
	OpCreateElement:  "CreateElement",
	OpCreateText:     "CreateText",
	OpInsert:         "Insert",
	OpMove:           "Move",
	OpRemove:         "Remove",
	OpSetText:        "SetText",
	OpSetElementText: "SetElementText",
	OpSetAttr:        "SetAttr",
	OpRemoveAttr:     "RemoveAttr",
	OpSetProp:        "SetProp",
	OpSetStyle:       "SetStyle",
	OpRemoveStyle:    "RemoveStyle",
	OpAddListener:    "AddListener",
	OpRemoveListener: "RemoveListener",
}

// String returns the name of the op kind.
func (k OpKind) String() string {
	if s, ok := opNames[k]; ok {
		return s
	}
	return fmt.Sprintf("OpKind(%d)", k)
}

// Op is one host mutation. Node, Parent and Anchor are node IDs; zero means
// none. Name and Value carry tag names, text, attribute names and values
// depending on Kind.
type Op struct {
	Kind   OpKind
	Node   uint64
	Parent uint64
	Anchor uint64
	Name   string
	Value  string
}

// String formats the op for logs and the demo command.
func (o Op) String() string {
	switch o.Kind {
	case OpCreateElement:
		return fmt.Sprintf("%s #%d <%s>", o.Kind, o.Node, o.Name)
	case OpCreateText, OpSetText, OpSetElementText:
		return fmt.Sprintf("%s #%d %q", o.Kind, o.Node, o.Value)
	case OpInsert, OpMove:
		if o.Anchor == 0 {
			return fmt.Sprintf("%s #%d into #%d", o.Kind, o.Node, o.Parent)
		}
		return fmt.Sprintf("%s #%d into #%d before #%d", o.Kind, o.Node, o.Parent, o.Anchor)
	case OpRemove:
		return fmt.Sprintf("%s #%d", o.Kind, o.Node)
	case OpRemoveAttr, OpRemoveStyle, OpAddListener, OpRemoveListener:
		return fmt.Sprintf("%s #%d %s", o.Kind, o.Node, o.Name)
	default:
		return fmt.Sprintf("%s #%d %s=%q", o.Kind, o.Node, o.Name, o.Value)
	}
}

// Count returns how many ops of kind k are in ops.
func Count(ops []Op, k OpKind) int {
	n := 0
	for _, op := range ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}
