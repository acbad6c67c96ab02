package protocol

import (
	"fmt"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/memdom"
)

// ErrUnknownOp is returned (wrapped) when an ops payload contains an
// opcode this package does not know. Match it with errors.Is.
var ErrUnknownOp = errors.New("P101")

// MaxOpsPerFrame bounds the op count read from one payload.
const MaxOpsPerFrame = 100_000

type opFields uint8

const (
	fieldParent opFields = 1 << iota
	fieldAnchor
	fieldName
	fieldValue
)

// opLayout lists the fields each op kind carries after its node id.
var opLayout = map[memdom.OpKind]opFields{
	memdom.OpCreateElement:  fieldName,
	memdom.OpCreateText:     fieldValue,
	memdom.OpInsert:         fieldParent | fieldAnchor,
	memdom.OpMove:           fieldParent | fieldAnchor,
	memdom.OpRemove:         0,
	memdom.OpSetText:        fieldValue,
	memdom.OpSetElementText: fieldValue,
	memdom.OpSetAttr:        fieldName | fieldValue,
	memdom.OpRemoveAttr:     fieldName,
	memdom.OpSetProp:        fieldName | fieldValue,
	memdom.OpSetStyle:       fieldName | fieldValue,
	memdom.OpRemoveStyle:    fieldName,
	memdom.OpAddListener:    fieldName,
	memdom.OpRemoveListener: fieldName,
}

// EncodeOps encodes a batch of ops: a varint count followed by each op.
// Fields an op kind does not use are not written.
func EncodeOps(ops []memdom.Op) ([]byte, error) {
	e := NewEncoder()
	if err := EncodeOpsTo(e, ops); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeOpsTo appends the encoding of ops to e.
func EncodeOpsTo(e *Encoder, ops []memdom.Op) error {
	e.WriteUvarint(uint64(len(ops)))
	for _, op := range ops {
		layout, ok := opLayout[op.Kind]
		if !ok {
			return unknownOp(op.Kind, e.Len())
		}
		e.WriteByte(byte(op.Kind))
		e.WriteUvarint(op.Node)
		if layout&fieldParent != 0 {
			e.WriteUvarint(op.Parent)
		}
		if layout&fieldAnchor != 0 {
			e.WriteUvarint(op.Anchor)
		}
		if layout&fieldName != 0 {
			e.WriteString(op.Name)
		}
		if layout&fieldValue != 0 {
			e.WriteString(op.Value)
		}
	}
	return nil
}

// DecodeOps decodes a payload produced by EncodeOps.
func DecodeOps(data []byte) ([]memdom.Op, error) {
	d := NewDecoder(data)
	ops, err := DecodeOpsFrom(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingPayload
	}
	return ops, nil
}

// DecodeOpsFrom reads one op batch from d.
func DecodeOpsFrom(d *Decoder) ([]memdom.Op, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	// Every op takes at least two bytes.
	if n > MaxOpsPerFrame || n > uint64(d.Remaining()/2) {
		return nil, ErrBufferTooShort
	}

	ops := make([]memdom.Op, 0, n)
	for range n {
		op, err := decodeOp(d)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func decodeOp(d *Decoder) (memdom.Op, error) {
	var op memdom.Op
	pos := d.Position()
	k, err := d.ReadByte()
	if err != nil {
		return op, err
	}
	op.Kind = memdom.OpKind(k)
	layout, ok := opLayout[op.Kind]
	if !ok {
		return op, unknownOp(op.Kind, pos)
	}

	if op.Node, err = d.ReadUvarint(); err != nil {
		return op, err
	}
	if layout&fieldParent != 0 {
		if op.Parent, err = d.ReadUvarint(); err != nil {
			return op, err
		}
	}
	if layout&fieldAnchor != 0 {
		if op.Anchor, err = d.ReadUvarint(); err != nil {
			return op, err
		}
	}
	if layout&fieldName != 0 {
		if op.Name, err = d.ReadString(); err != nil {
			return op, err
		}
	}
	if layout&fieldValue != 0 {
		if op.Value, err = d.ReadString(); err != nil {
			return op, err
		}
	}
	return op, nil
}

func unknownOp(k memdom.OpKind, offset int) error {
	return errors.New("P101").WithDetail(fmt.Sprintf("opcode 0x%02x at offset %d", uint8(k), offset))
}
