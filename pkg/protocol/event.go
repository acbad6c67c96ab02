package protocol

// Event is a client event addressed to a host node.
type Event struct {
	Node  uint64
	Type  string
	Value string
}

// EncodeEvent encodes ev as node, type, value.
func EncodeEvent(ev Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Node)
	e.WriteString(ev.Type)
	e.WriteString(ev.Value)
	return e.Bytes()
}

// DecodeEvent decodes a payload produced by EncodeEvent.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	var err error
	d := NewDecoder(data)
	if ev.Node, err = d.ReadUvarint(); err != nil {
		return Event{}, err
	}
	if ev.Type, err = d.ReadString(); err != nil {
		return Event{}, err
	}
	if ev.Value, err = d.ReadString(); err != nil {
		return Event{}, err
	}
	if !d.EOF() {
		return Event{}, ErrTrailingPayload
	}
	return ev, nil
}

// EncodeError encodes an error message payload.
func EncodeError(msg string) []byte {
	e := NewEncoder()
	e.WriteString(msg)
	return e.Bytes()
}

// DecodeError decodes an error message payload.
func DecodeError(data []byte) (string, error) {
	return NewDecoder(data).ReadString()
}
