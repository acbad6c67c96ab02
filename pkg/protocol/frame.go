package protocol

import (
	"errors"
	"io"
)

const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the largest payload a frame can carry.
	MaxPayloadSize = 65535
)

// FrameType identifies the payload of a frame.
type FrameType uint8

const (
	FrameOps   FrameType = 0x01 // server to client: a batch of host ops
	FrameEvent FrameType = 0x02 // client to server: one event
	FrameError FrameType = 0x03 // either direction: an error message
)

// String returns the name of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameOps:
		return "Ops"
	case FrameEvent:
		return "Event"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional per-frame flags.
type FrameFlags uint8

const (
	// FlagInitial marks the ops frame that carries the first render.
	FlagInitial FrameFlags = 0x01
)

// Has reports whether f contains flag.
func (f FrameFlags) Has(flag FrameFlags) bool {
	return f&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a typed payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame with no flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode returns the header followed by the payload. Payloads larger
// than MaxPayloadSize are rejected.
func (f *Frame) Encode() ([]byte, error) {
	if len(f.Payload) > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	e := NewEncoder()
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint16(uint16(len(f.Payload)))
	e.buf = append(e.buf, f.Payload...)
	return e.Bytes(), nil
}

// DecodeFrame decodes one frame occupying all of data.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	f, err := decodeFrameHeader(d)
	if err != nil {
		return nil, err
	}
	n := len(f.Payload)
	if d.Remaining() < n {
		return nil, ErrBufferTooShort
	}
	if d.Remaining() > n {
		return nil, ErrTrailingPayload
	}
	copy(f.Payload, data[FrameHeaderSize:])
	return f, nil
}

func decodeFrameHeader(d *Decoder) (*Frame, error) {
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	flags, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	n, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	ft := FrameType(t)
	if ft < FrameOps || ft > FrameError {
		return nil, ErrInvalidFrameType
	}
	return &Frame{Type: ft, Flags: FrameFlags(flags), Payload: make([]byte, n)}, nil
}

// ReadFrame reads one frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	f, err := decodeFrameHeader(NewDecoder(header))
	if err != nil {
		return nil, err
	}
	if len(f.Payload) > 0 {
		if _, err := io.ReadFull(r, f.Payload); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteFrame writes f to w.
func WriteFrame(w io.Writer, f *Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
