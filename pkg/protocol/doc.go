// Package protocol is the binary wire format used to stream host mutations
// to a remote view and to carry events back.
//
// Every message is a frame with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// An ops frame (server to client) carries a batch of memdom.Op values, the
// journal of one flush. An event frame (client to server) names a node and
// an event type.
//
// # Encoding
//
//   - Varint: unsigned integers, 7 bits per byte, protobuf-style
//   - Length-prefixed: strings are a varint length followed by the bytes
//   - Node ids are varints; zero means "no node"
//
// An op is its kind byte followed by the fields that kind uses, in the
// order node, parent, anchor, name, value:
//
//	CreateElement   node name
//	CreateText      node value
//	Insert, Move    node parent anchor
//	Remove          node
//	SetText         node value
//	SetElementText  node value
//	SetAttr         node name value
//	RemoveAttr      node name
//	SetProp         node name value
//	SetStyle        node name value
//	RemoveStyle     node name
//	AddListener     node name
//	RemoveListener  node name
package protocol
