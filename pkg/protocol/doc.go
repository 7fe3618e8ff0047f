// Package protocol implements the binary wire format for commit pass
// journals.
//
// A pass is streamed as frames: a journal frame carrying every document
// mutation the pass made, one error frame per structural error, and a
// snapshot frame carrying the rendered container. The snapshot is flagged
// FlagFinal. Frames replayed to a late subscriber carry FlagReplay.
//
// # Wire Format
//
// All frames share a 6-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Encoding
//
//   - Varint: compact encoding for node ids and counts (protobuf-style)
//   - Length-prefixed: strings prefixed with their varint length
//   - Big-endian: the fixed-width payload length
//
// A SetAttr mutation on node 7 encodes as:
//
//	[Op: 0x05][Target: 0x07][Parent: 0x00][Before: 0x00]
//	[Key: 0x05 "class"][Value: 0x04 "card"]
//
// Decoders reject counts and lengths the remaining buffer cannot hold, so
// a hostile length prefix never drives an allocation.
package protocol
