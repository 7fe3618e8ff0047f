package protocol

import (
	"fmt"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/dom"
)

// minMutationSize is the encoded size of a mutation with zero ids and empty
// strings.
const minMutationSize = 6

// JournalFrame is the mutation journal of one commit pass.
//
// Payload format:
//
//	[Seq: varint][Count: varint]
//	Count × [Op: byte][Target: varint][Parent: varint][Before: varint]
//	        [Key: len-prefixed][Value: len-prefixed]
type JournalFrame struct {
	Seq       uint64
	Mutations []dom.Mutation
}

// Snapshot is the rendered container after a pass.
//
// Payload format: [Seq: varint][HTML: len-prefixed]
type Snapshot struct {
	Seq  uint64
	HTML string
}

// PassError is a structural error reported during a pass.
//
// Payload format: [Seq: varint][Code: len-prefixed][Message: len-prefixed]
type PassError struct {
	Seq     uint64
	Code    string
	Message string
}

// EncodeJournal encodes a journal payload.
func EncodeJournal(j *JournalFrame) []byte {
	e := NewEncoder()
	EncodeJournalTo(e, j)
	return e.Bytes()
}

// EncodeJournalTo encodes a journal payload using the provided encoder.
func EncodeJournalTo(e *Encoder, j *JournalFrame) {
	e.WriteUvarint(j.Seq)
	e.WriteUvarint(uint64(len(j.Mutations)))
	for _, m := range j.Mutations {
		e.PutByte(byte(m.Op))
		e.WriteUvarint(m.Target)
		e.WriteUvarint(m.Parent)
		e.WriteUvarint(m.Before)
		e.WriteString(m.Key)
		e.WriteString(m.Value)
	}
}

// DecodeJournal decodes a journal payload. Malformed payloads yield E140,
// unknown ops E141.
func DecodeJournal(payload []byte) (*JournalFrame, error) {
	d := NewDecoder(payload)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	count, err := d.ReadCollectionCount(minMutationSize)
	if err != nil {
		return nil, errors.New("E140").Wrap(err)
	}

	j := &JournalFrame{Seq: seq, Mutations: make([]dom.Mutation, 0, count)}
	for i := 0; i < count; i++ {
		m, err := decodeMutation(d)
		if err != nil {
			return nil, err
		}
		j.Mutations = append(j.Mutations, m)
	}
	if !d.EOF() {
		return nil, errors.New("E140").WithDetail("Trailing bytes after the last mutation.")
	}
	return j, nil
}

func decodeMutation(d *Decoder) (dom.Mutation, error) {
	var m dom.Mutation
	op, err := d.ReadByte()
	if err != nil {
		return m, errors.New("E140").Wrap(err)
	}
	m.Op = dom.MutationOp(op)
	if m.Op < dom.MutCreateElement || m.Op > dom.MutSetProperty {
		return m, errors.New("E141").WithDetail(fmt.Sprintf("Op byte 0x%02X is not a known mutation op.", op))
	}
	if m.Target, err = d.ReadUvarint(); err != nil {
		return m, errors.New("E140").Wrap(err)
	}
	if m.Parent, err = d.ReadUvarint(); err != nil {
		return m, errors.New("E140").Wrap(err)
	}
	if m.Before, err = d.ReadUvarint(); err != nil {
		return m, errors.New("E140").Wrap(err)
	}
	if m.Key, err = d.ReadString(); err != nil {
		return m, errors.New("E140").Wrap(err)
	}
	if m.Value, err = d.ReadString(); err != nil {
		return m, errors.New("E140").Wrap(err)
	}
	return m, nil
}

// EncodeSnapshot encodes a snapshot payload.
func EncodeSnapshot(s *Snapshot) []byte {
	e := NewEncoder()
	e.WriteUvarint(s.Seq)
	e.WriteString(s.HTML)
	return e.Bytes()
}

// DecodeSnapshot decodes a snapshot payload.
func DecodeSnapshot(payload []byte) (*Snapshot, error) {
	d := NewDecoder(payload)
	s := &Snapshot{}
	var err error
	if s.Seq, err = d.ReadUvarint(); err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	if s.HTML, err = d.ReadString(); err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	return s, nil
}

// EncodePassError encodes a pass error payload.
func EncodePassError(p *PassError) []byte {
	e := NewEncoder()
	e.WriteUvarint(p.Seq)
	e.WriteString(p.Code)
	e.WriteString(p.Message)
	return e.Bytes()
}

// DecodePassError decodes a pass error payload.
func DecodePassError(payload []byte) (*PassError, error) {
	d := NewDecoder(payload)
	p := &PassError{}
	var err error
	if p.Seq, err = d.ReadUvarint(); err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	if p.Code, err = d.ReadString(); err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	if p.Message, err = d.ReadString(); err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	return p, nil
}

// PassFrames builds the frames describing one pass: its journal, one frame
// per structural error, then the snapshot, which carries FlagFinal.
func PassFrames(seq uint64, mutations []dom.Mutation, errs []error, html string, flags FrameFlags) []*Frame {
	frames := make([]*Frame, 0, len(errs)+2)
	frames = append(frames, &Frame{
		Type:    FrameJournal,
		Flags:   flags,
		Payload: EncodeJournal(&JournalFrame{Seq: seq, Mutations: mutations}),
	})
	for _, err := range errs {
		frames = append(frames, &Frame{
			Type:    FrameError,
			Flags:   flags,
			Payload: EncodePassError(&PassError{Seq: seq, Code: errors.Code(err), Message: err.Error()}),
		})
	}
	frames = append(frames, &Frame{
		Type:    FrameSnapshot,
		Flags:   flags | FlagFinal,
		Payload: EncodeSnapshot(&Snapshot{Seq: seq, HTML: html}),
	})
	return frames
}
