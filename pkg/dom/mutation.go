package dom

import "fmt"

// MutationOp is the kind of a journalled document mutation.
type MutationOp uint8

const (
	MutCreateElement  MutationOp = 0x01 // Key=tag, Value=namespace
	MutCreateText     MutationOp = 0x02 // Value=initial text
	MutInsert         MutationOp = 0x03 // Parent, Before (0 = append)
	MutRemove         MutationOp = 0x04 // Detach target from its parent
	MutSetAttr        MutationOp = 0x05 // Key, Value
	MutRemoveAttr     MutationOp = 0x06 // Key
	MutSetStyle       MutationOp = 0x07 // Key=property, Value
	MutRemoveStyle    MutationOp = 0x08 // Key=property
	MutAddListener    MutationOp = 0x09 // Key=event type
	MutRemoveListener MutationOp = 0x0A // Key=event type
	MutSetProperty    MutationOp = 0x0B // Key, Value
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case MutCreateElement:
		return "CreateElement"
	case MutCreateText:
		return "CreateText"
	case MutInsert:
		return "Insert"
	case MutRemove:
		return "Remove"
	case MutSetAttr:
		return "SetAttr"
	case MutRemoveAttr:
		return "RemoveAttr"
	case MutSetStyle:
		return "SetStyle"
	case MutRemoveStyle:
		return "RemoveStyle"
	case MutAddListener:
		return "AddListener"
	case MutRemoveListener:
		return "RemoveListener"
	case MutSetProperty:
		return "SetProperty"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the op by name.
func (op MutationOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// Mutation is one journalled change to the document.
// Node references are document-scoped node IDs.
type Mutation struct {
	Op     MutationOp `json:"op"`
	Target uint64     `json:"target"`
	Parent uint64     `json:"parent,omitempty"`
	Before uint64     `json:"before,omitempty"`
	Key    string     `json:"key,omitempty"`
	Value  string     `json:"value,omitempty"`
}

// String formats the mutation for logs and golden output.
func (m Mutation) String() string {
	switch m.Op {
	case MutCreateElement:
		if m.Value != "" {
			return fmt.Sprintf("%s #%d %s:%s", m.Op, m.Target, m.Value, m.Key)
		}
		return fmt.Sprintf("%s #%d %s", m.Op, m.Target, m.Key)
	case MutCreateText:
		return fmt.Sprintf("%s #%d %q", m.Op, m.Target, m.Value)
	case MutInsert:
		if m.Before != 0 {
			return fmt.Sprintf("%s #%d into #%d before #%d", m.Op, m.Target, m.Parent, m.Before)
		}
		return fmt.Sprintf("%s #%d into #%d", m.Op, m.Target, m.Parent)
	case MutRemove:
		return fmt.Sprintf("%s #%d from #%d", m.Op, m.Target, m.Parent)
	case MutSetAttr, MutSetStyle, MutSetProperty:
		return fmt.Sprintf("%s #%d %s=%q", m.Op, m.Target, m.Key, m.Value)
	default:
		return fmt.Sprintf("%s #%d %s", m.Op, m.Target, m.Key)
	}
}

// record appends a mutation to the journal and notifies observers.
func (d *Document) record(m Mutation) {
	d.count++
	d.records = append(d.records, m)
	for _, fn := range d.observers {
		fn(m)
	}
}

// TakeRecords returns the mutations journalled since the previous call and
// empties the journal.
func (d *Document) TakeRecords() []Mutation {
	out := d.records
	d.records = nil
	return out
}

// MutationCount returns the total number of mutations ever journalled.
func (d *Document) MutationCount() int {
	return d.count
}

// Observe registers fn to be called synchronously for every mutation.
func (d *Document) Observe(fn func(Mutation)) {
	d.observers = append(d.observers, fn)
}
