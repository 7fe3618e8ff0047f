package vdom

import (
	"fmt"

	"github.com/vango-dev/vcommit/pkg/dom"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComponent              // Stateful component backed by an Instance
	KindFunction               // Function component backed by hook records
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// EffectTag marks what a commit pass must do with a node.
// The zero value means the node is settled.
type EffectTag uint8

const (
	EffectNone      EffectTag = iota // Unchanged structurally
	EffectPlacement                  // Dom not yet in the document, or moved
	EffectUpdate                     // Node persists, props may differ
	EffectDeletion                   // Node and its subtree must be removed
)

// String returns the string representation of the EffectTag.
func (t EffectTag) String() string {
	switch t {
	case EffectNone:
		return "None"
	case EffectPlacement:
		return "Placement"
	case EffectUpdate:
		return "Update"
	case EffectDeletion:
		return "Deletion"
	default:
		return "Unknown"
	}
}

// Props holds attributes, event handlers, style and the structural keys
// "children" and "ref". Event handlers ("on" keys) must be *dom.Listener
// values; handlers are matched by listener identity, so any other value
// registers nothing.
type Props map[string]any

// TextProp is the prop carrying a text node's content.
const TextProp = "nodeValue"

// VNode is the virtual DOM node.
type VNode struct {
	Kind VKind
	Tag  string // Element tag name (e.g., "div")
	Name string // Display name for component and function nodes
	Key  string // Reconciliation key, for the scheduler

	Props Props

	// Dom is the platform node this VNode materializes. Nil for component
	// and function nodes, and for host nodes before their first commit.
	Dom *dom.Node

	// Instance is set only for KindComponent nodes.
	Instance Instance

	Parent  *VNode
	Child   *VNode
	Sibling *VNode

	// Prev is the committed shape of this node from the previous pass.
	// Prev.Prev is always nil.
	Prev *VNode

	EffectTag EffectTag
	Hooks     []*Hook
}

// IsHost reports whether the node materializes its own platform node.
func (v *VNode) IsHost() bool {
	return v != nil && (v.Kind == KindElement || v.Kind == KindText)
}

// Text returns a text node's content.
func (v *VNode) Text() string {
	if v == nil || v.Kind != KindText {
		return ""
	}
	s, _ := v.Props[TextProp].(string)
	return s
}

// Children returns the child chain as a slice.
func (v *VNode) Children() []*VNode {
	var out []*VNode
	for c := v.Child; c != nil; c = c.Sibling {
		out = append(out, c)
	}
	return out
}

// LastChild returns the final node of the child chain.
func (v *VNode) LastChild() *VNode {
	c := v.Child
	for c != nil && c.Sibling != nil {
		c = c.Sibling
	}
	return c
}

// AppendChild links child at the end of v's child chain.
func (v *VNode) AppendChild(child *VNode) {
	if child == nil {
		return
	}
	child.Parent = v
	child.Sibling = nil
	if last := v.LastChild(); last != nil {
		last.Sibling = child
	} else {
		v.Child = child
	}
}

// SetChildren replaces v's child chain with children, relinking each.
func (v *VNode) SetChildren(children ...*VNode) {
	v.Child = nil
	for _, c := range children {
		v.AppendChild(c)
	}
}

// Snapshot returns a shallow copy of v with its own Prev cleared, suitable
// as the next pass's diff baseline.
func (v *VNode) Snapshot() *VNode {
	snap := *v
	snap.Prev = nil
	return &snap
}

// Walk visits v and its descendants depth-first, child before sibling.
// Returning false from fn skips the visited node's children.
func Walk(v *VNode, fn func(*VNode) bool) {
	if v == nil {
		return
	}
	stack := []*VNode{v}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		// Push in reverse so the first child is visited first.
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// String describes the node for logs.
func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindElement:
		if v.Key != "" {
			return fmt.Sprintf("<%s key=%q>", v.Tag, v.Key)
		}
		return "<" + v.Tag + ">"
	case KindText:
		return fmt.Sprintf("#text %q", v.Text())
	default:
		if v.Name != "" {
			return v.Kind.String() + "(" + v.Name + ")"
		}
		return v.Kind.String()
	}
}
