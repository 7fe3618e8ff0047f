package vdom

import "github.com/vango-dev/vcommit/pkg/dom"

// Hook is one per-render hook record of a function node. The commit engine
// only consults Cleanup.
type Hook struct {
	Name    string
	State   any
	Cleanup func()
}

// RunCleanup invokes the hook's cleanup once and discards it.
func RunCleanup(h *Hook) {
	if h == nil || h.Cleanup == nil {
		return
	}
	fn := h.Cleanup
	h.Cleanup = nil
	fn()
}

// AddHook appends a hook record to the node.
func (v *VNode) AddHook(h *Hook) {
	v.Hooks = append(v.Hooks, h)
}

// UseCleanup registers a cleanup-only hook on the node.
func (v *VNode) UseCleanup(name string, fn func()) *Hook {
	h := &Hook{Name: name, Cleanup: fn}
	v.AddHook(h)
	return h
}

// Ref is a mutable cell that receives a node's platform dom during commit.
type Ref struct {
	Current *dom.Node
}

// NewRef creates an empty Ref.
func NewRef() *Ref {
	return &Ref{}
}

// RefAttr attaches r to an element.
func RefAttr(r *Ref) Attr { return attr("ref", r) }
