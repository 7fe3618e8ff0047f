package vdom

import (
	"maps"
	"weak"

	"github.com/vango-dev/vcommit/pkg/dom"
)

// Context is the rendering context shared by the nodes of one tree.
type Context interface {
	// RequestUpdate schedules a future render pass for node.
	RequestUpdate(node *VNode)

	// QueueEffect defers fn until the current commit pass has settled.
	QueueEffect(fn func())
}

// Instance is the stateful object behind a KindComponent node.
// Implementations embed BaseComponent.
type Instance interface {
	// RootDom returns the platform node the component resolves to, if any.
	RootDom() *dom.Node

	// Base returns the embedded BaseComponent.
	Base() *BaseComponent
}

// Mounter is implemented by components that want a callback after their
// first commit.
type Mounter interface {
	ComponentDidMount()
}

// Updater is implemented by components that want a callback after each
// committed update.
type Updater interface {
	ComponentDidUpdate()
}

// Unmounter is implemented by components that want a callback before their
// subtree is removed.
type Unmounter interface {
	ComponentWillUnmount()
}

// ShouldUpdater lets a component veto re-renders triggered by SetState.
type ShouldUpdater interface {
	ShouldComponentUpdate(props Props, state State) bool
}

// State is a component's local state.
type State map[string]any

// BaseComponent carries the bookkeeping every component instance needs.
type BaseComponent struct {
	Props Props
	State State

	self  Instance
	owner weak.Pointer[VNode]
	ctx   Context
	root  *dom.Node
}

// Base implements Instance.
func (b *BaseComponent) Base() *BaseComponent { return b }

// RootDom implements Instance.
func (b *BaseComponent) RootDom() *dom.Node { return b.root }

// SetRootDom records the platform node the component resolves to.
func (b *BaseComponent) SetRootDom(n *dom.Node) { b.root = n }

// Owner returns the node that owns this instance, or nil once that node has
// been discarded.
func (b *BaseComponent) Owner() *VNode { return b.owner.Value() }

// Context returns the rendering context the instance was bound to.
func (b *BaseComponent) Context() Context { return b.ctx }

// SetState replaces the state with setter's result and requests an update
// unless the component vetoes it. setter receives a copy.
func (b *BaseComponent) SetState(setter func(State) State) {
	next := setter(maps.Clone(b.State))
	if next == nil {
		next = State{}
	}
	b.State = next
	if su, ok := b.self.(ShouldUpdater); ok && !su.ShouldComponentUpdate(b.Props, next) {
		return
	}
	owner := b.Owner()
	if owner == nil || b.ctx == nil {
		return
	}
	b.ctx.RequestUpdate(owner)
}

// Bind attaches inst to node and ctx. The back-reference to node is weak.
func Bind(inst Instance, node *VNode, ctx Context) {
	b := inst.Base()
	b.self = inst
	b.owner = weak.Make(node)
	b.ctx = ctx
	if b.State == nil {
		b.State = State{}
	}
	if b.Props == nil {
		b.Props = node.Props
	}
	node.Instance = inst
}

// Component creates a component node for inst, binds it to ctx and links
// children beneath it.
func Component(name string, inst Instance, ctx Context, props Props, children ...*VNode) *VNode {
	if props == nil {
		props = Props{}
	}
	node := &VNode{Kind: KindComponent, Name: name, Props: props}
	Bind(inst, node, ctx)
	node.SetChildren(children...)
	return node
}

// Func creates a hook-bearing function node with the given children.
func Func(name string, children ...*VNode) *VNode {
	node := &VNode{Kind: KindFunction, Name: name, Props: Props{}}
	node.SetChildren(children...)
	return node
}
