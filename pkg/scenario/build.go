package scenario

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/commit"
	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/vdom"
)

const rootID = "root"

func childID(parent string, i int) string {
	return parent + "." + strconv.Itoa(i)
}

// entry is a node as committed by a pass.
type entry struct {
	node   *vdom.VNode
	sig    string
	parent string
	index  int
	kids   []string
}

// plan is the work of one pass, ready to commit.
type plan struct {
	root      *vdom.VNode
	deletions []*vdom.VNode
	next      map[string]*entry
	order     []string
	replaced  map[string]bool

	// reprops reconcile props of nodes that moved and changed in one pass.
	reprops []func()
}

// builder turns pass trees into virtual trees, reusing nodes by id so each
// pass commits against the previous one.
type builder struct {
	ctx vdom.Context
	log func(format string, args ...any)

	entries map[string]*entry
	order   []string

	listeners map[string]*dom.Listener
	refs      map[string]*vdom.Ref
	refDoms   map[string]*dom.Node
}

func newBuilder(ctx vdom.Context, log func(format string, args ...any)) *builder {
	return &builder{
		ctx:       ctx,
		log:       log,
		entries:   make(map[string]*entry),
		listeners: make(map[string]*dom.Listener),
		refs:      make(map[string]*vdom.Ref),
		refDoms:   make(map[string]*dom.Node),
	}
}

// build links the pass tree and works out which committed nodes it removes.
func (b *builder) build(p *Pass) (*plan, error) {
	pl := &plan{
		next:     make(map[string]*entry),
		replaced: make(map[string]bool),
	}
	pl.root, _ = b.node(p.Tree, rootID, "", 0, pl)

	for _, id := range p.Delete {
		if b.entries[id] == nil {
			return nil, errors.New("E163").WithNode(id)
		}
		if pl.next[id] != nil && !pl.replaced[id] {
			return nil, errors.New("E164").WithNode(id)
		}
	}

	gone := func(id string) bool {
		return pl.next[id] == nil || pl.replaced[id]
	}
	for _, id := range b.order {
		if !gone(id) {
			continue
		}
		old := b.entries[id]
		// Keep only children that leave with it; the rest live on in the new tree.
		var kids []*vdom.VNode
		for _, k := range old.kids {
			if gone(k) {
				kids = append(kids, b.entries[k].node)
			}
		}
		old.node.SetChildren(kids...)
		if old.parent == "" || !gone(old.parent) {
			pl.deletions = append(pl.deletions, old.node)
		}
	}
	return pl, nil
}

func (b *builder) node(src *Node, id, parent string, index int, pl *plan) (*vdom.VNode, string) {
	if src.ID != "" {
		id = src.ID
	}
	sig := signature(src)
	props := b.props(id, src)

	prev := b.entries[id]
	reused := prev != nil && prev.sig == sig
	if prev != nil && !reused {
		pl.replaced[id] = true
	}

	var n *vdom.VNode
	switch {
	case reused:
		n = prev.node
	case src.Text != nil:
		n = vdom.Text(*src.Text)
	case src.Tag != "":
		n = vdom.H(src.Tag)
	case src.Func != "":
		n = vdom.Func(src.Func)
		for _, h := range src.Hooks {
			n.UseCleanup(h, func() { b.log("cleanup %s.%s", id, h) })
		}
	default:
		inst := &logComponent{id: id, rootDom: src.RootDom, log: b.log}
		n = vdom.Component(src.Component, inst, b.ctx, props)
	}

	e := &entry{node: n, sig: sig, parent: parent, index: index}
	pl.next[id] = e
	pl.order = append(pl.order, id)

	children := make([]*vdom.VNode, 0, len(src.Children))
	for i, c := range src.Children {
		child, cid := b.node(c, childID(id, i), id, i, pl)
		children = append(children, child)
		e.kids = append(e.kids, cid)
	}

	if reused {
		moved := prev.parent != parent || prev.index != index
		changed := !reflect.DeepEqual(n.Props, props)
		switch {
		case moved && changed:
			n.EffectTag = vdom.EffectPlacement
			old := n.Props
			pl.reprops = append(pl.reprops, func() {
				if n.Dom != nil {
					commit.UpdateProps(n.Dom, old, props)
				}
			})
		case moved:
			n.EffectTag = vdom.EffectPlacement
		case changed:
			n.EffectTag = vdom.EffectUpdate
		}
	}
	switch src.Effect {
	case "placement":
		n.EffectTag = vdom.EffectPlacement
	case "update":
		n.EffectTag = vdom.EffectUpdate
	case "none":
		n.EffectTag = vdom.EffectNone
	}

	n.Key = src.Key
	n.Props = props
	if n.Instance != nil {
		n.Instance.Base().Props = props
	}
	n.SetChildren(children...)
	return n, id
}

// props converts scenario props. String values of event props become
// listeners that log the event; a listener is reused while its label holds.
func (b *builder) props(id string, src *Node) vdom.Props {
	if src.Text != nil {
		return vdom.Props{vdom.TextProp: *src.Text}
	}
	props := make(vdom.Props, len(src.Props)+1)
	for k, v := range src.Props {
		if label, ok := v.(string); ok && isEventProp(k) {
			props[k] = b.listener(id, k, label)
			continue
		}
		props[k] = v
	}
	if src.Ref {
		ref := b.refs[id]
		if ref == nil {
			ref = vdom.NewRef()
			b.refs[id] = ref
		}
		props["ref"] = ref
	}
	return props
}

func (b *builder) listener(id, prop, label string) *dom.Listener {
	key := id + "\x00" + prop + "\x00" + label
	if l := b.listeners[key]; l != nil {
		return l
	}
	l := dom.NewListener(func(ev *dom.Event) {
		b.log("event %s %s: %s", id, ev.Type, label)
	})
	b.listeners[key] = l
	return l
}

// commit makes the plan the baseline for the next pass.
func (b *builder) commit(pl *plan) {
	b.entries = pl.next
	b.order = pl.order
	for id := range b.refs {
		if _, ok := b.entries[id]; !ok {
			delete(b.refs, id)
			delete(b.refDoms, id)
		}
	}
	for key := range b.listeners {
		id, _, _ := strings.Cut(key, "\x00")
		if _, ok := b.entries[id]; !ok {
			delete(b.listeners, key)
		}
	}
	for _, id := range b.order {
		ref := b.refs[id]
		if ref == nil || ref.Current == b.refDoms[id] {
			continue
		}
		b.refDoms[id] = ref.Current
		b.log("ref %s = %s", id, ref.Current)
	}
}

// lookup returns the committed node with the given id.
func (b *builder) lookup(id string) (*vdom.VNode, error) {
	e := b.entries[id]
	if e == nil {
		return nil, errors.New("E163").WithNode(id)
	}
	return e.node, nil
}

// idOf returns the id of a committed node, or its description.
func (b *builder) idOf(n *vdom.VNode) string {
	for id, e := range b.entries {
		if e.node == n {
			return id
		}
	}
	return n.String()
}

func signature(src *Node) string {
	switch {
	case src.Text != nil:
		return "#text"
	case src.Tag != "":
		return "<" + src.Tag + ">"
	case src.Func != "":
		return "func:" + src.Func
	default:
		return fmt.Sprintf("component:%s:%t", src.Component, src.RootDom)
	}
}

func isEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}
