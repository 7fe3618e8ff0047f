package dom

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Tree errors returned by the insertion methods.
var (
	ErrNotChild      = errors.New("dom: reference node is not a child of this node")
	ErrHierarchy     = errors.New("dom: node cannot be inserted into its own subtree")
	ErrWrongDocument = errors.New("dom: node belongs to a different document")
	ErrNotContainer  = errors.New("dom: text nodes cannot have children")
	ErrNilNode       = errors.New("dom: nil node")
)

// Node is a node of a Document: an element, a text node or the document itself.
type Node struct {
	id        uint64
	doc       *Document
	raw       *html.Node
	listeners map[string][]*Listener
	props     map[string]any
}

// ID returns the document-scoped identifier used in the mutation journal.
func (n *Node) ID() uint64 {
	if n == nil {
		return 0
	}
	return n.id
}

// Document returns the owning document.
func (n *Node) Document() *Document {
	return n.doc
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.raw.Type == html.TextNode
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.raw.Type == html.ElementNode
}

// TagName returns the element tag, or "" for non-elements.
func (n *Node) TagName() string {
	if !n.IsElement() {
		return ""
	}
	return n.raw.Data
}

// Namespace returns "svg" for SVG elements and "" for HTML.
func (n *Node) Namespace() string {
	return n.raw.Namespace
}

// Text returns the data of a text node, or the concatenated text content of
// an element subtree.
func (n *Node) Text() string {
	if n.raw.Type == html.TextNode {
		return n.raw.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n.raw)
	return sb.String()
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.doc.wrap(n.raw.Parent)
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	return n.doc.wrap(n.raw.FirstChild)
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	return n.doc.wrap(n.raw.LastChild)
}

// NextSibling returns the next sibling, or nil.
func (n *Node) NextSibling() *Node {
	return n.doc.wrap(n.raw.NextSibling)
}

// PrevSibling returns the previous sibling, or nil.
func (n *Node) PrevSibling() *Node {
	return n.doc.wrap(n.raw.PrevSibling)
}

// Children returns the child nodes in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.raw.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, n.doc.wrap(c))
	}
	return out
}

// IsConnected reports whether n is attached to its document's tree.
func (n *Node) IsConnected() bool {
	if n == nil {
		return false
	}
	top := n.raw
	for top.Parent != nil {
		top = top.Parent
	}
	return top == n.doc.root.raw
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if n == nil || other == nil {
		return false
	}
	for h := other.raw; h != nil; h = h.Parent {
		if h == n.raw {
			return true
		}
	}
	return false
}

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore moves child so it sits immediately before ref among n's
// children. A nil ref appends. A child already attached elsewhere is moved.
func (n *Node) InsertBefore(child, ref *Node) error {
	if child == nil {
		return ErrNilNode
	}
	if child.doc != n.doc {
		return ErrWrongDocument
	}
	if n.raw.Type == html.TextNode {
		return ErrNotContainer
	}
	if ref != nil && ref.raw.Parent != n.raw {
		return ErrNotChild
	}
	if child.Contains(n) {
		return ErrHierarchy
	}
	if ref == child {
		return nil
	}
	if child.raw.Parent != nil {
		child.raw.Parent.RemoveChild(child.raw)
	}
	var before uint64
	if ref != nil {
		n.raw.InsertBefore(child.raw, ref.raw)
		before = ref.id
	} else {
		n.raw.AppendChild(child.raw)
	}
	n.doc.record(Mutation{Op: MutInsert, Target: child.id, Parent: n.id, Before: before})
	return nil
}

// After inserts other immediately after n in n's parent.
func (n *Node) After(other *Node) error {
	parent := n.Parent()
	if parent == nil {
		return ErrNotChild
	}
	if other == n {
		return nil
	}
	return parent.InsertBefore(other, n.NextSibling())
}

// Remove detaches n from its parent. Detached nodes are left untouched.
func (n *Node) Remove() {
	p := n.raw.Parent
	if p == nil {
		return
	}
	p.RemoveChild(n.raw)
	n.doc.record(Mutation{Op: MutRemove, Target: n.id, Parent: n.doc.wrap(p).id})
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(key string) (string, bool) {
	for _, a := range n.raw.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.GetAttribute(key)
	return ok
}

// Attributes returns a copy of the attributes in document order.
func (n *Node) Attributes() []html.Attribute {
	out := make([]html.Attribute, len(n.raw.Attr))
	copy(out, n.raw.Attr)
	return out
}

// SetAttribute sets an attribute, replacing any existing value.
func (n *Node) SetAttribute(key, value string) {
	n.setAttr(key, value)
	n.doc.record(Mutation{Op: MutSetAttr, Target: n.id, Key: key, Value: value})
}

// RemoveAttribute removes an attribute. Removing an absent attribute is
// not journalled.
func (n *Node) RemoveAttribute(key string) {
	if !n.removeAttr(key) {
		return
	}
	n.doc.record(Mutation{Op: MutRemoveAttr, Target: n.id, Key: key})
}

func (n *Node) setAttr(key, value string) {
	for i := range n.raw.Attr {
		if n.raw.Attr[i].Key == key {
			n.raw.Attr[i].Val = value
			return
		}
	}
	n.raw.Attr = append(n.raw.Attr, html.Attribute{Key: key, Val: value})
}

func (n *Node) removeAttr(key string) bool {
	for i := range n.raw.Attr {
		if n.raw.Attr[i].Key == key {
			n.raw.Attr = append(n.raw.Attr[:i], n.raw.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// SetProperty assigns a property directly on the node, bypassing attributes.
// On text nodes "nodeValue", "textContent" and "data" replace the text.
func (n *Node) SetProperty(key string, value any) {
	s := stringify(value)
	if n.raw.Type == html.TextNode && isTextProperty(key) {
		n.raw.Data = s
	} else {
		if n.props == nil {
			n.props = make(map[string]any)
		}
		n.props[key] = value
	}
	n.doc.record(Mutation{Op: MutSetProperty, Target: n.id, Key: key, Value: s})
}

// Property returns a property previously assigned with SetProperty.
func (n *Node) Property(key string) any {
	if n.raw.Type == html.TextNode && isTextProperty(key) {
		return n.raw.Data
	}
	return n.props[key]
}

func isTextProperty(key string) bool {
	switch key {
	case "nodeValue", "textContent", "data":
		return true
	}
	return false
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// OuterHTML renders n and its subtree.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n.raw); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders n's children.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	for c := n.raw.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// String describes the node for logs.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.raw.Type {
	case html.TextNode:
		return fmt.Sprintf("#%d text %q", n.id, n.raw.Data)
	case html.DocumentNode:
		return fmt.Sprintf("#%d document", n.id)
	default:
		return fmt.Sprintf("#%d <%s>", n.id, n.raw.Data)
	}
}
