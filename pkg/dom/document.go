package dom

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Namespace URIs accepted by CreateElementNS.
const (
	NamespaceHTML = "http://www.w3.org/1999/xhtml"
	NamespaceSVG  = "http://www.w3.org/2000/svg"
)

// Document owns a tree of nodes and the journal of mutations made to it.
type Document struct {
	root      *Node
	nodes     map[*html.Node]*Node
	nextID    uint64
	records   []Mutation
	count     int
	observers []func(Mutation)
}

// NewDocument creates an empty document with an html/head/body skeleton.
func NewDocument() *Document {
	raw := &html.Node{Type: html.DocumentNode}
	htmlEl := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	raw.AppendChild(htmlEl)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	return newDocument(raw)
}

// Parse builds a document from HTML markup.
// Parsing is not journalled; the journal starts empty.
func Parse(r io.Reader) (*Document, error) {
	raw, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return newDocument(raw), nil
}

// ParseString is Parse for an in-memory string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

func newDocument(raw *html.Node) *Document {
	d := &Document{nodes: make(map[*html.Node]*Node)}
	d.root = d.wrap(raw)
	return d
}

// wrap returns the Node for raw, allocating an ID on first sight.
func (d *Document) wrap(raw *html.Node) *Node {
	if raw == nil {
		return nil
	}
	if n, ok := d.nodes[raw]; ok {
		return n
	}
	d.nextID++
	n := &Node{id: d.nextID, doc: d, raw: raw}
	d.nodes[raw] = n
	return n
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// Body returns the body element, or nil if the document has none.
func (d *Document) Body() *Node {
	return d.find(func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
}

// GetElementByID returns the first element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *Node {
	return d.find(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return true
			}
		}
		return false
	})
}

func (d *Document) find(match func(*html.Node) bool) *Node {
	stack := []*html.Node{d.root.raw}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if match(n) {
			return d.wrap(n)
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return nil
}

// CreateElement creates a detached HTML element.
func (d *Document) CreateElement(tag string) *Node {
	raw := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	n := d.wrap(raw)
	d.record(Mutation{Op: MutCreateElement, Target: n.id, Key: tag})
	return n
}

// CreateElementNS creates a detached element in the given namespace.
// NamespaceSVG elements render as foreign content.
func (d *Document) CreateElementNS(namespace, tag string) *Node {
	ns := ""
	switch namespace {
	case NamespaceHTML, "":
	case NamespaceSVG:
		ns = "svg"
	default:
		ns = namespace
	}
	raw := &html.Node{Type: html.ElementNode, Data: tag, Namespace: ns}
	if ns == "" {
		raw.DataAtom = atom.Lookup([]byte(tag))
	}
	n := d.wrap(raw)
	d.record(Mutation{Op: MutCreateElement, Target: n.id, Key: tag, Value: ns})
	return n
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(data string) *Node {
	n := d.wrap(&html.Node{Type: html.TextNode, Data: data})
	d.record(Mutation{Op: MutCreateText, Target: n.id, Value: data})
	return n
}

// HTML renders the whole document.
func (d *Document) HTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root.raw); err != nil {
		return ""
	}
	return buf.String()
}
