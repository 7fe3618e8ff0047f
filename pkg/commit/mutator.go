package commit

import (
	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/vdom"
)

// CreateDom allocates the platform node for a host node in doc, applies
// every prop as an addition and records it on node.Dom. node.Prev is never
// consulted. Non-host nodes get no platform node.
func CreateDom(doc *dom.Document, node *vdom.VNode) *dom.Node {
	var n *dom.Node
	switch {
	case node.Kind == vdom.KindText:
		n = doc.CreateTextNode("")
	case node.Kind != vdom.KindElement:
		return nil
	case IsSVGTag(node.Tag):
		n = doc.CreateElementNS(dom.NamespaceSVG, node.Tag)
	default:
		n = doc.CreateElement(node.Tag)
	}
	UpdateProps(n, nil, node.Props)
	node.Dom = n
	return n
}
