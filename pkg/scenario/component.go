package scenario

import (
	"github.com/vango-dev/vcommit/pkg/vdom"
)

// logComponent is the component every scenario component node is backed by.
// It records its lifecycle in the pass log.
type logComponent struct {
	vdom.BaseComponent

	id      string
	rootDom bool
	log     func(format string, args ...any)
}

func (c *logComponent) ComponentDidMount() {
	if c.rootDom {
		if owner := c.Owner(); owner != nil && owner.Child != nil {
			c.SetRootDom(owner.Child.Dom)
		}
	}
	c.log("mount %s", c.id)
}

func (c *logComponent) ComponentDidUpdate() {
	c.log("update %s", c.id)
}

func (c *logComponent) ComponentWillUnmount() {
	c.log("unmount %s", c.id)
}
