package dom

// Listener is an event listener. Listeners are compared by pointer identity:
// adding the same *Listener twice for one event type registers it once, and
// two listeners wrapping the same function are still distinct.
type Listener struct {
	Fn func(*Event)
}

// NewListener wraps fn in a fresh Listener.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{Fn: fn}
}

// Event is dispatched through Node.Dispatch.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Detail        any

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// AddEventListener registers l for the event type.
func (n *Node) AddEventListener(eventType string, l *Listener) {
	if l == nil {
		return
	}
	for _, existing := range n.listeners[eventType] {
		if existing == l {
			return
		}
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]*Listener)
	}
	n.listeners[eventType] = append(n.listeners[eventType], l)
	n.doc.record(Mutation{Op: MutAddListener, Target: n.id, Key: eventType})
}

// RemoveEventListener unregisters l. Unknown listeners are ignored.
func (n *Node) RemoveEventListener(eventType string, l *Listener) {
	list := n.listeners[eventType]
	for i, existing := range list {
		if existing != l {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(n.listeners, eventType)
		} else {
			n.listeners[eventType] = list
		}
		n.doc.record(Mutation{Op: MutRemoveListener, Target: n.id, Key: eventType})
		return
	}
}

// Listeners returns the listeners registered for the event type.
func (n *Node) Listeners(eventType string) []*Listener {
	return append([]*Listener(nil), n.listeners[eventType]...)
}

// Dispatch delivers ev to n and then to each ancestor until propagation is
// stopped.
func (n *Node) Dispatch(ev *Event) {
	ev.Target = n
	for cur := n; cur != nil && !ev.stopped; cur = cur.Parent() {
		ev.CurrentTarget = cur
		for _, l := range cur.Listeners(ev.Type) {
			if l.Fn != nil {
				l.Fn(ev)
			}
		}
	}
}
