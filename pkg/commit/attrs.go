package commit

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/vdom"
)

// internalProps are structural and never reach the platform node.
var internalProps = map[string]bool{
	"children": true,
	"ref":      true,
	"key":      true,
}

// UpdateDom reconciles target from node.Prev's props to node's props and
// returns target.
func UpdateDom(node *vdom.VNode, target *dom.Node) *dom.Node {
	var prev vdom.Props
	if node.Prev != nil {
		prev = node.Prev.Props
	}
	UpdateProps(target, prev, node.Props)
	return target
}

// UpdateProps issues the mutations that take target from prev to next.
// Keys whose value is unchanged are not touched.
func UpdateProps(target *dom.Node, prev, next vdom.Props) {
	for _, key := range unionKeys(prev, next) {
		if internalProps[key] {
			continue
		}
		pv, inPrev := prev[key]
		nv, inNext := next[key]

		if isEventKey(key) {
			if sameListener(pv, nv) {
				continue
			}
			event := strings.ToLower(key[2:])
			if inPrev {
				target.RemoveEventListener(event, listenerOf(pv))
			}
			if inNext {
				l := listenerOf(nv)
				if l == nil && nv != nil {
					slog.Default().Debug("commit: event prop ignored, want *dom.Listener",
						"event", event, "type", fmt.Sprintf("%T", nv), "node", target.String())
				}
				target.AddEventListener(event, l)
			}
			continue
		}

		if sameValue(pv, nv) {
			continue
		}
		if target.IsText() {
			target.SetProperty(key, nv)
			continue
		}
		if key == "style" {
			setStyle(target, pv, nv)
			continue
		}
		ApplyAttribute(target, key, nv)
	}
}

// ApplyAttribute sets or removes the platform attribute for property key.
// Removal values (nil, funcs, channels, unsafe pointers) and false on a
// boolean attribute remove it; true on a boolean attribute sets it empty.
// Anything else is set to its string form.
func ApplyAttribute(target *dom.Node, key string, value any) {
	if key == "style" {
		setStyle(target, nil, value)
		return
	}
	name := PropToAttr(key)
	if isRemovalValue(value) {
		target.RemoveAttribute(name)
		return
	}
	if IsBooleanAttribute(name) {
		if on, ok := value.(bool); ok && !on {
			target.RemoveAttribute(name)
			return
		}
		target.SetAttribute(name, "")
		return
	}
	target.SetAttribute(name, attrString(value))
}

// setStyle applies a style prop. Strings replace the attribute verbatim,
// maps are merged against a previous map, anything else clears it.
func setStyle(target *dom.Node, prev, next any) {
	if s, ok := next.(string); ok {
		target.SetAttribute("style", s)
		return
	}
	nextMap, ok := styleMap(next)
	if !ok {
		target.RemoveAttribute("style")
		return
	}

	prevMap, prevIsMap := styleMap(prev)
	if !prevIsMap {
		target.RemoveAttribute("style")
	}

	st := target.Style()
	for _, k := range slices.Sorted(maps.Keys(prevMap)) {
		if _, keep := nextMap[k]; !keep {
			st.RemoveProperty(k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(nextMap)) {
		if v, had := prevMap[k]; had && v == nextMap[k] {
			continue
		}
		st.SetProperty(k, nextMap[k])
	}
}

// styleMap normalizes the structured style spellings to map[string]string.
func styleMap(v any) (map[string]string, bool) {
	switch s := v.(type) {
	case vdom.Style:
		return s, s != nil
	case map[string]string:
		return s, s != nil
	case map[string]any:
		if s == nil {
			return nil, false
		}
		out := make(map[string]string, len(s))
		for k, val := range s {
			if val == nil {
				out[k] = ""
				continue
			}
			out[k] = attrString(val)
		}
		return out, true
	}
	return nil, false
}

// unionKeys returns the keys present in either a or b, sorted.
func unionKeys(a, b vdom.Props) []string {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return slices.Sorted(maps.Keys(keys))
}

func isEventKey(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

func listenerOf(v any) *dom.Listener {
	l, _ := v.(*dom.Listener)
	return l
}

// sameListener compares handlers by identity. Only two equal *dom.Listener
// pointers (or two absent handlers) are the same.
func sameListener(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	la, okA := a.(*dom.Listener)
	lb, okB := b.(*dom.Listener)
	return okA && okB && la == lb
}

// sameValue reports whether a prop value is unchanged. Funcs never are.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Func || rb.Kind() == reflect.Func {
		return false
	}
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func isRemovalValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}

func attrString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
