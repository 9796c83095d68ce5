// Package memdom is an in-memory output tree implementing the loom
// backend contract. It exists so the engine can be exercised, benchmarked
// and tested without a real rendering target: every backend operation is
// applied to a plain node tree and recorded in an operation log.
package memdom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/delaneyj/weft/loom"
)

// Listener handles a dispatched event. Props with an "on" prefix followed
// by an upper-case letter carry these.
type Listener func(ev Event)

type Event struct {
	Type   string
	Target *Node
}

// Node is one node of the in-memory tree.
type Node struct {
	tag       string
	attrs     map[string]any
	listeners map[string]Listener
	children  []*Node
	parent    *Node

	// fp fingerprints the plain attributes so an unchanged positional
	// update can skip the attribute walk entirely.
	fp uint64
}

func (n *Node) Tag() string {
	return n.tag
}

func (n *Node) Attr(key string) any {
	return n.attrs[key]
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Text returns the node value of a text node, or "".
func (n *Node) Text() string {
	s, _ := n.attrs[loom.TextValue].(string)
	return s
}

// Find returns the first node with the given tag in depth-first pre-order
// starting at n, or nil.
func (n *Node) Find(tag string) *Node {
	if n.tag == tag {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// Dispatch invokes the node's listener for the event type, if any.
// Event types are the lower-cased handler suffix: onClick handles
// Dispatch("click").
func (n *Node) Dispatch(typ string) bool {
	l, ok := n.listeners[typ]
	if !ok {
		return false
	}
	l(Event{Type: typ, Target: n})
	return true
}

// String dumps the subtree as indented structural text.
func (n *Node) String() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.tag == loom.TextTag {
		fmt.Fprintf(sb, "%s%q\n", indent, n.Text())
		return
	}
	fmt.Fprintf(sb, "%s<%s%s>\n", indent, n.tag, formatAttrs(n.attrs))
	for _, c := range n.children {
		c.dump(sb, depth+1)
	}
}

func formatAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, attrs[k])
	}
	return sb.String()
}

// isEventKey reports whether a prop key names a handler: "on" followed by
// an upper-case letter.
func isEventKey(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on") && key[2] >= 'A' && key[2] <= 'Z'
}

// eventType maps a handler key to its event type: onClick -> click.
func eventType(key string) string {
	return strings.ToLower(key[2:])
}

func fingerprint(props loom.Props) uint64 {
	keys := make([]string, 0, len(props))
	for k := range props {
		if isEventKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := xxhash.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s\x00%v\x1f", k, props[k])
	}
	return h.Sum64()
}
