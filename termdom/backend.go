package termdom

import (
	"fmt"
	"strings"

	"github.com/delaneyj/weft/loom"
)

// Backend contract. Unlike memdom there is no operation log here, the
// surface is about what the committed tree looks like, not how it got
// there.

func mustNode(n loom.Node) *node {
	tn, ok := n.(*node)
	if !ok {
		panic("not a termdom node")
	}
	return tn
}

func (s *Surface) CreateNode(tag string, props loom.Props) (loom.Node, error) {
	n := &node{tag: tag, attrs: map[string]any{}, listeners: map[string]Listener{}}
	s.applyProps(n, nil, props)
	return n, nil
}

func (s *Surface) UpdateNode(ln loom.Node, prev, next loom.Props) error {
	s.applyProps(mustNode(ln), prev, next)
	return nil
}

func (s *Surface) AppendChild(parent, child loom.Node) error {
	p, c := mustNode(parent), mustNode(child)
	c.parent = p
	p.children = append(p.children, c)
	return nil
}

func (s *Surface) RemoveChild(parent, child loom.Node) error {
	p, c := mustNode(parent), mustNode(child)
	for i, existing := range p.children {
		if existing == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.parent = nil
			return nil
		}
	}
	return fmt.Errorf("termdom: <%s> is not a child of <%s>", c.tag, p.tag)
}

func (s *Surface) applyProps(n *node, prev, next loom.Props) {
	for k := range prev {
		if _, kept := next[k]; kept {
			continue
		}
		if isEventKey(k) {
			delete(n.listeners, eventType(k))
		} else {
			n.attrs[k] = ""
		}
	}
	for k, v := range next {
		if isEventKey(k) {
			l, ok := v.(Listener)
			if !ok {
				panic(fmt.Sprintf("termdom: prop %s on <%s> is %T, want termdom.Listener", k, n.tag, v))
			}
			n.listeners[eventType(k)] = l
		} else {
			n.attrs[k] = v
		}
	}
}

func isEventKey(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on") && key[2] >= 'A' && key[2] <= 'Z'
}

func eventType(key string) string {
	return strings.ToLower(key[2:])
}
