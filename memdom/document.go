package memdom

import (
	"fmt"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/weft/loom"
)

type OpKind uint8

const (
	OpCreate OpKind = iota
	OpUpdate
	OpAppend
	OpRemove
	OpAttach // event listener added or replaced
	OpDetach // event listener removed
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpAppend:
		return "append"
	case OpRemove:
		return "remove"
	case OpAttach:
		return "attach"
	case OpDetach:
		return "detach"
	default:
		return "unknown"
	}
}

// Op is one recorded backend operation. Tests assert commit ordering and
// effect mixes against the log.
type Op struct {
	Kind   OpKind
	Tag    string
	Detail string
}

func (o Op) String() string {
	if o.Detail != "" {
		return fmt.Sprintf("%s %s [%s]", o.Kind, o.Tag, o.Detail)
	}
	return fmt.Sprintf("%s %s", o.Kind, o.Tag)
}

// Document owns an in-memory output tree and implements loom.Backend.
type Document struct {
	body    *Node
	ops     []Op
	failErr error
}

func New() *Document {
	d := &Document{}
	d.body = &Node{tag: "body", attrs: map[string]any{}}
	return d
}

// Body is the pre-existing container node render passes target.
func (d *Document) Body() *Node {
	return d.body
}

func (d *Document) Ops() []Op {
	return d.ops
}

func (d *Document) ClearOps() {
	d.ops = d.ops[:0]
}

// FailNext makes the next backend operation return err. Commit-failure
// semantics are untestable without a way to make the backend misbehave.
func (d *Document) FailNext(err error) {
	d.failErr = err
}

func (d *Document) checkFault() error {
	if d.failErr != nil {
		err := d.failErr
		d.failErr = nil
		return err
	}
	return nil
}

func (d *Document) record(kind OpKind, tag, detail string) {
	d.ops = append(d.ops, Op{Kind: kind, Tag: tag, Detail: detail})
}

func mustNode(n loom.Node) *Node {
	mn, ok := n.(*Node)
	if !ok {
		panic("not a memdom node")
	}
	return mn
}

func (d *Document) CreateNode(tag string, props loom.Props) (loom.Node, error) {
	if err := d.checkFault(); err != nil {
		return nil, err
	}
	n := &Node{tag: tag, attrs: map[string]any{}, listeners: map[string]Listener{}}
	d.applyProps(n, nil, props)
	n.fp = fingerprint(props)
	d.record(OpCreate, tag, "")
	return n, nil
}

func (d *Document) UpdateNode(ln loom.Node, prev, next loom.Props) error {
	if err := d.checkFault(); err != nil {
		return err
	}
	n := mustNode(ln)
	d.applyProps(n, prev, next)
	n.fp = fingerprint(next)
	d.record(OpUpdate, n.tag, "")
	return nil
}

func (d *Document) AppendChild(parent, child loom.Node) error {
	if err := d.checkFault(); err != nil {
		return err
	}
	p, c := mustNode(parent), mustNode(child)
	c.parent = p
	p.children = append(p.children, c)
	d.record(OpAppend, c.tag, "into "+p.tag)
	return nil
}

func (d *Document) RemoveChild(parent, child loom.Node) error {
	if err := d.checkFault(); err != nil {
		return err
	}
	p, c := mustNode(parent), mustNode(child)
	for i, existing := range p.children {
		if existing == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.parent = nil
			d.record(OpRemove, c.tag, "from "+p.tag)
			return nil
		}
	}
	return fmt.Errorf("memdom: %s is not a child of %s", c.tag, p.tag)
}

// applyProps diffs prev against next on the node: changed plain
// attributes are applied, removed ones reset to the empty value, and
// listeners are detached and reattached on every update. Go function
// values have no usable equality (distinct closures of one literal can
// share a code pointer), so a handler present on both sides is always
// rebound to the next value. Key bookkeeping runs on sets so the
// three-way split (removed, kept, added) stays obvious.
func (d *Document) applyProps(n *Node, prev, next loom.Props) {
	prevPlain, prevEvents := keySets(prev)
	nextPlain, nextEvents := keySets(next)

	fpNext := fingerprint(next)
	if n.fp != fpNext || prev == nil {
		for k := range prevPlain.Difference(nextPlain).Iter() {
			n.attrs[k] = ""
		}
		for k := range nextPlain.Iter() {
			if prev == nil || !reflect.DeepEqual(prev[k], next[k]) {
				n.attrs[k] = next[k]
			}
		}
	}

	for k := range prevEvents.Iter() {
		delete(n.listeners, eventType(k))
		d.record(OpDetach, n.tag, eventType(k))
	}
	for k := range nextEvents.Iter() {
		l, ok := next[k].(Listener)
		if !ok {
			// a handler prop that is not a Listener is an authoring bug;
			// surface it loudly rather than dropping events silently
			panic(fmt.Sprintf("memdom: prop %s on <%s> is %T, want memdom.Listener", k, n.tag, next[k]))
		}
		n.listeners[eventType(k)] = l
		d.record(OpAttach, n.tag, eventType(k))
	}
}

func keySets(props loom.Props) (plain, events mapset.Set[string]) {
	plain = mapset.NewThreadUnsafeSet[string]()
	events = mapset.NewThreadUnsafeSet[string]()
	for k := range props {
		if isEventKey(k) {
			events.Add(k)
		} else {
			plain.Add(k)
		}
	}
	return plain, events
}
