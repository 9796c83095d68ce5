package loom

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// TextTag is the reserved primitive tag for raw text nodes. Backends
// receive the text itself under the TextValue prop.
const (
	TextTag   = "#text"
	TextValue = "nodeValue"
)

// Props are the attributes of an element. Keys with the "on" prefix
// followed by an upper-case letter are event handlers; everything else is
// a plain attribute. The reserved "children" key is never stored here,
// children live in their own field on Element.
type Props map[string]any

// Component is a pure function from props to a single child description.
// Returning nil renders nothing.
type Component func(props Props) *Element

// Kind is a tagged variant: either a primitive tag that maps to a
// backend-native node, or a component function. The variant is resolved
// here, at construction time, never by runtime type inspection later.
type Kind struct {
	tag  string
	fn   Component
	fnID uintptr
}

// Tag makes a primitive kind.
func Tag(name string) Kind {
	return Kind{tag: name}
}

// Func makes a component kind. Identity is the function's code pointer,
// captured once so two references to the same top-level function compare
// equal during reconciliation. Closures built from one function literal
// share a code pointer and are treated as the same kind; give components
// stable top-level functions when they must be told apart.
func Func(fn Component) Kind {
	if fn == nil {
		return Kind{}
	}
	return Kind{fn: fn, fnID: reflect.ValueOf(fn).Pointer()}
}

func (k Kind) IsComponent() bool {
	return k.fn != nil
}

func (k Kind) IsZero() bool {
	return k.tag == "" && k.fn == nil
}

func (k Kind) String() string {
	if k.IsComponent() {
		return fmt.Sprintf("func(%#x)", k.fnID)
	}
	return k.tag
}

// same is the reconciler's identity test: primitive kinds match on tag,
// component kinds on function identity.
func (k Kind) same(o Kind) bool {
	if k.IsComponent() != o.IsComponent() {
		return false
	}
	if k.IsComponent() {
		return k.fnID == o.fnID
	}
	return k.tag == o.tag
}

// Element is the immutable author-facing description of a node.
type Element struct {
	Kind     Kind
	Props    Props
	Children []*Element
}

var (
	ErrInvalidKind       = errors.New("loom: element kind is neither a tag nor a component")
	ErrComponentChildren = errors.New("loom: component elements do not take children")
	ErrBadChild          = errors.New("loom: unsupported child type")
)

// CreateElement builds an element description. Malformed input is
// reported here, at construction time, not deep inside reconciliation.
// String and int children are wrapped into text elements.
func CreateElement(kind Kind, props Props, children ...any) (*Element, error) {
	if kind.IsZero() {
		return nil, ErrInvalidKind
	}
	if kind.IsComponent() && len(children) > 0 {
		return nil, ErrComponentChildren
	}

	el := &Element{Kind: kind}
	if len(props) > 0 {
		el.Props = make(Props, len(props))
		for k, v := range props {
			if k == "children" {
				// reserved, never a plain attribute
				continue
			}
			el.Props[k] = v
		}
	}

	for i, child := range children {
		switch c := child.(type) {
		case nil:
			continue
		case *Element:
			if c == nil {
				continue
			}
			el.Children = append(el.Children, c)
		case string:
			el.Children = append(el.Children, Text(c))
		case int:
			el.Children = append(el.Children, Text(strconv.Itoa(c)))
		default:
			return nil, fmt.Errorf("child %d of <%s>: %w (%T)", i, kind, ErrBadChild, child)
		}
	}
	return el, nil
}

// El is CreateElement for hand-built trees, panicking on malformed input.
func El(kind Kind, props Props, children ...any) *Element {
	el, err := CreateElement(kind, props, children...)
	if err != nil {
		panic(err)
	}
	return el
}

// Text makes a raw text element.
func Text(value string) *Element {
	return &Element{
		Kind:  Kind{tag: TextTag},
		Props: Props{TextValue: value},
	}
}
