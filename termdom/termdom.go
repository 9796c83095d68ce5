// Package termdom renders a loom output tree as terminal text. It is the
// second backend in the repo on purpose: the engine is written against
// the backend contract, and two unrelated targets keep it honest.
//
// Recognised tags: "box" (bordered block), "row" (horizontal join),
// "col" (vertical join), "text" and the reserved text primitive. Plain
// attributes: "title" on box, "bold" and "fg" on text.
package termdom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/delaneyj/weft/loom"
)

// Listener handles a dispatched event, demo-grade: no event payload.
type Listener func()

type node struct {
	tag       string
	attrs     map[string]any
	listeners map[string]Listener
	children  []*node
	parent    *node
}

// Surface owns the terminal output tree.
type Surface struct {
	root *node
}

func New() *Surface {
	return &Surface{root: &node{tag: "screen", attrs: map[string]any{}}}
}

// Container is the pre-existing node render passes target.
func (s *Surface) Container() loom.Node {
	return s.root
}

// Dispatch invokes every listener for the event type anywhere in the
// tree, in tree order, and returns how many fired.
func (s *Surface) Dispatch(typ string) int {
	return s.root.dispatch(typ)
}

func (n *node) dispatch(typ string) int {
	fired := 0
	if l, ok := n.listeners[typ]; ok {
		l()
		fired++
	}
	for _, c := range n.children {
		fired += c.dispatch(typ)
	}
	return fired
}

// Dump returns the tree as plain indented structural text, the stable
// representation golden tests pin down.
func (s *Surface) Dump() string {
	var sb strings.Builder
	for _, c := range s.root.children {
		c.dump(&sb, 0)
	}
	return sb.String()
}

func (n *node) dump(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.tag == loom.TextTag {
		fmt.Fprintf(sb, "%s%q\n", indent, n.text())
		return
	}
	fmt.Fprintf(sb, "%s<%s%s>\n", indent, n.tag, formatAttrs(n.attrs))
	for _, c := range n.children {
		c.dump(sb, depth+1)
	}
}

func formatAttrs(attrs map[string]any) string {
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

func (n *node) text() string {
	s, _ := n.attrs[loom.TextValue].(string)
	return s
}

// View renders the tree styled for a terminal.
func (s *Surface) View() string {
	parts := make([]string, 0, len(s.root.children))
	for _, c := range s.root.children {
		parts = append(parts, c.view())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func (n *node) view() string {
	switch n.tag {
	case loom.TextTag:
		return n.text()
	case "text":
		style := lipgloss.NewStyle()
		if b, _ := n.attrs["bold"].(bool); b {
			style = style.Bold(true)
		}
		if fg, _ := n.attrs["fg"].(string); fg != "" {
			style = style.Foreground(lipgloss.Color(fg))
		}
		return style.Render(n.joinChildren(lipgloss.JoinHorizontal, lipgloss.Top))
	case "row":
		return n.joinChildren(lipgloss.JoinHorizontal, lipgloss.Top)
	case "box":
		body := n.joinChildren(lipgloss.JoinVertical, lipgloss.Left)
		if title, _ := n.attrs["title"].(string); title != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body)
		}
		return boxStyle.Render(body)
	default: // "col" and anything unknown stack vertically
		return n.joinChildren(lipgloss.JoinVertical, lipgloss.Left)
	}
}

func (n *node) joinChildren(join func(lipgloss.Position, ...string) string, pos lipgloss.Position) string {
	if len(n.children) == 0 {
		return ""
	}
	parts := make([]string, 0, len(n.children))
	for _, c := range n.children {
		parts = append(parts, c.view())
	}
	return join(pos, parts...)
}
