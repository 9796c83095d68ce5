package loom

type effectTag uint8

const (
	effectNone      effectTag = iota // nothing to do at commit
	effectPlacement                  // fresh output node must be attached
	effectUpdate                     // reuse the alternate's output node, diff props
	effectDeletion                   // subtree leaves the tree, recorded in the pass deletions
)

func (t effectTag) String() string {
	switch t {
	case effectNone:
		return "none"
	case effectPlacement:
		return "placement"
	case effectUpdate:
		return "update"
	case effectDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// fiber is both a node of the persistent tree and one unit of work for
// the scheduler. child and sibling links own their targets; parent and
// alternate are back-references used only for traversal.
//
// alternate points at the fiber occupying the same tree position in the
// previously committed tree, when one existed and matched by kind. At any
// moment exactly one of the two trees is being mutated, the other is
// read-only for the duration of the pass.
type fiber struct {
	kind  Kind
	props Props
	kids  []*Element // child descriptions, reconciled when this fiber is processed

	// node is the backing output-tree node. Component fibers never own
	// one. For primitive fibers it is created lazily the first time the
	// fiber is processed without an alternate node to reuse.
	node Node

	parent    *fiber
	child     *fiber
	sibling   *fiber
	alternate *fiber

	effect effectTag

	// hooks is the ordered state-cell list, component fibers only.
	hooks []*hookCell
}

// hostParent walks up to the nearest ancestor that owns an output node.
// Component fibers in between are transparent to the backend.
func (f *fiber) hostParent() Node {
	for p := f.parent; p != nil; p = p.parent {
		if p.node != nil {
			return p.node
		}
	}
	return nil
}

// hostNode returns the first output node at or below this fiber,
// descending through first children of component fibers.
func (f *fiber) hostNode() Node {
	for n := f; n != nil; n = n.child {
		if n.node != nil {
			return n.node
		}
	}
	return nil
}
