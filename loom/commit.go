package loom

// commitRoot flushes the finished work-in-progress tree to the backend:
// every queued deletion first, then placements and updates in tree order.
// It runs to completion once begun: the rest of the engine yields
// cooperatively, commit does not, because a partially applied tree with
// no rollback would be observably inconsistent.
//
// Only after the whole tree committed does the work-in-progress root
// become the new current root. On a backend failure the swap is skipped,
// so later passes never diff against a tree that does not match reality.
func (e *Engine) commitRoot() error {
	for _, d := range e.deletions {
		if err := e.commitDeletion(d); err != nil {
			return err
		}
	}
	if err := e.commitFiber(e.wip.child); err != nil {
		return err
	}

	e.current = e.wip
	e.wip = nil
	e.deletions = e.deletions[:0]
	return nil
}

// commitFiber applies one fiber's effect and recurses pre-order. DELETION
// never appears here, deleted fibers are not linked into the new chain.
func (e *Engine) commitFiber(f *fiber) error {
	if f == nil {
		return nil
	}

	switch f.effect {
	case effectPlacement:
		if f.node != nil {
			if err := e.backend.AppendChild(f.hostParent(), f.node); err != nil {
				return &CommitError{Op: "AppendChild", Err: err}
			}
		}
	case effectUpdate:
		if f.node != nil {
			if err := e.backend.UpdateNode(f.node, f.alternate.props, f.props); err != nil {
				return &CommitError{Op: "UpdateNode", Err: err}
			}
		}
	}

	if err := e.commitFiber(f.child); err != nil {
		return err
	}
	return e.commitFiber(f.sibling)
}

// commitDeletion detaches the subtree's output node from its host parent.
// Component fibers own no node, so deletion descends into first children
// until one is found.
func (e *Engine) commitDeletion(f *fiber) error {
	node := f.hostNode()
	if node == nil {
		return nil
	}
	if err := e.backend.RemoveChild(f.hostParent(), node); err != nil {
		return &CommitError{Op: "RemoveChild", Err: err}
	}
	return nil
}
