package loom

// reconcileChildren diffs the previous child-fiber chain against the new
// child descriptions in lock-step by position. No key-based matching: at
// each position the kinds either match (reuse, UPDATE), or they do not
// (PLACEMENT for the new description, DELETION for the old fiber). The
// old cursor advances whenever an old fiber was present at the step, the
// new cursor whenever a description was, so the loop ends only when both
// are exhausted.
//
// Reordering two same-kind siblings therefore reads as two independent
// updates, and a moved subtree of a different kind as teardown plus
// rebuild. Known limitation, kept deliberately: committed operation
// sequences are part of the observable contract.
func (e *Engine) reconcileChildren(f *fiber, elements []*Element) {
	var oldFiber *fiber
	if f.alternate != nil {
		oldFiber = f.alternate.child
	}

	index := 0
	var prevSibling *fiber
	for index < len(elements) || oldFiber != nil {
		var el *Element
		if index < len(elements) {
			el = elements[index]
		}

		sameKind := oldFiber != nil && el != nil && oldFiber.kind.same(el.Kind)

		var newFiber *fiber
		switch {
		case sameKind:
			// take the new description's kind: for components the code
			// pointer may match while the closure differs, and the next
			// evaluation must run the new closure
			newFiber = &fiber{
				kind:      el.Kind,
				props:     el.Props,
				kids:      el.Children,
				node:      oldFiber.node,
				parent:    f,
				alternate: oldFiber,
				effect:    effectUpdate,
			}
		case el != nil:
			newFiber = &fiber{
				kind:   el.Kind,
				props:  el.Props,
				kids:   el.Children,
				parent: f,
				effect: effectPlacement,
			}
		}

		if oldFiber != nil && !sameKind {
			// never linked into the new chain, only remembered for commit
			oldFiber.effect = effectDeletion
			e.deletions = append(e.deletions, oldFiber)
		}

		if oldFiber != nil {
			oldFiber = oldFiber.sibling
		}

		if index == 0 {
			f.child = newFiber
		} else if el != nil {
			prevSibling.sibling = newFiber
		}
		if newFiber != nil {
			prevSibling = newFiber
		}
		index++
	}
}
