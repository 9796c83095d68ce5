package loom

type phase uint8

const (
	phaseIdle          phase = iota // no pass in flight
	phaseWorking                    // units of work remain for the in-flight pass
	phaseCommitPending              // work drained, commit not yet run
)

// Tick runs units of work until the deadline's budget is spent or no work
// remains, then commits the finished tree in one synchronous,
// non-interruptible step. It returns true once the engine is idle again.
// A failed commit leaves the engine non-idle with the pass still pending.
//
// Yielding happens only here, between units, never inside one, so an
// interrupted pass leaves nothing worse behind than some annotated
// fibers in a tree nobody has observed yet. Hosts re-arm the next tick
// unconditionally, a later SetState is picked up either way.
func (e *Engine) Tick(d Deadline) (idle bool, err error) {
	for e.nextUnit != nil && d.TimeRemaining() > 0 {
		e.nextUnit, err = e.performUnitOfWork(e.nextUnit)
		if err != nil {
			e.abortPass()
			e.report(err)
			return true, err
		}
	}

	if e.nextUnit == nil && e.wip != nil {
		e.phase = phaseCommitPending
		if err := e.commitRoot(); err != nil {
			e.report(err)
			// the pass stays pending: a later tick retries the commit,
			// or a new Render/SetState supersedes it
			return false, err
		}
	}

	if e.nextUnit == nil {
		e.phase = phaseIdle
		return true, nil
	}
	return false, nil
}

// abortPass scraps the in-flight pass wholesale. Safe because nothing
// from an uncommitted pass has been observed externally.
func (e *Engine) abortPass() {
	e.wip = nil
	e.nextUnit = nil
	e.deletions = e.deletions[:0]
	e.wipFiber = nil
	e.phase = phaseIdle
}

// performUnitOfWork processes one fiber and picks the next: first child
// if any, otherwise the first sibling found walking up the parent chain.
// Returning nil, nil means the pass has no work left.
func (e *Engine) performUnitOfWork(f *fiber) (*fiber, error) {
	if f.kind.IsComponent() {
		if err := e.updateComponent(f); err != nil {
			return nil, err
		}
	} else {
		if err := e.updateHost(f); err != nil {
			return nil, err
		}
	}

	if f.child != nil {
		return f.child, nil
	}
	for n := f; n != nil; n = n.parent {
		if n.sibling != nil {
			return n.sibling, nil
		}
	}
	return nil, nil
}

// updateComponent evaluates the component function with a fresh hook
// cursor and reconciles its single returned child. Hook identity
// violations panic inside UseState with a typed error; the recover here
// turns them into the pass-failing error the caller sees.
func (e *Engine) updateComponent(f *fiber) (err error) {
	e.wipFiber = f
	e.hookIndex = 0
	f.hooks = f.hooks[:0]

	var el *Element
	func() {
		defer func() {
			if r := recover(); r != nil {
				he, ok := r.(*HookError)
				if !ok {
					panic(r)
				}
				err = he
			}
		}()
		el = f.kind.fn(f.props)
	}()
	e.wipFiber = nil
	if err != nil {
		return err
	}

	// fewer hooks than last time is as much a violation as more
	if f.alternate != nil && len(f.hooks) < len(f.alternate.hooks) {
		return &HookError{
			Reason: "component used fewer hooks than on its previous evaluation",
			Index:  len(f.hooks),
		}
	}

	var kids []*Element
	if el != nil {
		kids = []*Element{el}
	}
	e.reconcileChildren(f, kids)
	return nil
}

// updateHost lazily creates the backing output node, then reconciles the
// element's children. Creation happens during the render phase but
// attachment waits for commit, so an interrupted or superseded pass never
// shows a half-built subtree.
func (e *Engine) updateHost(f *fiber) error {
	if f.node == nil {
		n, err := e.backend.CreateNode(f.kind.tag, f.props)
		if err != nil {
			return err
		}
		f.node = n
	}
	e.reconcileChildren(f, f.kids)
	return nil
}

// scheduleUpdate arms a fresh pass diffing against the committed tree.
// An in-flight pass is overwritten, its partial work discarded. Not an
// error, not logged: supersession is how updates-during-render work.
func (e *Engine) scheduleUpdate() {
	if e.current == nil {
		// Nothing committed yet. The update already sits in a hook queue
		// of the pass in flight's predecessor cells and will fold on the
		// next evaluation; there is no current root to re-seed from.
		return
	}
	e.wip = &fiber{
		node:      e.current.node,
		props:     e.current.props,
		kids:      e.current.kids,
		alternate: e.current,
	}
	e.deletions = e.deletions[:0]
	e.nextUnit = e.wip
	e.phase = phaseWorking
}
