package loom

import "fmt"

// hookCell is one state slot of a component fiber: the folded state plus
// the queue of updaters SetState appended since the last evaluation.
type hookCell struct {
	state any
	queue []func(any) any
}

// SetState appends an updater to its hook cell's queue and schedules a
// fresh render pass. It never recomputes synchronously: the effect is
// observable only after the next completed pass commits.
type SetState[T any] func(updater func(T) T)

// UseState returns the current state of the next hook cell of the
// component fiber under evaluation, plus its setter.
//
// Callable only while a component fiber is being evaluated, and only in
// the same fixed sequence on every evaluation of that fiber: the index
// is just an incrementing counter reset per evaluation, so a varying
// call order means a cell silently belongs to someone else. Violations
// panic with a *HookError; inside an evaluation the scheduler recovers
// it and fails the pass.
//
// On the first evaluation the cell starts at initial. On re-evaluation
// the cell copies the alternate cell's state, then folds every queued
// updater in enqueue order before the state is handed to the component
// body. The setter closes over the cell of the tree being built now,
// which is exactly the tree that becomes current once this pass commits:
// an update queued from a committed handler always lands in the
// soon-to-be-current cell.
func UseState[T any](e *Engine, initial T) (T, SetState[T]) {
	f := e.wipFiber
	if f == nil {
		panic(&HookError{
			Reason: "UseState called outside a component evaluation",
			Index:  -1,
		})
	}

	index := e.hookIndex
	e.hookIndex++

	var alt *hookCell
	if f.alternate != nil {
		if index >= len(f.alternate.hooks) {
			panic(&HookError{
				Reason: "component used more hooks than on its previous evaluation",
				Index:  index,
			})
		}
		alt = f.alternate.hooks[index]
	}

	cell := &hookCell{}
	if alt != nil {
		cell.state = alt.state
		for _, updater := range alt.queue {
			cell.state = updater(cell.state)
		}
	} else {
		cell.state = initial
	}
	f.hooks = append(f.hooks, cell)

	state, ok := cell.state.(T)
	if !ok {
		panic(&HookError{
			Reason: fmt.Sprintf("state cell holds %T, component asked for %T", cell.state, initial),
			Index:  index,
		})
	}

	setState := func(updater func(T) T) {
		cell.queue = append(cell.queue, func(v any) any {
			t, ok := v.(T)
			if !ok {
				panic(&HookError{
					Reason: fmt.Sprintf("queued updater for %T found state of %T", initial, v),
					Index:  index,
				})
			}
			return updater(t)
		})
		e.scheduleUpdate()
	}
	return state, setState
}
