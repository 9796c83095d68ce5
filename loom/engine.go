package loom

import "errors"

// OnErrorFunc observes errors the engine surfaces from Tick: hook
// identity violations and mid-commit backend failures. Pass supersession
// is expected control flow and is never reported through this.
type OnErrorFunc func(err error)

// Engine holds every piece of formerly-global renderer state for one
// output tree: the committed root, the work-in-progress root, the resume
// point of the cooperative loop, the pass-wide deletions list and the
// hook cursor. Single goroutine only, the engine never locks.
type Engine struct {
	backend Backend
	onError OnErrorFunc

	phase     phase
	current   *fiber // last fully committed tree, read-only during a pass
	wip       *fiber // work-in-progress root of the in-flight pass, nil when idle
	nextUnit  *fiber // resume point; suspension is data, not call-stack state
	deletions []*fiber

	// component evaluation state, live only inside performUnitOfWork
	wipFiber  *fiber
	hookIndex int
}

type Option func(*Engine)

// WithOnError installs an error observer. Errors are returned from Tick
// either way, the callback is for hosts that fire ticks and drop the
// results.
func WithOnError(fn OnErrorFunc) Option {
	return func(e *Engine) {
		e.onError = fn
	}
}

var (
	ErrNilBackend   = errors.New("loom: backend must not be nil")
	ErrNilElement   = errors.New("loom: render needs an element")
	ErrNilContainer = errors.New("loom: render needs a container node")
)

// New creates an engine rendering through the given backend.
func New(backend Backend, opts ...Option) (*Engine, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	e := &Engine{backend: backend}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Render seeds a work-in-progress root targeting container, which is
// treated as a pre-existing output node the engine does not own. The
// actual work happens on subsequent Ticks; any pass already in flight is
// superseded, same as by SetState.
func (e *Engine) Render(el *Element, container Node) error {
	if el == nil {
		return ErrNilElement
	}
	if container == nil {
		return ErrNilContainer
	}

	e.wip = &fiber{
		node:      container,
		kids:      []*Element{el},
		alternate: e.current,
	}
	e.deletions = e.deletions[:0]
	e.nextUnit = e.wip
	e.phase = phaseWorking
	return nil
}

// RunToIdle ticks with an unlimited budget until no work remains,
// including the commit. Convenience for tests and hosts without frame
// deadlines.
func (e *Engine) RunToIdle() error {
	for e.nextUnit != nil || e.wip != nil {
		if _, err := e.Tick(Forever); err != nil {
			return err
		}
	}
	return nil
}

// Idle reports whether neither work nor an uncommitted pass remains.
func (e *Engine) Idle() bool {
	return e.phase == phaseIdle && e.nextUnit == nil && e.wip == nil
}

func (e *Engine) report(err error) {
	if e.onError != nil {
		e.onError(err)
	}
}
