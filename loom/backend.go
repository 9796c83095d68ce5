package loom

import "time"

// Node is an opaque handle to a backend output-tree node. The engine only
// ever stores and passes these back, it never looks inside.
type Node any

// Backend is the contract a rendering target implements. The engine calls
// CreateNode during render passes (lazily, see fiber.node) and the other
// three only inside commit.
//
// UpdateNode must diff prev against next itself: apply changed plain
// attributes, reset removed plain attributes to an empty value, and
// attach/detach event handlers (the "on"-prefixed props), detaching
// removed handlers by identity.
type Backend interface {
	CreateNode(tag string, props Props) (Node, error)
	UpdateNode(n Node, prev, next Props) error
	AppendChild(parent, child Node) error
	RemoveChild(parent, child Node) error
}

// Deadline is the host scheduler's time-budget oracle. The work loop
// checks it between units of work and yields once the budget is spent.
type Deadline interface {
	TimeRemaining() time.Duration
}

// DeadlineFunc adapts a plain function to a Deadline.
type DeadlineFunc func() time.Duration

func (f DeadlineFunc) TimeRemaining() time.Duration {
	return f()
}

// Until gives a Deadline that expires at t, the shape hosts with frame
// deadlines want.
func Until(t time.Time) Deadline {
	return DeadlineFunc(func() time.Duration {
		return time.Until(t)
	})
}

type foreverDeadline struct{}

func (foreverDeadline) TimeRemaining() time.Duration {
	return time.Duration(1<<63 - 1)
}

// Forever never expires. Ticking with it runs the pass to completion.
var Forever Deadline = foreverDeadline{}
