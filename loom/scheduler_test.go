package loom_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/weft/loom"
	"github.com/delaneyj/weft/memdom"
)

// unitBudget grants a fixed number of work-loop iterations, then expires.
func unitBudget(units int) loom.Deadline {
	remaining := units
	return loom.DeadlineFunc(func() time.Duration {
		if remaining <= 0 {
			return 0
		}
		remaining--
		return time.Millisecond
	})
}

func bigTree() *loom.Element {
	return loom.El(loom.Tag("col"), nil,
		loom.El(loom.Tag("row"), nil, "a", "b"),
		loom.El(loom.Tag("row"), nil, "c", "d"),
		loom.El(loom.Tag("row"), nil, "e", "f"),
	)
}

func TestTickYieldsBetweenUnitsAndResumes(t *testing.T) {
	doc := memdom.New()
	e, err := loom.New(doc)
	require.NoError(t, err)

	require.NoError(t, e.Render(bigTree(), doc.Body()))

	idle, err := e.Tick(unitBudget(2))
	require.NoError(t, err)
	assert.False(t, idle)

	// nothing committed while the pass is suspended: the backend may have
	// seen node creations but no attachments
	for _, op := range doc.Ops() {
		assert.NotEqual(t, memdom.OpAppend, op.Kind)
		assert.NotEqual(t, memdom.OpRemove, op.Kind)
	}
	assert.Empty(t, doc.Body().Children())

	// resuming across as many ticks as it takes finishes and commits
	for i := 0; i < 100 && !e.Idle(); i++ {
		_, err = e.Tick(unitBudget(1))
		require.NoError(t, err)
	}
	require.True(t, e.Idle())

	col := doc.Body().Find("col")
	require.NotNil(t, col)
	assert.Len(t, col.Children(), 3)
}

func TestTickOnIdleEngineIsHarmless(t *testing.T) {
	doc := memdom.New()
	e, err := loom.New(doc)
	require.NoError(t, err)

	idle, err := e.Tick(loom.Forever)
	require.NoError(t, err)
	assert.True(t, idle)
}

// re-rendering an identical tree yields only positional updates: no
// placements, no deletions, even though nothing changed.
func TestNoopRenderIsUpdateOnly(t *testing.T) {
	doc := memdom.New()
	e, err := loom.New(doc)
	require.NoError(t, err)

	require.NoError(t, e.Render(bigTree(), doc.Body()))
	require.NoError(t, e.RunToIdle())
	doc.ClearOps()

	require.NoError(t, e.Render(bigTree(), doc.Body()))
	require.NoError(t, e.RunToIdle())

	ops := doc.Ops()
	require.NotEmpty(t, ops)
	for _, op := range ops {
		assert.Equal(t, memdom.OpUpdate, op.Kind, "unexpected op %s", op)
	}
}

// a setState while a pass is in flight discards the partial pass and
// re-seeds from the committed root; updates queued from committed
// handlers are not lost.
func TestInFlightPassIsSuperseded(t *testing.T) {
	doc := memdom.New()
	e, err := loom.New(doc)
	require.NoError(t, err)

	var setters []loom.SetState[int]
	comp := func(props loom.Props) *loom.Element {
		v, set := loom.UseState(e, 0)
		setters = append(setters, set)
		return loom.El(loom.Tag("out"), loom.Props{"value": v})
	}

	require.NoError(t, e.Render(loom.El(loom.Func(comp), nil), doc.Body()))
	require.NoError(t, e.RunToIdle())
	require.Len(t, setters, 1)

	// both updates go through the committed tree's setter
	bump := setters[0]
	inc := func(c int) int { return c + 1 }

	bump(inc)

	// advance the armed pass by a single unit (the root), then supersede
	idle, err := e.Tick(unitBudget(1))
	require.NoError(t, err)
	require.False(t, idle)

	bump(inc)
	require.NoError(t, e.RunToIdle())

	assert.Equal(t, 2, doc.Body().Find("out").Attr("value"))
}

func TestRenderSupersedesInFlightRender(t *testing.T) {
	doc := memdom.New()
	e, err := loom.New(doc)
	require.NoError(t, err)

	require.NoError(t, e.Render(loom.El(loom.Tag("div"), nil, "first"), doc.Body()))
	_, err = e.Tick(unitBudget(1))
	require.NoError(t, err)

	require.NoError(t, e.Render(loom.El(loom.Tag("span"), nil, "second"), doc.Body()))
	require.NoError(t, e.RunToIdle())

	// only the second pass was ever committed
	assert.Nil(t, doc.Body().Find("div"))
	span := doc.Body().Find("span")
	require.NotNil(t, span)
	require.Len(t, doc.Body().Children(), 1)
}
