package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Manhattan(t *testing.T) {
	assert.Equal(t, 0, P(0, 0).Manhattan(Origin))
	assert.Equal(t, 4, P(1, 3).Manhattan(Origin))
	assert.Equal(t, 3, P(2, 0).Manhattan(P(3, 2)))
	assert.Equal(t, 6, P(-2, 1).Manhattan(P(1, -2)))
}

func TestPointSet_Includes(t *testing.T) {
	t.Run("when exists", func(t *testing.T) {
		set := NewPointSet(P(1, 2))
		assert.True(t, set.Includes(P(1, 2)))
	})

	t.Run("when not exists", func(t *testing.T) {
		set := NewPointSet()
		assert.False(t, set.Includes(P(1, 2)))
	})

	t.Run("points are copied", func(t *testing.T) {
		in := []Point{P(1, 1), P(2, 2)}
		set := NewPointSet(in...)
		in[0] = P(9, 9)
		assert.Equal(t, []Point{P(1, 1), P(2, 2)}, set.Points())

		out := set.Points()
		out[1] = P(7, 7)
		assert.True(t, set.Includes(P(2, 2)))
	})
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "N", Top.Code())
	assert.Equal(t, "BOTTOM", Bottom.Name())
	assert.True(t, Drop.IsValid())
	assert.False(t, Direction("X").IsValid())
	assert.Equal(t, "EEND", JoinDirections([]Direction{Right, Right, Top, Drop}))
}

func TestNewOutOfGridNotice(t *testing.T) {
	n := NewOutOfGridNotice(P(3, 3))
	assert.Equal(t, PolicySkipOutOfGrid, n.Policy)
	assert.Equal(t, "Out of grid range 3,3", n.Message)
}

func TestMergeHooks(t *testing.T) {
	var calls []string
	a := LifecycleHooks{
		OnPlan: func(context.Context, *PlanEvent) { calls = append(calls, "a.plan") },
	}
	b := LifecycleHooks{
		OnPlan:   func(context.Context, *PlanEvent) { calls = append(calls, "b.plan") },
		OnNotice: func(context.Context, *NoticeEvent) { calls = append(calls, "b.notice") },
	}

	merged := MergeHooks(a, LifecycleHooks{}, b)
	merged.OnPlan(context.Background(), &PlanEvent{})
	merged.OnNotice(context.Background(), &NoticeEvent{})

	assert.Equal(t, []string{"a.plan", "b.plan", "b.notice"}, calls)
	assert.Nil(t, merged.OnEmit)
	assert.Nil(t, merged.OnDeliver)
}

func TestPlanEvent_Targets(t *testing.T) {
	e := &PlanEvent{Stops: []Stop{{Step: 2, Value: P(2, 0)}, {Step: 3, Value: P(1, 3)}}}
	assert.Equal(t, []Point{P(2, 0), P(1, 3)}, e.Targets())
	assert.Empty(t, (&PlanEvent{}).Targets())
}
