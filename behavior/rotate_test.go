package behavior_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/plus3/stagehand/behavior"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateToAngleScenario(t *testing.T) {
	rot, err := behavior.NewRotateToAngle(90, 15)
	require.NoError(t, err)

	actor := &testActor{}
	rot.Attach(actor)
	assert.Equal(t, behavior.Attached, rot.State())

	var results []bool
	for range 6 {
		results = append(results, rot.Update())
	}

	assert.Equal(t, []float64{15, 30, 45, 60, 75, 90}, actor.rotationWrites)
	assert.Equal(t, []bool{false, false, false, false, false, true}, results)
	assert.Equal(t, 90.0, actor.rot)
	assert.Equal(t, behavior.Completed, rot.State())
}

func TestRotateToAngleExactArrival(t *testing.T) {
	tests := []struct {
		start, target, speed float64
	}{
		{0, 90, 15},
		{0, 90, 7},
		{10, 100, 4},
		{-45, 45, 10},
		{30, 31, 5},
		{0, 360, 1},
		{12, 12, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("start=%v,target=%v,speed=%v", tt.start, tt.target, tt.speed), func(t *testing.T) {
			rot, err := behavior.NewRotateToAngle(tt.target, tt.speed)
			require.NoError(t, err)

			actor := &testActor{rot: tt.start}
			rot.Attach(actor)

			ticks := 0
			for {
				ticks++
				require.LessOrEqual(t, ticks, 1000, "rotation never completed")
				done := rot.Update()
				assert.LessOrEqual(t, actor.rot, tt.target, "overshoot on tick %d", ticks)
				if done {
					break
				}
			}

			assert.Equal(t, tt.target, actor.rot)
			want := int(math.Ceil((tt.target - tt.start) / tt.speed))
			if want == 0 {
				want = 1
			}
			assert.Equal(t, want, ticks)
		})
	}
}

func TestRotateToAngleEqualStartCompletesFirstTick(t *testing.T) {
	rot, err := behavior.NewRotateToAngle(45, 5)
	require.NoError(t, err)

	actor := &testActor{rot: 45}
	rot.Attach(actor)

	assert.True(t, rot.Update())
	assert.Equal(t, 45.0, actor.rot)
}

func TestRotateToAngleBackwards(t *testing.T) {
	rot, err := behavior.NewRotateToAngle(-30, 10)
	require.NoError(t, err)

	actor := &testActor{rot: 0}
	rot.Attach(actor)

	for !rot.Update() {
	}

	assert.Equal(t, []float64{-10, -20, -30}, actor.rotationWrites)
}

func TestRotateToAngleInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		target, speed float64
	}{
		{"zero speed", 90, 0},
		{"negative speed", 90, -1},
		{"nan speed", 90, math.NaN()},
		{"infinite speed", 90, math.Inf(1)},
		{"nan target", math.NaN(), 1},
		{"infinite target", math.Inf(-1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rot, err := behavior.NewRotateToAngle(tt.target, tt.speed)
			assert.Nil(t, rot)
			assert.ErrorIs(t, err, behavior.ErrInvalidConfiguration)
		})
	}
}

func TestRotateToAngleContractViolations(t *testing.T) {
	t.Run("update before attach", func(t *testing.T) {
		rot, err := behavior.NewRotateToAngle(90, 15)
		require.NoError(t, err)
		assert.PanicsWithValue(t, behavior.ErrNotAttached, func() { rot.Update() })
	})

	t.Run("update after completion", func(t *testing.T) {
		rot, err := behavior.NewRotateToAngle(10, 15)
		require.NoError(t, err)

		actor := &testActor{}
		rot.Attach(actor)
		require.True(t, rot.Update())

		assert.PanicsWithValue(t, behavior.ErrCompleted, func() { rot.Update() })
		assert.Equal(t, 10.0, actor.rot)
		assert.Len(t, actor.rotationWrites, 1)
	})

	t.Run("attach twice", func(t *testing.T) {
		rot, err := behavior.NewRotateToAngle(90, 15)
		require.NoError(t, err)

		rot.Attach(&testActor{})
		assert.PanicsWithValue(t, behavior.ErrAlreadyAttached, func() { rot.Attach(&testActor{}) })
	})
}

func ExampleRotateToAngle() {
	rot, _ := behavior.NewRotateToAngle(90, 15)

	actor := &testActor{}
	rot.Attach(actor)

	for tick := 1; ; tick++ {
		done := rot.Update()
		fmt.Printf("tick %d: %.0f\n", tick, actor.Rotation())
		if done {
			break
		}
	}
	rot.Detach()

	// Output:
	// tick 1: 15
	// tick 2: 30
	// tick 3: 45
	// tick 4: 60
	// tick 5: 75
	// tick 6: 90
}
