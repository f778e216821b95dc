package behavior_test

import (
	"testing"

	"github.com/plus3/stagehand/behavior"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	t.Run("children take baseline from previous child", func(t *testing.T) {
		first, err := behavior.NewMoveAlongHeading(0, 10, 5)
		require.NoError(t, err)
		second, err := behavior.NewMoveAlongHeading(90, 10, 5)
		require.NoError(t, err)

		seq, err := behavior.NewSequence(first, second)
		require.NoError(t, err)

		actor := &testActor{}
		seq.Attach(actor)

		ticks := 1
		for !seq.Update() {
			ticks++
			require.Less(t, ticks, 100)
		}

		assert.Equal(t, 4, ticks)
		assert.InDelta(t, 10.0, second.Target().X(), epsilon)
		assert.InDelta(t, 10.0, actor.pos.X(), epsilon)
		assert.InDelta(t, 10.0, actor.pos.Y(), epsilon)
		assert.True(t, first.Detached())
		assert.True(t, second.Detached())
		assert.Equal(t, behavior.Completed, seq.State())
	})

	t.Run("rotate then move", func(t *testing.T) {
		rot, err := behavior.NewRotateToAngle(30, 15)
		require.NoError(t, err)
		move, err := behavior.NewMoveAlongHeading(30, 5, 5)
		require.NoError(t, err)

		seq, err := behavior.NewSequence(rot, move)
		require.NoError(t, err)
		assert.Equal(t, behavior.FieldPosition|behavior.FieldRotation, seq.Claims())

		actor := &testActor{}
		seq.Attach(actor)

		assert.False(t, seq.Update())
		assert.Equal(t, 0, seq.Current())
		assert.False(t, seq.Update())
		assert.Equal(t, 1, seq.Current())
		assert.Equal(t, behavior.Attached, move.State())
		assert.True(t, seq.Update())

		assert.Equal(t, 30.0, actor.rot)
		assert.Equal(t, move.Target(), actor.pos)
	})

	t.Run("second child not attached until current", func(t *testing.T) {
		first, err := behavior.NewRotateToAngle(90, 1)
		require.NoError(t, err)
		second, err := behavior.NewRotateToAngle(180, 1)
		require.NoError(t, err)

		seq, err := behavior.NewSequence(first, second)
		require.NoError(t, err)
		seq.Attach(&testActor{})

		assert.Equal(t, behavior.Attached, first.State())
		assert.Equal(t, behavior.Uninitialized, second.State())
	})

	t.Run("invalid configuration", func(t *testing.T) {
		_, err := behavior.NewSequence()
		assert.ErrorIs(t, err, behavior.ErrInvalidConfiguration)

		rot, err := behavior.NewRotateToAngle(90, 1)
		require.NoError(t, err)
		_, err = behavior.NewSequence(rot, nil)
		assert.ErrorIs(t, err, behavior.ErrInvalidConfiguration)
	})

	t.Run("same instance twice", func(t *testing.T) {
		rot, err := behavior.NewRotateToAngle(90, 1)
		require.NoError(t, err)
		move, err := behavior.NewMoveAlongHeading(0, 10, 5)
		require.NoError(t, err)

		_, err = behavior.NewSequence(rot, move, rot)
		assert.ErrorIs(t, err, behavior.ErrInvalidConfiguration)
		assert.ErrorContains(t, err, "behaviors 0 and 2")

		other, err := behavior.NewRotateToAngle(90, 1)
		require.NoError(t, err)
		_, err = behavior.NewSequence(rot, other)
		assert.NoError(t, err)
	})

	t.Run("update after completion panics", func(t *testing.T) {
		rot, err := behavior.NewRotateToAngle(1, 5)
		require.NoError(t, err)
		seq, err := behavior.NewSequence(rot)
		require.NoError(t, err)

		seq.Attach(&testActor{})
		require.True(t, seq.Update())
		assert.PanicsWithValue(t, behavior.ErrCompleted, func() { seq.Update() })
	})
}

func TestFieldClaims(t *testing.T) {
	rot, err := behavior.NewRotateToAngle(90, 1)
	require.NoError(t, err)
	move, err := behavior.NewMoveAlongHeading(0, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, behavior.FieldRotation, behavior.ClaimsOf(rot))
	assert.Equal(t, behavior.FieldPosition, behavior.ClaimsOf(move))
	assert.False(t, behavior.FieldRotation.Overlaps(behavior.FieldPosition))
	assert.True(t, (behavior.FieldRotation | behavior.FieldPosition).Overlaps(behavior.FieldPosition))
	assert.Equal(t, "position|rotation", (behavior.FieldRotation | behavior.FieldPosition).String())
}
