package scene_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/stagehand/behavior"
	"github.com/plus3/stagehand/scene"
	"github.com/plus3/stagehand/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const turtleYAML = `
settings:
  tick_rate: 30
  log_level: debug
actors:
  - name: turtle
    x: 10
    y: 20
    behaviors:
      - type: rotate
        params: {target: 90, speed: 15}
      - type: move
        params: {heading: 0, steps: 10, speed: 5}
  - name: walker
    behaviors:
      - type: Sequence
        children:
          - type: move
            params: {heading: 90, steps: 10}
          - type: rotate
            params: {target: 45, speed: 45}
`

const turtleJSON = `{
  "actors": [
    {"name": "turtle", "x": 1, "y": 2, "rotation": 15,
     "behaviors": [{"type": "rotate", "params": {"target": 45, "speed": 15}}]}
  ]
}`

func TestLoadYAML(t *testing.T) {
	sc, err := scene.LoadYAML(strings.NewReader(turtleYAML))
	require.NoError(t, err)

	assert.Equal(t, 30, sc.Settings.TickRate)
	assert.Equal(t, time.Second/30, sc.Settings.TickInterval())
	assert.Equal(t, scene.DefaultWidth, sc.Settings.Width)
	assert.Equal(t, scene.DefaultHeight, sc.Settings.Height)
	assert.Equal(t, "debug", sc.Settings.LogLevel)
	assert.Equal(t, time.Second/30, sc.Settings.TickInterval())

	require.Len(t, sc.Actors, 2)
	assert.Equal(t, "turtle", sc.Actors[0].Name)
	assert.Equal(t, 10.0, sc.Actors[0].X)
	require.Len(t, sc.Actors[1].Behaviors, 1)
	assert.Len(t, sc.Actors[1].Behaviors[0].Children, 2)
}

func TestLoadJSON(t *testing.T) {
	sc, err := scene.LoadJSON(strings.NewReader(turtleJSON))
	require.NoError(t, err)

	assert.Equal(t, scene.DefaultTickRate, sc.Settings.TickRate)
	assert.Equal(t, scene.DefaultLogLevel, sc.Settings.LogLevel)
	require.Len(t, sc.Actors, 1)
	assert.Equal(t, 15.0, sc.Actors[0].Rotation)
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := scene.LoadYAML(strings.NewReader("actors: [\n"))
		assert.Error(t, err)
	})

	t.Run("negative tick rate", func(t *testing.T) {
		_, err := scene.LoadYAML(strings.NewReader("settings: {tick_rate: -1}\n"))
		assert.ErrorContains(t, err, "tick_rate")
	})

	t.Run("tick rate too high for a tick interval", func(t *testing.T) {
		_, err := scene.LoadYAML(strings.NewReader("settings: {tick_rate: 2000000000}\n"))
		assert.ErrorContains(t, err, "tick_rate")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scene.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		_, err := scene.LoadFile(path)
		assert.ErrorContains(t, err, "unsupported extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := scene.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "turtle.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(turtleYAML), 0o644))
	sc, err := scene.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, sc.Actors, 2)

	jsonPath := filepath.Join(dir, "turtle.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(turtleJSON), 0o644))
	sc, err = scene.LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, sc.Actors, 1)
}

func TestPopulate(t *testing.T) {
	sc, err := scene.LoadYAML(strings.NewReader(turtleYAML))
	require.NoError(t, err)

	s := stage.New()
	actors, err := sc.Populate(s, scene.NewRegistry())
	require.NoError(t, err)
	require.Len(t, actors, 2)

	turtle, walker := actors[0], actors[1]
	assert.Equal(t, mgl64.Vec2{10, 20}, turtle.Position())
	assert.Len(t, s.Active(turtle.Id()), 2)
	assert.Len(t, s.Active(walker.Id()), 1)

	for range 20 {
		s.Tick()
	}

	assert.Equal(t, 90.0, turtle.Rotation())
	assert.Equal(t, mgl64.Vec2{20, 20}, turtle.Position())
	assert.Equal(t, 45.0, walker.Rotation())
	assert.InDelta(t, 10.0, walker.Position().Y(), 1e-9)
	assert.True(t, s.Idle(turtle.Id()))
	assert.True(t, s.Idle(walker.Id()))
}

func TestPopulateErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
		msg  string
	}{
		{
			name: "unknown behavior",
			yaml: "actors: [{name: a, behaviors: [{type: fly}]}]",
			is:   scene.ErrUnknownBehavior,
		},
		{
			name: "zero speed",
			yaml: "actors: [{name: a, behaviors: [{type: rotate, params: {target: 90, speed: 0}}]}]",
			is:   behavior.ErrInvalidConfiguration,
		},
		{
			name: "missing param",
			yaml: "actors: [{name: a, behaviors: [{type: rotate, params: {speed: 1}}]}]",
			msg:  `param "target" is required`,
		},
		{
			name: "non numeric param",
			yaml: "actors: [{name: a, behaviors: [{type: move, params: {steps: far}}]}]",
			msg:  "expected a number",
		},
		{
			name: "empty sequence",
			yaml: "actors: [{name: a, behaviors: [{type: sequence}]}]",
			is:   behavior.ErrInvalidConfiguration,
		},
		{
			name: "unknown child",
			yaml: "actors: [{name: a, behaviors: [{type: sequence, children: [{type: fly}]}]}]",
			is:   scene.ErrUnknownBehavior,
		},
		{
			name: "conflicting rotations",
			yaml: "actors: [{name: a, behaviors: [{type: rotate, params: {target: 90, speed: 1}}, {type: rotate, params: {target: 10, speed: 1}}]}]",
			is:   stage.ErrFieldConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := scene.LoadYAML(strings.NewReader(tt.yaml))
			require.NoError(t, err)

			_, err = sc.Populate(stage.New(), scene.NewRegistry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), `actor "a"`)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
		})
	}
}

func TestRegistryCustomBehavior(t *testing.T) {
	reg := scene.NewRegistry()
	reg.Register("Spin", func(spec scene.BehaviorSpec, _ scene.Registry) (behavior.Behavior, error) {
		turns, err := spec.Params.Float("turns", 1)
		if err != nil {
			return nil, err
		}
		return behavior.NewRotateToAngle(360*turns, 90)
	})

	b, err := reg.Build(scene.BehaviorSpec{Type: "spin", Params: scene.Params{"turns": 2}})
	require.NoError(t, err)

	rot, ok := b.(*behavior.RotateToAngle)
	require.True(t, ok)
	assert.Equal(t, 720.0, rot.Target())
}

func TestParams(t *testing.T) {
	p := scene.Params{"a": 1, "b": 2.5, "c": "x", "d": int64(3)}

	v, err := p.Float("a", 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = p.Float("b", 0)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = p.Float("d", 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = p.Float("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = p.Float("c", 0)
	assert.Error(t, err)

	_, err = p.Require("missing")
	assert.Error(t, err)
}
