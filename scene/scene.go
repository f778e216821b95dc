// Package scene loads declarative scene files describing actors and the
// behaviors they start with, and populates a stage from them.
package scene

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/plus3/stagehand/stage"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTickRate = 60
	DefaultWidth    = 960
	DefaultHeight   = 540
	DefaultLogLevel = "info"
)

// Scene is the root of a scene file.
type Scene struct {
	Settings Settings    `json:"settings" yaml:"settings"`
	Actors   []ActorSpec `json:"actors" yaml:"actors"`
}

// Settings configures the loop and window a scene runs in.
type Settings struct {
	TickRate int    `json:"tick_rate" yaml:"tick_rate"`
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// TickInterval returns the duration of one simulation tick.
func (s Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// ActorSpec describes one actor and its initial behaviors.
type ActorSpec struct {
	Name      string         `json:"name" yaml:"name"`
	X         float64        `json:"x" yaml:"x"`
	Y         float64        `json:"y" yaml:"y"`
	Rotation  float64        `json:"rotation" yaml:"rotation"`
	Behaviors []BehaviorSpec `json:"behaviors,omitempty" yaml:"behaviors,omitempty"`
}

// BehaviorSpec names a registered behavior constructor and its parameters.
type BehaviorSpec struct {
	Type     string         `json:"type" yaml:"type"`
	Params   Params         `json:"params,omitempty" yaml:"params,omitempty"`
	Children []BehaviorSpec `json:"children,omitempty" yaml:"children,omitempty"`
}

// LoadYAML loads a scene from a YAML reader.
func LoadYAML(r io.Reader) (*Scene, error) {
	var sc Scene
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode yaml scene")
	}
	return sc.normalize()
}

// LoadJSON loads a scene from a JSON reader.
func LoadJSON(r io.Reader) (*Scene, error) {
	var sc Scene
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode json scene")
	}
	return sc.normalize()
}

// LoadFile loads a scene, choosing the decoder from the file extension.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scene")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	}
	return nil, errors.Errorf("scene %s: unsupported extension", path)
}

func (sc *Scene) normalize() (*Scene, error) {
	if sc.Settings.TickRate == 0 {
		sc.Settings.TickRate = DefaultTickRate
	}
	if sc.Settings.Width == 0 {
		sc.Settings.Width = DefaultWidth
	}
	if sc.Settings.Height == 0 {
		sc.Settings.Height = DefaultHeight
	}
	if sc.Settings.LogLevel == "" {
		sc.Settings.LogLevel = DefaultLogLevel
	}

	if sc.Settings.TickRate < 0 {
		return nil, errors.Errorf("settings: tick_rate %d must be positive", sc.Settings.TickRate)
	}
	if sc.Settings.TickInterval() <= 0 {
		return nil, errors.Errorf("settings: tick_rate %d is above one tick per nanosecond", sc.Settings.TickRate)
	}
	if sc.Settings.Width < 0 || sc.Settings.Height < 0 {
		return nil, errors.Errorf("settings: size %dx%d must be positive", sc.Settings.Width, sc.Settings.Height)
	}
	return sc, nil
}

// Populate spawns every actor of the scene on s and attaches its behaviors
// through reg. Actors spawned before an error stay on the stage.
func (sc *Scene) Populate(s *stage.Stage, reg Registry) ([]*stage.Actor, error) {
	actors := make([]*stage.Actor, 0, len(sc.Actors))

	for i, spec := range sc.Actors {
		name := spec.Name
		if name == "" {
			name = "actor-" + strconv.Itoa(i+1)
		}

		actor := s.Spawn(name, mgl64.Vec2{spec.X, spec.Y}, spec.Rotation)
		actors = append(actors, actor)

		for j, bs := range spec.Behaviors {
			b, err := reg.Build(bs)
			if err != nil {
				return actors, errors.Wrapf(err, "actor %q behavior %d", name, j)
			}
			if _, err := s.Attach(actor.Id(), b); err != nil {
				return actors, errors.Wrapf(err, "actor %q behavior %d", name, j)
			}
		}
	}

	return actors, nil
}
