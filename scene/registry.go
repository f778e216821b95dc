package scene

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/plus3/stagehand/behavior"
)

// ErrUnknownBehavior is returned for behavior types with no registered constructor.
var ErrUnknownBehavior = errors.New("scene: unknown behavior type")

// Params holds the parameters of a behavior in a scene file.
type Params map[string]any

// Float returns the numeric parameter key, or def when it is absent.
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, errors.Errorf("param %q: expected a number, got %T", key, v)
}

// Require returns the numeric parameter key and fails when it is absent.
func (p Params) Require(key string) (float64, error) {
	if _, ok := p[key]; !ok {
		return 0, errors.Errorf("param %q is required", key)
	}
	return p.Float(key, math.NaN())
}

// Constructor builds a behavior from its scene description.
// reg is passed along so composite behaviors can build their children.
type Constructor func(spec BehaviorSpec, reg Registry) (behavior.Behavior, error)

// Registry maps behavior type names to constructors. Names are case-insensitive.
type Registry map[string]Constructor

// NewRegistry returns a registry with the built-in behaviors:
// "rotate", "move" and "sequence".
func NewRegistry() Registry {
	reg := Registry{}
	reg.Register("rotate", buildRotate)
	reg.Register("move", buildMove)
	reg.Register("sequence", buildSequence)
	return reg
}

// Register adds or replaces the constructor for name.
func (r Registry) Register(name string, c Constructor) {
	r[strings.ToLower(name)] = c
}

// Build constructs the behavior described by spec.
func (r Registry) Build(spec BehaviorSpec) (behavior.Behavior, error) {
	c, ok := r[strings.ToLower(spec.Type)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBehavior, "type %q", spec.Type)
	}
	b, err := c(spec, r)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s", spec.Type)
	}
	return b, nil
}

func buildRotate(spec BehaviorSpec, _ Registry) (behavior.Behavior, error) {
	target, err := spec.Params.Require("target")
	if err != nil {
		return nil, err
	}
	speed, err := spec.Params.Require("speed")
	if err != nil {
		return nil, err
	}
	b, err := behavior.NewRotateToAngle(target, speed)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func buildMove(spec BehaviorSpec, _ Registry) (behavior.Behavior, error) {
	heading, err := spec.Params.Float("heading", 0)
	if err != nil {
		return nil, err
	}
	steps, err := spec.Params.Require("steps")
	if err != nil {
		return nil, err
	}
	speed, err := spec.Params.Float("speed", behavior.DefaultMoveSpeed)
	if err != nil {
		return nil, err
	}
	b, err := behavior.NewMoveAlongHeading(heading, steps, speed)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func buildSequence(spec BehaviorSpec, reg Registry) (behavior.Behavior, error) {
	children := make([]behavior.Behavior, 0, len(spec.Children))
	for i, cs := range spec.Children {
		child, err := reg.Build(cs)
		if err != nil {
			return nil, errors.Wrapf(err, "child %d", i)
		}
		children = append(children, child)
	}
	b, err := behavior.NewSequence(children...)
	if err != nil {
		return nil, err
	}
	return b, nil
}
