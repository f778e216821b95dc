package behavior

import (
	"reflect"

	"github.com/pkg/errors"
)

// Sequence runs behaviors one after another on the same actor.
// A child is attached only when it becomes current, so it takes its baseline
// from wherever the previous child left the actor.
type Sequence struct {
	lifecycle

	children []Behavior
	current  int
	actor    Actor
}

// NewSequence creates a sequence of at least one behavior. Every child must be a
// distinct instance, since a behavior can only be attached once.
func NewSequence(children ...Behavior) (*Sequence, error) {
	if len(children) == 0 {
		return nil, errors.Wrap(ErrInvalidConfiguration, "sequence: no behaviors")
	}
	seen := make(map[instance]int, len(children))
	for i, child := range children {
		if child == nil {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "sequence: behavior %d is nil", i)
		}
		key, ok := identity(child)
		if !ok {
			continue
		}
		if first, dup := seen[key]; dup {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "sequence: behaviors %d and %d are the same instance", first, i)
		}
		seen[key] = i
	}
	return &Sequence{children: append([]Behavior(nil), children...)}, nil
}

// Len returns the number of behaviors in the sequence.
func (s *Sequence) Len() int { return len(s.children) }

// Current returns the index of the running behavior.
func (s *Sequence) Current() int { return s.current }

// Claims implements Claimer with the union of the children's claims.
func (s *Sequence) Claims() Field {
	var f Field
	for _, child := range s.children {
		f |= ClaimsOf(child)
	}
	return f
}

// Attach binds the sequence and its first behavior to the actor.
func (s *Sequence) Attach(actor Actor) {
	s.attach()
	s.actor = actor
	s.children[0].Attach(actor)
}

// Update advances the current behavior. Once it finishes it is detached and the
// next one is attached; its first update happens on the following tick.
func (s *Sequence) Update() bool {
	s.beginUpdate()

	child := s.children[s.current]
	if !child.Update() {
		return false
	}
	child.Detach()

	if s.current == len(s.children)-1 {
		s.complete()
		return true
	}

	s.current++
	s.children[s.current].Attach(s.actor)
	return false
}

type instance struct {
	typ reflect.Type
	ptr uintptr
}

// identity keys pointer behaviors by address. Value behaviors carry no shared
// state and are never considered duplicates.
func identity(b Behavior) (instance, bool) {
	v := reflect.ValueOf(b)
	if v.Kind() != reflect.Pointer {
		return instance{}, false
	}
	return instance{typ: v.Type(), ptr: v.Pointer()}, true
}
