// Package stage hosts actors and drives the behaviors attached to them,
// one fixed simulation tick at a time.
//
// A Stage is single-threaded: it must not be used from more than one goroutine.
// Independent stages can run in parallel.
package stage

import (
	"context"
	"iter"
	"reflect"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/kamstrup/intmap"
	"github.com/pkg/errors"
	"github.com/plus3/stagehand/behavior"
	"go.uber.org/zap"
)

var (
	// ErrUnknownActor is returned when an ActorId does not name a live actor.
	ErrUnknownActor = errors.New("stage: unknown actor")
	// ErrFieldConflict is returned when a behavior would write an actor field
	// that an active behavior already writes.
	ErrFieldConflict = errors.New("stage: field already claimed")
	// ErrInvalidInterval is returned by Run for a non-positive tick interval.
	ErrInvalidInterval = errors.New("stage: tick interval must be positive")
)

// Handle identifies one attached behavior.
type Handle uuid.UUID

func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// CompletionFunc is called after a completed behavior has been detached and removed.
// actor is the actor the behavior was attached to, even if it has since been
// removed from the stage.
type CompletionFunc func(actor *Actor, h Handle, b behavior.Behavior)

type attachment struct {
	handle   Handle
	actor    ActorId
	owner    *Actor
	behavior behavior.Behavior
	claims   behavior.Field
	name     string
	done     bool
	dropped  bool
}

type actorEntry struct {
	actor       *Actor
	attachments []*attachment
	removed     bool
}

// Stage owns actors and their active behaviors.
type Stage struct {
	actors   *intmap.Map[ActorId, *actorEntry]
	order    []ActorId
	handles  map[Handle]*attachment
	nextId   ActorId
	commands commands
	ticking  bool

	logger     *zap.Logger
	onComplete []CompletionFunc
	stats      statsInternal
}

// Option configures a Stage.
type Option func(*Stage)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Stage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCompletionHook registers fn to run whenever a behavior completes.
func WithCompletionHook(fn CompletionFunc) Option {
	return func(s *Stage) {
		s.onComplete = append(s.onComplete, fn)
	}
}

// New creates an empty stage.
func New(opts ...Option) *Stage {
	s := &Stage{
		actors:  intmap.New[ActorId, *actorEntry](64),
		handles: make(map[Handle]*attachment),
		logger:  zap.NewNop(),
		stats:   newStatsInternal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn adds an actor at the given position and rotation (degrees).
func (s *Stage) Spawn(name string, position mgl64.Vec2, rotation float64) *Actor {
	s.nextId++
	actor := &Actor{
		id:       s.nextId,
		name:     name,
		position: position,
		rotation: rotation,
	}
	s.actors.Put(actor.id, &actorEntry{actor: actor})
	s.order = append(s.order, actor.id)

	s.logger.Debug("actor spawned",
		zap.Uint64("actor", uint64(actor.id)),
		zap.String("name", name))
	return actor
}

// Actor returns the live actor with the given id, or nil.
func (s *Stage) Actor(id ActorId) *Actor {
	entry := s.entry(id)
	if entry == nil {
		return nil
	}
	return entry.actor
}

// Actors iterates over live actors in spawn order.
func (s *Stage) Actors() iter.Seq[*Actor] {
	return func(yield func(*Actor) bool) {
		for _, id := range s.order {
			entry := s.entry(id)
			if entry == nil {
				continue
			}
			if !yield(entry.actor) {
				return
			}
		}
	}
}

// Len returns the number of live actors.
func (s *Stage) Len() int {
	n := 0
	for range s.Actors() {
		n++
	}
	return n
}

func (s *Stage) entry(id ActorId) *actorEntry {
	entry, ok := s.actors.Get(id)
	if !ok || entry.removed {
		return nil
	}
	return entry
}

// Attach binds b to the actor and makes it active from the next tick on.
// It fails if the actor is unknown or if b writes a field that another active
// behavior of the same actor already writes.
func (s *Stage) Attach(id ActorId, b behavior.Behavior) (Handle, error) {
	if b == nil {
		panic("cannot attach a nil behavior")
	}

	entry := s.entry(id)
	if entry == nil {
		return Handle{}, errors.Wrapf(ErrUnknownActor, "attach to actor %d", id)
	}

	claims := behavior.ClaimsOf(b)
	if held := entry.claims(); held.Overlaps(claims) {
		return Handle{}, errors.Wrapf(ErrFieldConflict, "actor %d: %s already claimed", id, held&claims)
	}

	a := &attachment{
		handle:   Handle(uuid.New()),
		actor:    id,
		owner:    entry.actor,
		behavior: b,
		claims:   claims,
		name:     behaviorName(b),
	}

	b.Attach(entry.actor)
	entry.attachments = append(entry.attachments, a)
	s.handles[a.handle] = a
	s.stats.attached++

	s.logger.Debug("behavior attached",
		zap.Uint64("actor", uint64(id)),
		zap.String("handle", a.handle.String()),
		zap.String("behavior", a.name))
	return a.handle, nil
}

func (e *actorEntry) claims() behavior.Field {
	var f behavior.Field
	for _, a := range e.attachments {
		if !a.done && !a.dropped {
			f |= a.claims
		}
	}
	return f
}

func behaviorName(b behavior.Behavior) string {
	t := reflect.TypeOf(b)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Behavior returns the behavior behind an active handle.
func (s *Stage) Behavior(h Handle) (behavior.Behavior, bool) {
	a, ok := s.handles[h]
	if !ok {
		return nil, false
	}
	return a.behavior, true
}

// Active returns the handles of the actor's active behaviors in attach order.
func (s *Stage) Active(id ActorId) []Handle {
	entry := s.entry(id)
	if entry == nil {
		return nil
	}
	handles := make([]Handle, 0, len(entry.attachments))
	for _, a := range entry.attachments {
		if !a.done && !a.dropped {
			handles = append(handles, a.handle)
		}
	}
	return handles
}

// Idle reports whether the actor has no active behaviors.
func (s *Stage) Idle(id ActorId) bool {
	return len(s.Active(id)) == 0
}

// Cancel removes an active behavior before it completes. Detach is not called.
// It returns false if the handle is not active.
func (s *Stage) Cancel(h Handle) bool {
	a, ok := s.handles[h]
	if !ok || a.done || a.dropped {
		return false
	}

	a.dropped = true
	if s.ticking {
		s.commands.cancel(a)
	} else {
		s.drop(a)
	}
	return true
}

// Remove deletes an actor together with its behaviors. Detach is not called on them.
// It returns false if the actor is unknown.
func (s *Stage) Remove(id ActorId) bool {
	entry := s.entry(id)
	if entry == nil {
		return false
	}

	entry.removed = true
	if s.ticking {
		s.commands.remove(id)
	} else {
		s.removeNow(id)
	}
	return true
}

// Tick runs one simulation step: every active behavior is updated once, in actor
// spawn order and then attach order. Behaviors that complete are detached and
// removed at the end of the tick.
func (s *Stage) Tick() {
	start := time.Now()

	s.update()
	if !s.commands.empty() {
		s.commands.flush(s)
	}

	s.stats.record(time.Since(start))
}

func (s *Stage) update() {
	s.ticking = true
	defer func() { s.ticking = false }()

	for _, id := range s.order {
		entry := s.entry(id)
		if entry == nil {
			continue
		}
		for _, a := range entry.attachments {
			if a.done || a.dropped || entry.removed {
				continue
			}
			// A behavior cancelled during its own Update stays cancelled.
			if a.behavior.Update() && !a.dropped {
				a.done = true
				s.commands.complete(a)
			}
		}
	}
}

// Run ticks the stage at the given interval until the context is cancelled.
// The interval must be positive.
func (s *Stage) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.Wrapf(ErrInvalidInterval, "run every %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}

// finish detaches a completed behavior and forgets it.
func (s *Stage) finish(a *attachment) {
	a.behavior.Detach()
	s.forget(a)
	s.stats.completed++

	s.logger.Debug("behavior completed",
		zap.Uint64("actor", uint64(a.actor)),
		zap.String("handle", a.handle.String()),
		zap.String("behavior", a.name))

	for _, fn := range s.onComplete {
		fn(a.owner, a.handle, a.behavior)
	}
}

// drop forgets a cancelled behavior without detaching it.
func (s *Stage) drop(a *attachment) {
	s.forget(a)
	s.stats.cancelled++

	s.logger.Debug("behavior cancelled",
		zap.Uint64("actor", uint64(a.actor)),
		zap.String("handle", a.handle.String()),
		zap.String("behavior", a.name))
}

func (s *Stage) forget(a *attachment) {
	delete(s.handles, a.handle)
	if entry, ok := s.actors.Get(a.actor); ok {
		entry.attachments = slices.DeleteFunc(entry.attachments, func(other *attachment) bool {
			return other == a
		})
	}
}

func (s *Stage) removeNow(id ActorId) {
	entry, ok := s.actors.Get(id)
	if !ok {
		return
	}

	for _, a := range entry.attachments {
		if !a.done {
			a.dropped = true
			delete(s.handles, a.handle)
			s.stats.cancelled++
		}
	}
	entry.attachments = nil

	s.actors.Del(id)
	s.order = slices.DeleteFunc(s.order, func(other ActorId) bool {
		return other == id
	})

	s.logger.Debug("actor removed",
		zap.Uint64("actor", uint64(id)),
		zap.String("name", entry.actor.name))
}
