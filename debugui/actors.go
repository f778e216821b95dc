package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plus3/stagehand/behavior"
	"github.com/plus3/stagehand/stage"
)

// ActorInfo is a snapshot of one actor for display.
type ActorInfo struct {
	ID        stage.ActorId
	Name      string
	X, Y      float64
	Rotation  float64
	Behaviors []BehaviorInfo
}

// BehaviorInfo is a snapshot of one active behavior for display.
type BehaviorInfo struct {
	Handle stage.Handle
	Type   string
	State  string
	Claims behavior.Field
}

type stateful interface {
	State() behavior.State
}

// Snapshot collects display information for every live actor, in spawn order.
func Snapshot(s *stage.Stage) []ActorInfo {
	infos := make([]ActorInfo, 0, s.Len())
	for actor := range s.Actors() {
		pos := actor.Position()
		info := ActorInfo{
			ID:       actor.Id(),
			Name:     actor.Name(),
			X:        pos.X(),
			Y:        pos.Y(),
			Rotation: actor.Rotation(),
		}
		for _, h := range s.Active(actor.Id()) {
			b, ok := s.Behavior(h)
			if !ok {
				continue
			}
			info.Behaviors = append(info.Behaviors, describe(h, b))
		}
		infos = append(infos, info)
	}
	return infos
}

func describe(h stage.Handle, b behavior.Behavior) BehaviorInfo {
	info := BehaviorInfo{
		Handle: h,
		Type:   strings.TrimPrefix(fmt.Sprintf("%T", b), "*"),
		State:  "unknown",
		Claims: behavior.ClaimsOf(b),
	}
	if st, ok := b.(stateful); ok {
		info.State = st.State().String()
	}
	return info
}

// FilterActors keeps actors whose id, name or behavior types contain text (case-insensitive).
func FilterActors(actors []ActorInfo, text string) []ActorInfo {
	if text == "" {
		return actors
	}

	needle := strings.ToLower(text)
	filtered := make([]ActorInfo, 0, len(actors))
	for _, a := range actors {
		if strings.Contains(fmt.Sprintf("%d", a.ID), needle) ||
			strings.Contains(strings.ToLower(a.Name), needle) ||
			hasBehaviorType(a, needle) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func hasBehaviorType(a ActorInfo, needle string) bool {
	for _, b := range a.Behaviors {
		if strings.Contains(strings.ToLower(b.Type), needle) {
			return true
		}
	}
	return false
}

// SortActors sorts by column: 0 id, 1 name, 2 behavior count.
func SortActors(actors []ActorInfo, column int, ascending bool) {
	sort.SliceStable(actors, func(i, j int) bool {
		a, b := actors[i], actors[j]
		if !ascending {
			a, b = b, a
		}

		switch column {
		case 1:
			return a.Name < b.Name
		case 2:
			return len(a.Behaviors) < len(b.Behaviors)
		}
		return a.ID < b.ID
	})
}
