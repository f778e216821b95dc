package behavior

// State is the lifecycle position of a behavior.
type State uint8

const (
	Uninitialized State = iota
	Attached
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Attached:
		return "attached"
	case Running:
		return "running"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// lifecycle is embedded by the built-in behaviors to enforce the attach/update/detach contract.
type lifecycle struct {
	state    State
	detached bool
}

// State returns the current lifecycle state.
func (l *lifecycle) State() State {
	return l.state
}

func (l *lifecycle) attach() {
	if l.state != Uninitialized {
		panic(ErrAlreadyAttached)
	}
	l.state = Attached
}

func (l *lifecycle) beginUpdate() {
	switch l.state {
	case Uninitialized:
		panic(ErrNotAttached)
	case Completed:
		panic(ErrCompleted)
	}
	l.state = Running
}

func (l *lifecycle) complete() {
	l.state = Completed
}

// Detach marks the behavior as released. Extra calls are ignored.
func (l *lifecycle) Detach() {
	l.detached = true
}

// Detached reports whether Detach has been called.
func (l *lifecycle) Detached() bool {
	return l.detached
}
