package uge

// StateClass partitions the scheduler's state tags into the four
// lifecycle phases live output can report. Every tag maps into exactly
// one class; deleted tags share the error class because both describe
// tasks that will never finish normally.
type StateClass int

const (
	StateUnknown StateClass = iota
	StatePending
	StateRunning
	StateSuspended
	StateError
)

func (c StateClass) String() string {
	switch c {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var stateClasses = buildStateClasses()

func buildStateClasses() map[string]StateClass {
	m := make(map[string]StateClass)
	for _, tag := range TagsPending {
		m[tag] = StatePending
	}
	for _, tag := range TagsRunning {
		m[tag] = StateRunning
	}
	for _, tag := range TagsSuspended {
		m[tag] = StateSuspended
	}
	for _, tag := range TagsError {
		m[tag] = StateError
	}
	for _, tag := range TagsDeleted {
		m[tag] = StateError
	}
	return m
}

// ClassifyState resolves a state tag via exact lookup.
// The second return value is false for tags missing from the tables.
func ClassifyState(tag string) (StateClass, bool) {
	class, ok := stateClasses[tag]
	if !ok {
		return StateUnknown, false
	}
	return class, true
}
