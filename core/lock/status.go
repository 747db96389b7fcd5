package lock

// Status is the visual state of one grid point.
type Status int

const (
	StatusNormal Status = iota
	StatusSelected
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusSelected:
		return "selected"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Terminal reports whether s locks the gesture until the next reset.
func (s Status) Terminal() bool { return s == StatusError || s == StatusSuccess }

// State is the phase of the pattern state machine.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateError
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in-progress"
	case StateError:
		return "error"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Terminal reports whether input is frozen until the reset timer fires.
func (s State) Terminal() bool { return s == StateError || s == StateSuccess }
