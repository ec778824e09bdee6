package recommend

// State is the page's request lifecycle state.
type State int

const (
	Idle State = iota
	Loading
	ResultsShown
	ErrorShown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case ResultsShown:
		return "results_shown"
	case ErrorShown:
		return "error_shown"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrorKind says where a failure came from.
type ErrorKind string

const (
	ErrorKindNone       ErrorKind = ""
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindBackend    ErrorKind = "backend"
	ErrorKindTransport  ErrorKind = "transport"
	ErrorKindRateLimit  ErrorKind = "rate_limit"
)

// Transition is published to observers on every state change.
type Transition struct {
	SessionID  string
	Generation uint64
	To         State
	Kind       ErrorKind
}

// Observer receives transitions. Implementations must not block.
type Observer interface {
	Transition(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

func (f ObserverFunc) Transition(t Transition) { f(t) }
