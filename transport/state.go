package transport

// State is the lifecycle state of a ConnectionListener.
// States only move forward.
type State int32

const (
	StateCreated State = iota
	StateBound
	StateAccepting
	StateStopping
	StateDisposed
)

var stateTexts = map[State]string{
	StateCreated:   "created",
	StateBound:     "bound",
	StateAccepting: "accepting",
	StateStopping:  "stopping",
	StateDisposed:  "disposed",
}

func (s State) String() string {
	if text, ok := stateTexts[s]; ok {
		return text
	}
	return "unknown"
}
