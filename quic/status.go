package quic

// Status is the result a ListenerCallback reports back to the transport.
type Status uint32

const (
	StatusSuccess Status = iota
	StatusPending
	StatusInternalError
	StatusInvalidParameter
	StatusInvalidState
	StatusNotSupported
	StatusAborted
	StatusConnectionRefused
)

var statusTexts = map[Status]string{
	StatusSuccess:           "success",
	StatusPending:           "pending",
	StatusInternalError:     "internal error",
	StatusInvalidParameter:  "invalid parameter",
	StatusInvalidState:      "invalid state",
	StatusNotSupported:      "not supported",
	StatusAborted:           "aborted",
	StatusConnectionRefused: "connection refused",
}

func (s Status) String() string {
	if text, ok := statusTexts[s]; ok {
		return text
	}
	return "unknown status"
}

// Succeeded reports whether the status accepts the event.
func (s Status) Succeeded() bool {
	return s == StatusSuccess || s == StatusPending
}
