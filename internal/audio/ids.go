package audio

// Instrument IDs for gesture feedback.
const (
	Unlock = "unlock"
	Reject = "reject"
)
