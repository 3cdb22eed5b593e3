package application

// ReverserStatus is the KeyReverser's tagged status (spec.md §4.3, §9
// "model its status as a tagged variant").
type ReverserStatus int

const (
	ReverserStart ReverserStatus = iota
	ReverserInProgress
	ReverserSuccess
	ReverserFailure
	ReverserPlaintext
)

// KeyReverser recovers a lost decryption key from known ciphertext by
// known-plaintext cryptanalysis (spec.md §4.3), seeded by the first
// encrypted NOTICE payload after a decryption reset.
type KeyReverser interface {
	// Reset returns the reverser to ReverserStart, discarding any
	// in-progress recovery. Called on SYS_EVENT_ID/SYS_KEY_FRAME.
	Reset()

	// Start consumes the first encrypted NOTICE payload seen since the
	// last Reset. If payload is not 15 bytes (len("Please Wait ...")),
	// it must be literal plaintext starting with "img:" (ReverserPlaintext)
	// or the reverser fails outright. Otherwise it runs the strict,
	// known-plaintext phase of spec.md §4.3 against the fixed phrase and
	// leaves status InProgress (or Failure) for subsequent Feed calls.
	Start(payload []byte) error

	// Feed consumes one further byte of known ciphertext from the live
	// stream (non-strict phase) and advances the recovery state machine.
	// Must not be called once Status returns a terminal status (Success,
	// Failure, Plaintext).
	Feed(ciphertext byte) error

	Status() ReverserStatus

	// Key returns the recovered key; valid only once Status() ==
	// ReverserSuccess.
	Key() uint32
}
