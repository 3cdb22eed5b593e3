package application

// Cipher is the XOR-feedback stream cipher of spec.md §4.2: a 32-bit key
// and running 32-bit salt, reset to a fixed seed on every Reset.
type Cipher interface {
	// Reset reseeds the salt to the fixed start value (0x55555555) and
	// installs key as the active key (0 selects plaintext pass-through).
	Reset(key uint32)

	// Decrypt decrypts b in place. Callers validate the result
	// separately (spec.md §4.2's validator depends on packet kind, which
	// the cipher itself has no knowledge of).
	Decrypt(b []byte)

	// Key returns the currently installed key.
	Key() uint32

	// Salt returns the running salt after the most recent Reset/Decrypt,
	// so callers can mirror it onto observable state (StateModel.Salt).
	Salt() uint32
}
