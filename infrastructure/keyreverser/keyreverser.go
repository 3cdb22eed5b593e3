// Package keyreverser implements application.KeyReverser: the
// known-plaintext key-recovery attack of spec.md §4.3, grounded on
// original_source/src/keyrev.c's reset_reverser/first_character/
// next_character/reverse_key.
//
// The cipher's salt update depends only on the key and the salt's own
// history, never on plaintext or ciphertext (infrastructure/cipher).
// That lets this package recover the key by simulating the salt forward
// from a guessed key (unknown bits held at 0), checking each new byte's
// low 7 bits against what the guess-so-far predicts and its MSB against
// the byte's known plaintext (strict phase) or the MSB-clear invariant
// of real ciphertext (non-strict phase), flipping and replaying the one
// newly-exposed bit whenever the MSB disagrees.
package keyreverser

import (
	"bytes"

	"livetiming/application"
)

const seed uint32 = 0x55555555

// startPhrase is the fixed known plaintext emitted as the first
// encrypted NOTICE after a decryption reset (spec.md §4.3).
var startPhrase = []byte("Please Wait ...")

type reverser struct {
	status    application.ReverserStatus
	keyGuess  uint32
	knownBits int
	salt      uint32
	pos       int
}

// New returns a KeyReverser in ReverserStart.
func New() application.KeyReverser {
	r := &reverser{}
	r.Reset()
	return r
}

func (r *reverser) Reset() {
	r.status = application.ReverserStart
	r.keyGuess = 0
	r.knownBits = 0
	r.salt = seed
	r.pos = 0
}

func (r *reverser) Status() application.ReverserStatus { return r.status }

func (r *reverser) Key() uint32 { return r.keyGuess }

// Start implements application.KeyReverser.
func (r *reverser) Start(payload []byte) error {
	if len(payload) != len(startPhrase) {
		if bytes.HasPrefix(payload, []byte("img:")) {
			r.status = application.ReverserPlaintext
			r.keyGuess = 0
			return nil
		}
		r.status = application.ReverserFailure
		return nil
	}

	// First byte: closed-form solve for the low 8 key bits (keyrev.c's
	// first_character).
	if seed&1 == 0 {
		r.status = application.ReverserFailure
		return nil
	}
	s := seed >> 1
	low := payload[0] ^ startPhrase[0] ^ byte(s&0xFF) ^ byte(r.keyGuess&0xFF)
	r.keyGuess = uint32(low)
	r.knownBits = 8
	r.salt = s ^ r.keyGuess
	r.pos = 1
	r.status = application.ReverserInProgress

	// Remaining bytes of the start phrase: strict, one new bit per byte.
	for i := 1; i < len(startPhrase); i++ {
		known := payload[i] ^ startPhrase[i]
		if !r.step(known) {
			return nil
		}
		if r.status != application.ReverserInProgress {
			return nil
		}
	}
	return nil
}

// Feed implements application.KeyReverser: one further byte of real
// ciphertext, validated only by the MSB-clear property (non-strict
// phase).
func (r *reverser) Feed(ciphertext byte) error {
	if r.status != application.ReverserInProgress {
		return nil
	}
	r.stepNonStrict(ciphertext)
	return nil
}

// step advances the salt by one position, checking the predicted
// keystream byte's low 7 bits and MSB against known (the XOR of this
// byte's real ciphertext and known plaintext), flipping the next unknown
// key bit and replaying on MSB mismatch. Returns false if a failure or
// success terminated the recovery (caller should stop looping).
func (r *reverser) step(known byte) bool {
	last := r.salt & 1
	var fb uint32
	if last != 0 {
		fb = r.keyGuess
	}
	newSalt := (r.salt >> 1) ^ fb
	predicted := byte(newSalt & 0xFF)

	if predicted&0x7F != known&0x7F {
		r.status = application.ReverserFailure
		return false
	}

	if (predicted^known)&0x80 != 0 {
		if !r.flipAndReplay() {
			r.status = application.ReverserFailure
			return false
		}
		newSalt = r.replaySalt(r.pos + 1)
		predicted = byte(newSalt & 0xFF)
		if (predicted^known)&0x80 != 0 {
			r.status = application.ReverserFailure
			return false
		}
	}

	r.salt = newSalt
	r.knownBits++
	r.pos++
	if r.knownBits >= 32 {
		r.status = application.ReverserSuccess
	}
	return true
}

// stepNonStrict is step's counterpart once the start phrase is
// exhausted: the plaintext is not known, only that a correctly decrypted
// byte has its MSB clear.
func (r *reverser) stepNonStrict(cipherByte byte) {
	last := r.salt & 1
	var fb uint32
	if last != 0 {
		fb = r.keyGuess
	}
	newSalt := (r.salt >> 1) ^ fb
	predicted := byte(newSalt & 0xFF)
	decoded := cipherByte ^ predicted

	if decoded&0x80 != 0 {
		if !r.flipAndReplay() {
			r.status = application.ReverserFailure
			return
		}
		newSalt = r.replaySalt(r.pos + 1)
		predicted = byte(newSalt & 0xFF)
		decoded = cipherByte ^ predicted
		if decoded&0x80 != 0 {
			r.status = application.ReverserFailure
			return
		}
	}

	r.salt = newSalt
	r.knownBits++
	r.pos++
	if r.knownBits >= 32 {
		r.status = application.ReverserSuccess
	}
}

// flipAndReplay flips the next unknown bit (position knownBits) of the
// key guess. Returns false if no unknown bit remains to flip.
func (r *reverser) flipAndReplay() bool {
	if r.knownBits >= 32 {
		return false
	}
	r.keyGuess ^= 1 << uint(r.knownBits)
	return true
}

// replaySalt recomputes the salt from the fixed seed through n update
// steps using the current key guess (keyrev.c's replay_reverser).
func (r *reverser) replaySalt(n int) uint32 {
	salt := seed
	for i := 0; i < n; i++ {
		last := salt & 1
		var fb uint32
		if last != 0 {
			fb = r.keyGuess
		}
		salt = (salt >> 1) ^ fb
	}
	return salt
}
