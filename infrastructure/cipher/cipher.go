// Package cipher implements application.Cipher: the XOR-feedback stream
// cipher of spec.md §4.2, grounded on original_source/src/crypt.c's
// decrypt_bytes/reset_decryption.
package cipher

import "livetiming/application"

const seed uint32 = 0x55555555

type cipher struct {
	key  uint32
	salt uint32
}

// New returns a Cipher reset with key (0 selects plaintext pass-through).
func New(key uint32) application.Cipher {
	c := &cipher{}
	c.Reset(key)
	return c
}

func (c *cipher) Reset(key uint32) {
	c.key = key
	c.salt = seed
}

func (c *cipher) Key() uint32 { return c.key }

func (c *cipher) Salt() uint32 { return c.salt }

// Decrypt implements application.Cipher. With key==0 it is a no-op
// (plaintext mode, spec.md §4.2).
func (c *cipher) Decrypt(b []byte) {
	if c.key == 0 {
		return
	}
	for i := range b {
		var feedback uint32
		if c.salt&1 != 0 {
			feedback = c.key
		}
		c.salt = (c.salt >> 1) ^ feedback
		b[i] ^= byte(c.salt & 0xFF)
	}
}
