package keyreverser

import (
	"testing"

	"livetiming/application"
	"livetiming/infrastructure/cipher"
)

func encryptWithKey(key uint32, plain []byte) []byte {
	c := cipher.New(key)
	buf := append([]byte(nil), plain...)
	c.Decrypt(buf)
	return buf
}

func TestKeyReversalRecoversKey(t *testing.T) {
	const key uint32 = 0xCAFEF00D

	plain := append([]byte(nil), startPhrase...)
	// MSB-clear filler bytes standing in for real decrypted traffic.
	for i := 0; i < 32; i++ {
		plain = append(plain, byte(i*7)&0x7F)
	}
	cipherBytes := encryptWithKey(key, plain)

	r := New()
	if err := r.Start(cipherBytes[:len(startPhrase)]); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.Status() == application.ReverserFailure {
		t.Fatalf("Start failed")
	}

	for i := len(startPhrase); i < len(cipherBytes) && r.Status() == application.ReverserInProgress; i++ {
		if err := r.Feed(cipherBytes[i]); err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}

	if r.Status() != application.ReverserSuccess {
		t.Fatalf("status = %v, want Success", r.Status())
	}
	if r.Key() != key {
		t.Fatalf("Key() = %#x, want %#x", r.Key(), key)
	}
}

func TestKeyReversalPlaintextMode(t *testing.T) {
	r := New()
	if err := r.Start([]byte("img:CURRENTLY NO LIVE SESSION")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.Status() != application.ReverserPlaintext {
		t.Fatalf("status = %v, want Plaintext", r.Status())
	}
	if r.Key() != 0 {
		t.Fatalf("Key() = %#x, want 0", r.Key())
	}
}
