package crypto

import (
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

const (
	testKey = "0123456789abcdef0123456789abcdef"
	testIV  = "abcdef9876543210"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("aes-256-cbc", testKey, testIV)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestCodecRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	inputs := []string{"", "a", "09121234567", "Ali Rezaei", strings.Repeat("x", 16), strings.Repeat("y", 33), "ناصر"}
	for _, in := range inputs {
		enc := c.Encrypt(in)
		if string(enc) == in {
			t.Errorf("Encrypt(%q) returned plaintext", in)
		}
		out, err := c.Decrypt(enc)
		if err != nil {
			t.Fatalf("Decrypt(Encrypt(%q)): %v", in, err)
		}
		if out != in {
			t.Errorf("round trip: got %q, want %q", out, in)
		}
	}
}

func TestCodecIsDeterministic(t *testing.T) {
	c := newTestCodec(t)
	other := newTestCodec(t)

	if c.Encrypt("09120000000") != other.Encrypt("09120000000") {
		t.Error("same plaintext under same config produced different ciphertexts")
	}
	if c.Encrypt("09120000000") == c.Encrypt("09120000001") {
		t.Error("different plaintexts produced same ciphertext")
	}
}

func TestCodecDecryptMalformed(t *testing.T) {
	c := newTestCodec(t)

	cases := map[string]Ciphertext{
		"not hex":       "zz11",
		"empty":         "",
		"short block":   "00ff",
		"bad padding":   zeroPadded(c),
		"odd hex chars": "abc",
	}
	for name, in := range cases {
		if _, err := c.Decrypt(in); !errors.Is(err, ErrDecode) {
			t.Errorf("%s: expected ErrDecode, got %v", name, err)
		}
	}
}

// zeroPadded encrypts a block whose padding byte is zero, which Encrypt never
// produces.
func zeroPadded(c *Codec) Ciphertext {
	block := make([]byte, 16)
	out := make([]byte, 16)
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, block)
	return Ciphertext(hex.EncodeToString(out))
}

func TestCodecWrongKeyFails(t *testing.T) {
	c := newTestCodec(t)
	other, err := NewCodec("aes-256-cbc", strings.Repeat("k", 32), testIV)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	enc := c.Encrypt("secret phone")
	out, err := other.Decrypt(enc)
	if err == nil && out == "secret phone" {
		t.Fatal("decrypting with another key returned the plaintext")
	}
}

func TestNewCodecValidation(t *testing.T) {
	if _, err := NewCodec("des-cbc", testKey, testIV); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
	if _, err := NewCodec("aes-256-cbc", "short", testIV); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := NewCodec("aes-256-cbc", testKey, "iv"); err == nil {
		t.Error("expected error for short iv")
	}
	if _, err := NewCodec("AES-128-CBC", testKey[:16], testIV); err != nil {
		t.Errorf("aes-128-cbc: %v", err)
	}
}
