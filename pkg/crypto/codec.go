package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode is returned when a value cannot be decrypted with the configured
// key, algorithm and IV.
var ErrDecode = errors.New("crypto: malformed ciphertext")

// Ciphertext is the hex encoded, at-rest form of an encrypted field. Keeping
// it a distinct type means a plaintext string can never be stored where a
// ciphertext is expected, which rules out double encryption at compile time.
type Ciphertext string

// Codec encrypts and decrypts text fields deterministically: the same
// plaintext always produces the same ciphertext. This is intentional so that
// encrypted columns (users.phone) can carry a unique index and be looked up by
// equality, at the cost of revealing which rows share a value.
type Codec struct {
	block cipher.Block
	iv    []byte
}

// keySizes maps supported algorithm names to their key length in bytes.
var keySizes = map[string]int{
	"aes-128-cbc": 16,
	"aes-192-cbc": 24,
	"aes-256-cbc": 32,
}

// NewCodec builds a Codec from the algorithm name, raw key and initialization
// vector. The key and IV are taken as raw strings, the same way they are
// placed in configuration.
func NewCodec(algorithm, key, iv string) (*Codec, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))

	size, ok := keySizes[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported cipher algorithm %q", algorithm)
	}
	if len(key) != size {
		return nil, fmt.Errorf("%s needs a %d byte key, got %d bytes", algorithm, size, len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("initialization vector must be %d bytes, got %d bytes", aes.BlockSize, len(iv))
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("create cipher block: %w", err)
	}

	return &Codec{
		block: block,
		iv:    []byte(iv),
	}, nil
}

// Encrypt returns the hex encoded ciphertext of plaintext.
func (c *Codec) Encrypt(plaintext string) Ciphertext {
	padded := pad([]byte(plaintext), aes.BlockSize)

	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)

	return Ciphertext(hex.EncodeToString(out))
}

// Decrypt reverses Encrypt. Any input that was not produced by Encrypt with
// the same configuration fails with an error wrapping ErrDecode.
func (c *Codec) Decrypt(value Ciphertext) (string, error) {
	raw, err := hex.DecodeString(string(value))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: length %d is not a multiple of the block size", ErrDecode, len(raw))
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)

	plain, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(plain), nil
}

func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecode)
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecode)
		}
	}
	return b[:len(b)-n], nil
}
