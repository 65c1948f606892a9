package saslclient

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

// Hash identifies a digest algorithm usable by the authentication
// mechanisms.
type Hash string

const (
	HashMD5    Hash = "MD5"
	HashSHA1   Hash = "SHA-1"
	HashSHA256 Hash = "SHA-256"
	HashSHA384 Hash = "SHA-384"
	HashSHA512 Hash = "SHA-512"
)

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (h Hash) Size() int {
	if f, err := h.newFunc(); err == nil {
		return f().Size()
	}
	return 0
}

func (h Hash) newFunc() (func() hash.Hash, error) {
	switch h {
	case HashMD5:
		return md5.New, nil
	case HashSHA1:
		return sha1.New, nil
	case HashSHA256:
		return sha256.New, nil
	case HashSHA384:
		return sha512.New384, nil
	case HashSHA512:
		return sha512.New, nil
	}
	return nil, fmt.Errorf("%w: unknown hash %q", ErrCrypto, string(h))
}

// CryptoProvider supplies the cryptographic primitives consumed by the
// mechanisms. Implementations must be safe for use from the goroutine
// driving the Authenticator; the mechanisms hold a shared read-only
// reference and never mutate provider state.
//
// All operations fail wrapping ErrCrypto on unknown algorithms or invalid
// lengths.
type CryptoProvider interface {
	// RandomBytes returns n cryptographically secure random bytes.
	RandomBytes(n int) ([]byte, error)
	// Digest returns the hash of data.
	Digest(h Hash, data []byte) ([]byte, error)
	// HMAC returns the keyed MAC of data (RFC 2104).
	HMAC(h Hash, key, data []byte) ([]byte, error)
	// PBKDF2 derives keyLen bytes from password and salt over iter
	// iterations (RFC 8018).
	PBKDF2(h Hash, password, salt []byte, iter, keyLen int) ([]byte, error)
}

// DefaultProvider implements CryptoProvider over the Go standard library and
// golang.org/x/crypto. It is stateless and safe for concurrent use.
var DefaultProvider CryptoProvider = stdProvider{}

type stdProvider struct{}

func (stdProvider) RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: invalid random length %d", ErrCrypto, n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return buf, nil
}

func (stdProvider) Digest(h Hash, data []byte) ([]byte, error) {
	f, err := h.newFunc()
	if err != nil {
		return nil, err
	}
	d := f()
	d.Write(data)
	return d.Sum(nil), nil
}

func (stdProvider) HMAC(h Hash, key, data []byte) ([]byte, error) {
	f, err := h.newFunc()
	if err != nil {
		return nil, err
	}
	mac := hmac.New(f, key)
	mac.Write(data)
	return mac.Sum(nil), nil
}

func (stdProvider) PBKDF2(h Hash, password, salt []byte, iter, keyLen int) ([]byte, error) {
	f, err := h.newFunc()
	if err != nil {
		return nil, err
	}
	if iter <= 0 {
		return nil, fmt.Errorf("%w: invalid iteration count %d", ErrCrypto, iter)
	}
	if keyLen <= 0 {
		return nil, fmt.Errorf("%w: invalid key length %d", ErrCrypto, keyLen)
	}
	return pbkdf2.Key(password, salt, iter, keyLen, f), nil
}
