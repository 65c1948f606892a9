// Package wire converts between the byte-oriented SASL payloads and the
// base64 tokens exchanged with the host protocol.
package wire

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a token is not valid RFC 4648 base64.
var ErrMalformed = errors.New("saslclient: malformed base64 input")

// Encode returns the standard base64 form of b. An empty payload encodes to
// the empty string.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode decodes a standard base64 token.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return b, nil
}

// EncodeString encodes the UTF-8 bytes of s.
func EncodeString(s string) string {
	return Encode([]byte(s))
}

// DecodeString decodes a base64 token into a UTF-8 string.
func DecodeString(s string) (string, error) {
	b, err := Decode(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
