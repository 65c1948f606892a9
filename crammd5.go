package saslclient

import (
	"encoding/hex"
	"fmt"

	"github.com/emersion/go-saslclient/internal/wire"
)

// CRAM-MD5, RFC 2195. The server challenge is a message-id style nonce; the
// response is the username followed by the lowercase hex HMAC-MD5 of the
// challenge keyed with the password.
type cramMD5Mechanism struct {
	user, pass string
	provider   CryptoProvider
	step       int
}

func (m *cramMD5Mechanism) Next(challenge string) (string, error) {
	defer func() { m.step++ }()
	switch m.step {
	case 0:
		data, err := wire.Decode(challenge)
		if err != nil {
			return "", err
		}
		mac, err := m.provider.HMAC(HashMD5, []byte(m.pass), data)
		if err != nil {
			return "", err
		}
		return wire.EncodeString(m.user + " " + hex.EncodeToString(mac)), nil
	default:
		return "", fmt.Errorf("%w: CRAM-MD5 produces a single response", ErrTooManySteps)
	}
}

func init() {
	Register(&MechanismDef{
		Name:        "CRAM-MD5",
		ClientFirst: false,
		Valid: func(c *Credentials) bool {
			return c.Username != "" && c.Password != ""
		},
		New: func(_, _ string, c *Credentials, p CryptoProvider) (Mechanism, error) {
			return &cramMD5Mechanism{
				user:     SASLprep(c.Username),
				pass:     SASLprep(c.Password),
				provider: p,
			}, nil
		},
	})
}
