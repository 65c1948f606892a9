package saslclient

import (
	"fmt"

	"github.com/emersion/go-saslclient/internal/wire"
)

// LOGIN, the pre-standard two-prompt mechanism still advertised by many
// SMTP and IMAP servers. The prompt contents are ignored: the username and
// password are sent in order regardless of what the server asks.
type loginMechanism struct {
	user, pass string
	step       int
}

func (m *loginMechanism) Next(challenge string) (string, error) {
	defer func() { m.step++ }()
	switch m.step {
	case 0:
		return wire.EncodeString(m.user), nil
	case 1:
		return wire.EncodeString(m.pass), nil
	default:
		return "", fmt.Errorf("%w: LOGIN produces two responses", ErrTooManySteps)
	}
}

func init() {
	Register(&MechanismDef{
		Name:        "LOGIN",
		ClientFirst: false,
		Valid: func(c *Credentials) bool {
			return c.Username != "" && c.Password != ""
		},
		New: func(_, _ string, c *Credentials, _ CryptoProvider) (Mechanism, error) {
			return &loginMechanism{
				user: SASLprep(c.Username),
				pass: SASLprep(c.Password),
			}, nil
		},
	})
}
