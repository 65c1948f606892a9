package saslclient

import (
	"fmt"

	"github.com/emersion/go-saslclient/internal/wire"
)

// PLAIN, RFC 4616.
type plainMechanism struct {
	user, pass string
	step       int
}

func (m *plainMechanism) Next(challenge string) (string, error) {
	defer func() { m.step++ }()
	switch m.step {
	case 0:
		return wire.EncodeString("\x00" + m.user + "\x00" + m.pass), nil
	default:
		return "", fmt.Errorf("%w: PLAIN produces a single response", ErrTooManySteps)
	}
}

func init() {
	Register(&MechanismDef{
		Name:        "PLAIN",
		ClientFirst: true,
		Valid: func(c *Credentials) bool {
			return c.Username != "" && c.Password != ""
		},
		New: func(_, _ string, c *Credentials, _ CryptoProvider) (Mechanism, error) {
			return &plainMechanism{
				user: SASLprep(c.Username),
				pass: SASLprep(c.Password),
			}, nil
		},
	})
}
