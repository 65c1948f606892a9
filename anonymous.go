package saslclient

import (
	"fmt"

	"github.com/emersion/go-saslclient/internal/wire"
)

// ANONYMOUS, RFC 4505. The single response is an optional trace token; it is
// not SASLprep'd, it names no account. The mechanism never appears in a
// default priority list, it is only tried when requested explicitly through
// Credentials.Mechanisms.
type anonymousMechanism struct {
	trace string
	step  int
}

func (m *anonymousMechanism) Next(challenge string) (string, error) {
	defer func() { m.step++ }()
	switch m.step {
	case 0:
		return wire.EncodeString(m.trace), nil
	default:
		return "", fmt.Errorf("%w: ANONYMOUS produces a single response", ErrTooManySteps)
	}
}

func init() {
	Register(&MechanismDef{
		Name:        "ANONYMOUS",
		ClientFirst: true,
		New: func(_, _ string, c *Credentials, _ CryptoProvider) (Mechanism, error) {
			return &anonymousMechanism{trace: c.Username}, nil
		},
	})
}
