package saslclient

import (
	"fmt"

	"github.com/emersion/go-saslclient/internal/wire"
)

// EXTERNAL, RFC 4422 appendix A. Authentication is established outside SASL
// (typically a TLS client certificate); the single response is the requested
// authorization identity, empty to act as whatever identity the outer
// channel provides. Like ANONYMOUS it must be selected explicitly.
type externalMechanism struct {
	identity string
	step     int
}

func (m *externalMechanism) Next(challenge string) (string, error) {
	defer func() { m.step++ }()
	switch m.step {
	case 0:
		return wire.EncodeString(m.identity), nil
	default:
		return "", fmt.Errorf("%w: EXTERNAL produces a single response", ErrTooManySteps)
	}
}

func init() {
	Register(&MechanismDef{
		Name:        "EXTERNAL",
		ClientFirst: true,
		New: func(_, _ string, c *Credentials, _ CryptoProvider) (Mechanism, error) {
			return &externalMechanism{identity: c.Username}, nil
		},
	})
}
