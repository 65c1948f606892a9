package saslclient

import (
	"fmt"

	"github.com/emersion/go-saslclient/internal/wire"
)

// XOAUTH2, as described in the Google and Microsoft OAuth integration
// guides. On failure the server sends a JSON status blob as an extra
// challenge; the client must answer it with an empty response so the server
// can finish the failure turn.
type xoauth2Mechanism struct {
	user, token string
	serverError string
	step        int
}

func (m *xoauth2Mechanism) Next(challenge string) (string, error) {
	defer func() { m.step++ }()
	switch m.step {
	case 0:
		return wire.EncodeString("user=" + m.user + "\x01auth=Bearer " + m.token + "\x01\x01"), nil
	case 1:
		blob, err := wire.DecodeString(challenge)
		if err != nil {
			return "", err
		}
		m.serverError = blob
		return "", nil
	default:
		return "", fmt.Errorf("%w: XOAUTH2 produces at most two responses", ErrTooManySteps)
	}
}

func (m *xoauth2Mechanism) lastServerError() string {
	return m.serverError
}

func init() {
	Register(&MechanismDef{
		Name:        "XOAUTH2",
		ClientFirst: true,
		Valid: func(c *Credentials) bool {
			return c.Username != "" && c.Bearer != ""
		},
		New: func(_, _ string, c *Credentials, _ CryptoProvider) (Mechanism, error) {
			return &xoauth2Mechanism{
				user:  SASLprep(c.Username),
				token: c.Bearer,
			}, nil
		},
	})
}
