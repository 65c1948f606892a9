package saslclient

import (
	"fmt"

	"github.com/emersion/go-saslclient/internal/wire"
)

// OAUTHBEARER, RFC 7628. The initial response carries a gs2 header naming
// the authorization identity plus host and token key/value pairs. A failure
// comes back as a JSON challenge which the client acknowledges with a single
// %x01 byte (RFC 7628 section 3.2.3).
type oauthbearerMechanism struct {
	user, token string
	host        string
	serverError string
	step        int
}

func (m *oauthbearerMechanism) Next(challenge string) (string, error) {
	defer func() { m.step++ }()
	switch m.step {
	case 0:
		resp := "n,a=" + escapeSASLName(m.user) + "," +
			"\x01host=" + m.host +
			"\x01auth=Bearer " + m.token +
			"\x01\x01"
		return wire.EncodeString(resp), nil
	case 1:
		blob, err := wire.DecodeString(challenge)
		if err != nil {
			return "", err
		}
		m.serverError = blob
		return wire.EncodeString("\x01"), nil
	default:
		return "", fmt.Errorf("%w: OAUTHBEARER produces at most two responses", ErrTooManySteps)
	}
}

func (m *oauthbearerMechanism) lastServerError() string {
	return m.serverError
}

func init() {
	Register(&MechanismDef{
		Name:        "OAUTHBEARER",
		ClientFirst: true,
		Valid: func(c *Credentials) bool {
			return c.Username != "" && c.Bearer != ""
		},
		New: func(_, host string, c *Credentials, _ CryptoProvider) (Mechanism, error) {
			return &oauthbearerMechanism{
				user:  SASLprep(c.Username),
				token: c.Bearer,
				host:  host,
			}, nil
		},
	})
}
