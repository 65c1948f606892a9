package saslclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emersion/go-saslclient"
	"github.com/emersion/go-saslclient/internal/wire"
)

func TestNewAuthenticatorValidation(t *testing.T) {
	supported := []string{"PLAIN"}

	_, err := saslclient.NewAuthenticator("", "mail.example.org", supported, nil)
	assert.Error(t, err, "empty service")

	_, err = saslclient.NewAuthenticator("imap", "", supported, nil)
	assert.Error(t, err, "empty hostname")

	_, err = saslclient.NewAuthenticator("imap", "mail.example.org", nil, nil)
	assert.Error(t, err, "empty supported list")

	_, err = saslclient.NewAuthenticator("imap", "mail.example.org", supported, &saslclient.Credentials{
		EncryptedOnly: true,
		Mechanisms:    []string{"PLAIN"},
	})
	assert.Error(t, err, "EncryptedOnly with explicit Mechanisms")
}

func TestNewAuthenticatorRequireFQDN(t *testing.T) {
	creds := &saslclient.Credentials{RequireFQDN: true}

	_, err := saslclient.NewAuthenticator("imap", "localhost", []string{"PLAIN"}, creds)
	assert.Error(t, err)

	_, err = saslclient.NewAuthenticator("imap", "mail.example.org", []string{"PLAIN"}, creds)
	assert.NoError(t, err)
}

// drain collects the mechanism names TryNextAuth hands out until the
// candidate stack is empty.
func drain(a *saslclient.Authenticator) []string {
	var names []string
	for {
		name, _, ok := a.TryNextAuth()
		if !ok {
			return names
		}
		names = append(names, name)
	}
}

func TestTryNextAuthDefaultPriority(t *testing.T) {
	supported := []string{"plain", "login", "cram-md5", "scram-sha-1", "scram-sha-256", "xoauth2"}
	a := mustAuth(t, supported, &saslclient.Credentials{
		Username: "tim",
		Password: "tanstaaftanstaaf",
		Bearer:   "tok",
	})
	require.Equal(t, []string{
		"XOAUTH2", "SCRAM-SHA-256", "SCRAM-SHA-1", "CRAM-MD5", "PLAIN", "LOGIN",
	}, drain(a))

	// A drained authenticator stays drained.
	_, _, ok := a.TryNextAuth()
	assert.False(t, ok)
}

func TestTryNextAuthSkipsInvalidCredentials(t *testing.T) {
	supported := []string{"PLAIN", "XOAUTH2", "SCRAM-SHA-256"}

	// No bearer token: XOAUTH2 drops out even though the server offers it.
	a := mustAuth(t, supported, &saslclient.Credentials{
		Username: "tim",
		Password: "tanstaaftanstaaf",
	})
	require.Equal(t, []string{"SCRAM-SHA-256", "PLAIN"}, drain(a))

	// No credentials at all: nothing is usable.
	a = mustAuth(t, supported, nil)
	require.Empty(t, drain(a))
}

func TestTryNextAuthEncryptedOnly(t *testing.T) {
	supported := []string{"PLAIN", "LOGIN", "CRAM-MD5", "SCRAM-SHA-1", "SCRAM-SHA-512", "XOAUTH2"}
	a := mustAuth(t, supported, &saslclient.Credentials{
		Username:      "tim",
		Password:      "tanstaaftanstaaf",
		Bearer:        "tok",
		EncryptedOnly: true,
	})
	require.Equal(t, []string{"SCRAM-SHA-512", "SCRAM-SHA-1", "CRAM-MD5"}, drain(a))
}

func TestTryNextAuthExplicitList(t *testing.T) {
	supported := []string{"PLAIN", "LOGIN", "CRAM-MD5"}
	a := mustAuth(t, supported, &saslclient.Credentials{
		Username:   "tim",
		Password:   "tanstaaftanstaaf",
		Mechanisms: []string{"login", "X-FANCY", "plain"},
	})
	// Explicit order wins; unsupported and unregistered names are skipped.
	require.Equal(t, []string{"LOGIN", "PLAIN"}, drain(a))
}

func TestTryNextAuthNeverPicksAnonymousByDefault(t *testing.T) {
	supported := []string{"ANONYMOUS", "EXTERNAL", "PLAIN"}
	a := mustAuth(t, supported, &saslclient.Credentials{
		Username: "tim",
		Password: "tanstaaftanstaaf",
	})
	require.Equal(t, []string{"PLAIN"}, drain(a))
}

func TestAuthStepBeforeTryNextAuth(t *testing.T) {
	a := mustAuth(t, []string{"PLAIN"}, &saslclient.Credentials{
		Username: "tim",
		Password: "tanstaaftanstaaf",
	})
	_, err := a.AuthStep("")
	assert.ErrorIs(t, err, saslclient.ErrNoMechanism)
}

func TestFallbackAfterFailedMechanism(t *testing.T) {
	supported := []string{"SCRAM-SHA-256", "PLAIN"}
	a := mustAuth(t, supported, &saslclient.Credentials{
		Username: "tim",
		Password: "tanstaaftanstaaf",
	})

	selectMechanism(t, a, "SCRAM-SHA-256")
	if _, err := a.AuthStep(""); err != nil {
		t.Fatal(err)
	}
	_, err := a.AuthStep(wire.EncodeString("garbage"))
	require.ErrorIs(t, err, saslclient.ErrMalformedServerResponse)

	// The caller aborts the attempt and falls back to the next candidate.
	selectMechanism(t, a, "PLAIN")
	step(t, a, "", "AHRpbQB0YW5zdGFhZnRhbnN0YWFm")
}

func TestRegisterOverride(t *testing.T) {
	saslclient.Register(&saslclient.MechanismDef{
		Name:        "x-token",
		ClientFirst: true,
		Valid: func(c *saslclient.Credentials) bool {
			return c.Bearer != ""
		},
		New: func(_, _ string, c *saslclient.Credentials, _ saslclient.CryptoProvider) (saslclient.Mechanism, error) {
			return tokenMechanism{token: c.Bearer}, nil
		},
	})

	a := mustAuth(t, []string{"X-TOKEN"}, &saslclient.Credentials{
		Bearer:     "s3cret",
		Mechanisms: []string{"X-TOKEN"},
	})
	selectMechanism(t, a, "X-TOKEN")
	step(t, a, "", wire.EncodeString("s3cret"))
}

type tokenMechanism struct {
	token string
}

func (m tokenMechanism) Next(challenge string) (string, error) {
	return wire.EncodeString(m.token), nil
}
