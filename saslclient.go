// Package saslclient implements the client side of the Simple Authentication
// and Security Layer (SASL), defined in RFC 4422.
//
// The package negotiates an authentication mechanism from a server-advertised
// list and drives the challenge-response exchange one step at a time. All
// tokens crossing the package boundary are base64-encoded strings; the host
// protocol (IMAP, SMTP, XMPP, ...) is responsible for framing them into
// protocol lines.
//
// A typical exchange:
//
//	auth, err := saslclient.NewAuthenticator("imap", "mail.example.org", caps, creds)
//	for {
//		name, clientFirst, ok := auth.TryNextAuth()
//		if !ok {
//			break // no usable mechanism left
//		}
//		// send AUTHENTICATE <name> and pump auth.AuthStep until the
//		// server reports success or failure
//	}
package saslclient

import (
	"errors"

	"github.com/emersion/go-saslclient/internal/wire"
)

// Errors returned while driving an authentication exchange. They are matched
// with errors.Is; most are returned wrapped with additional detail.
var (
	// ErrTooManySteps is returned when AuthStep is called after the current
	// mechanism has produced its final response.
	ErrTooManySteps = errors.New("saslclient: too many steps for mechanism")

	// ErrMalformedServerResponse is returned when a server challenge cannot
	// be parsed by the current mechanism.
	ErrMalformedServerResponse = errors.New("saslclient: malformed server response")

	// ErrServerVerification is returned when the server fails to prove
	// knowledge of the shared credentials (SCRAM server signature mismatch).
	ErrServerVerification = errors.New("saslclient: server verification failed")

	// ErrMalformedInput is returned when a server challenge is not valid
	// base64.
	ErrMalformedInput = wire.ErrMalformed

	// ErrCrypto is returned when the CryptoProvider rejects or fails an
	// operation.
	ErrCrypto = errors.New("saslclient: crypto operation failed")

	// ErrNoMechanism is returned by AuthStep when no mechanism is live,
	// either because TryNextAuth has not been called or because the previous
	// step failed.
	ErrNoMechanism = errors.New("saslclient: no authentication mechanism selected")
)

// Credentials configures an Authenticator. The zero value carries no
// credentials at all, which leaves no mechanism usable.
//
// Credentials are read-only once handed to an Authenticator.
type Credentials struct {
	// Username is the authentication identity.
	Username string
	// Password is the shared secret for PLAIN, LOGIN, CRAM-MD5 and SCRAM.
	Password string
	// Bearer is an OAuth 2.0 bearer token for XOAUTH2 and OAUTHBEARER.
	Bearer string

	// Mechanisms is an explicit mechanism priority list, tried in order.
	// When set, it replaces the default priority entirely. Mutually
	// exclusive with EncryptedOnly.
	Mechanisms []string
	// EncryptedOnly restricts negotiation to challenge-response mechanisms
	// that never transmit the password (the SCRAM family, then CRAM-MD5).
	EncryptedOnly bool

	// RequireFQDN makes NewAuthenticator reject hostnames that are not
	// fully qualified (contain no dot).
	RequireFQDN bool

	// Provider supplies the cryptographic primitives. Nil selects
	// DefaultProvider.
	Provider CryptoProvider
}

// Mechanism is a single authentication attempt in progress.
//
// Next is positional: the n-th call carries the n-th server challenge, and
// the 0th challenge is the empty string for client-first mechanisms. Both
// challenge and response are base64-encoded; the empty string stands for
// "no data". Once a mechanism has produced its final response, any further
// call fails with ErrTooManySteps.
type Mechanism interface {
	Next(challenge string) (response string, err error)
}

// serverErrorReporter is implemented by mechanisms that receive an
// out-of-band failure payload from the server (XOAUTH2, OAUTHBEARER).
type serverErrorReporter interface {
	lastServerError() string
}
