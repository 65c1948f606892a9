package saslclient

import (
	"fmt"
	"strings"
)

// encryptedPriority lists the challenge-response mechanisms that never
// transmit the password, strongest hash first.
var encryptedPriority = []string{
	"SCRAM-SHA-512",
	"SCRAM-SHA-384",
	"SCRAM-SHA-256",
	"SCRAM-SHA-1",
	"CRAM-MD5",
}

// defaultPriority is the order used when Credentials request nothing
// specific: bearer-token mechanisms, then the encrypted family, then the
// cleartext fallbacks.
func defaultPriority() []string {
	p := []string{"XOAUTH2", "OAUTHBEARER"}
	p = append(p, encryptedPriority...)
	return append(p, "PLAIN", "LOGIN")
}

// An Authenticator negotiates a SASL mechanism with a server and drives the
// challenge-response exchange. It is single-use per connection attempt and
// must be driven from one goroutine.
type Authenticator struct {
	service string
	host    string
	creds   Credentials

	// candidates holds the usable mechanism names in reverse priority
	// order; the next one to try is at the top.
	candidates []string

	current Mechanism
	dead    bool

	serverError string
}

// NewAuthenticator prepares a negotiation for the given service (e.g.
// "imap") against host. supported is the server-advertised mechanism list,
// compared case-insensitively. A nil creds means no credentials at all.
func NewAuthenticator(service, host string, supported []string, creds *Credentials) (*Authenticator, error) {
	if service == "" {
		return nil, fmt.Errorf("saslclient: empty service name")
	}
	if host == "" {
		return nil, fmt.Errorf("saslclient: empty hostname")
	}
	if len(supported) == 0 {
		return nil, fmt.Errorf("saslclient: empty supported mechanism list")
	}

	a := &Authenticator{service: service, host: host}
	if creds != nil {
		a.creds = *creds
	}
	if a.creds.RequireFQDN && !strings.Contains(host, ".") {
		return nil, fmt.Errorf("saslclient: hostname %q is not fully qualified", host)
	}
	if a.creds.Provider == nil {
		a.creds.Provider = DefaultProvider
	}

	priority, err := a.creds.priority()
	if err != nil {
		return nil, err
	}

	serverSet := make(map[string]bool, len(supported))
	for _, name := range supported {
		serverSet[strings.ToUpper(name)] = true
	}

	// Push in reverse so the highest-priority candidate pops first.
	for i := len(priority) - 1; i >= 0; i-- {
		name := strings.ToUpper(priority[i])
		if serverSet[name] {
			a.candidates = append(a.candidates, name)
		}
	}
	return a, nil
}

func (c *Credentials) priority() ([]string, error) {
	switch {
	case c.EncryptedOnly && len(c.Mechanisms) > 0:
		return nil, fmt.Errorf("saslclient: EncryptedOnly and Mechanisms are mutually exclusive")
	case c.EncryptedOnly:
		return encryptedPriority, nil
	case c.Mechanisms != nil:
		return c.Mechanisms, nil
	default:
		return defaultPriority(), nil
	}
}

// TryNextAuth selects the next candidate mechanism the credentials can
// drive, discarding the current one. It returns the mechanism name, whether
// the mechanism speaks first, and ok=false once every candidate has been
// tried.
func (a *Authenticator) TryNextAuth() (name string, clientFirst bool, ok bool) {
	a.current = nil
	a.dead = false

	for len(a.candidates) > 0 {
		top := a.candidates[len(a.candidates)-1]
		a.candidates = a.candidates[:len(a.candidates)-1]

		def := lookupMechanism(top)
		if def == nil {
			continue
		}
		if def.Valid != nil && !def.Valid(&a.creds) {
			continue
		}
		mech, err := def.New(a.service, a.host, &a.creds, a.creds.Provider)
		if err != nil {
			continue
		}
		a.current = mech
		return def.Name, def.ClientFirst, true
	}
	return "", false, false
}

// AuthStep feeds the next base64 server challenge to the current mechanism
// and returns its base64 response. For a client-first mechanism the caller
// must pass the empty string to obtain the initial response.
//
// Any error kills the current mechanism; the caller must send the protocol's
// abort token and call TryNextAuth before stepping again.
func (a *Authenticator) AuthStep(serverChallenge string) (string, error) {
	if a.current == nil || a.dead {
		return "", ErrNoMechanism
	}
	resp, err := a.current.Next(serverChallenge)
	if err != nil {
		a.dead = true
		return "", err
	}
	if r, ok := a.current.(serverErrorReporter); ok {
		a.serverError = r.lastServerError()
	}
	return resp, nil
}

// LastServerError returns the most recent out-of-band failure payload
// received from the server (the XOAUTH2/OAUTHBEARER JSON status blob), or
// the empty string when none was seen.
func (a *Authenticator) LastServerError() string {
	return a.serverError
}
