package saslclient

import (
	"errors"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-saslclient/internal/wire"
)

// Client adapts the Authenticator to the byte-oriented sasl.Client interface
// used across the go-imap and go-smtp ecosystem. Start selects the next
// usable mechanism via TryNextAuth; Next frames the raw challenge and
// response bytes as base64 around AuthStep.
//
// The adapter shares the Authenticator's state: a failed attempt leaves the
// Authenticator ready for another Client (or a direct TryNextAuth).
func (a *Authenticator) Client() sasl.Client {
	return &compatClient{a: a}
}

type compatClient struct {
	a *Authenticator
}

func (c *compatClient) Start() (mech string, ir []byte, err error) {
	name, clientFirst, ok := c.a.TryNextAuth()
	if !ok {
		return "", nil, errors.New("saslclient: no usable authentication mechanism")
	}
	if !clientFirst {
		return name, nil, nil
	}
	resp, err := c.a.AuthStep("")
	if err != nil {
		return "", nil, err
	}
	ir, err = wire.Decode(resp)
	if err != nil {
		return "", nil, err
	}
	return name, ir, nil
}

func (c *compatClient) Next(challenge []byte) ([]byte, error) {
	resp, err := c.a.AuthStep(wire.Encode(challenge))
	if err != nil {
		return nil, err
	}
	return wire.Decode(resp)
}
