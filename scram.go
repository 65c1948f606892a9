package saslclient

import (
	"crypto/hmac"
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-saslclient/internal/wire"
)

// gs2Header is the GS2 binding header for "no channel binding, no
// authorization identity" (RFC 5802 section 7).
const gs2Header = "n,,"

// escapeSASLName escapes "," and "=" in a saslname value (RFC 5802
// section 7).
func escapeSASLName(s string) string {
	return saslNameReplacer.Replace(s)
}

var saslNameReplacer = strings.NewReplacer("=", "=3D", ",", "=2C")

// scramMechanism drives the client side of a SCRAM-SHA-* exchange, RFC 5802
// and RFC 7677. The same state machine serves every registered hash; only
// the hash name and its output length vary.
type scramMechanism struct {
	hash     Hash
	hashLen  int
	provider CryptoProvider

	user, pass string

	clientNonce     string
	clientFirstBare string
	serverSignature []byte
	step            int
}

func newSCRAMMechanism(h Hash, c *Credentials, p CryptoProvider) (Mechanism, error) {
	hashLen := h.Size()
	nonce, err := p.RandomBytes(hashLen)
	if err != nil {
		return nil, err
	}
	return &scramMechanism{
		hash:        h,
		hashLen:     hashLen,
		provider:    p,
		user:        SASLprep(c.Username),
		pass:        SASLprep(c.Password),
		clientNonce: wire.Encode(nonce),
	}, nil
}

func (m *scramMechanism) Next(challenge string) (string, error) {
	defer func() { m.step++ }()
	switch m.step {
	case 0:
		m.clientFirstBare = "n=" + escapeSASLName(m.user) + ",r=" + m.clientNonce
		return wire.EncodeString(gs2Header + m.clientFirstBare), nil
	case 1:
		return m.clientFinal(challenge)
	case 2:
		return m.verifyServerFinal(challenge)
	default:
		return "", fmt.Errorf("%w: SCRAM produces at most three responses", ErrTooManySteps)
	}
}

// clientFinal parses the server-first-message and computes the
// client-final-message carrying the proof.
func (m *scramMechanism) clientFinal(challenge string) (string, error) {
	serverFirst, err := wire.DecodeString(challenge)
	if err != nil {
		return "", err
	}

	// RFC 5802 section 7: server-first-message is [reserved-mext ","]
	// nonce "," salt "," iteration-count, in that order.
	attrs := strings.Split(serverFirst, ",")
	if len(attrs) > 0 && strings.HasPrefix(attrs[0], "m=") {
		attrs = attrs[1:]
	}
	if len(attrs) < 3 {
		return "", fmt.Errorf("%w: server-first-message has %d attributes", ErrMalformedServerResponse, len(attrs))
	}
	if !strings.HasPrefix(attrs[0], "r=") {
		return "", fmt.Errorf("%w: expected nonce, got %q", ErrMalformedServerResponse, attrs[0])
	}
	serverNonce := attrs[0][len("r="):]
	if !strings.HasPrefix(serverNonce, m.clientNonce) {
		return "", fmt.Errorf("%w: server nonce does not extend client nonce", ErrMalformedServerResponse)
	}
	if !strings.HasPrefix(attrs[1], "s=") {
		return "", fmt.Errorf("%w: expected salt, got %q", ErrMalformedServerResponse, attrs[1])
	}
	salt, err := wire.Decode(attrs[1][len("s="):])
	if err != nil {
		return "", fmt.Errorf("%w: undecodable salt", ErrMalformedServerResponse)
	}
	if !strings.HasPrefix(attrs[2], "i=") {
		return "", fmt.Errorf("%w: expected iteration count, got %q", ErrMalformedServerResponse, attrs[2])
	}
	iterCount, err := strconv.Atoi(attrs[2][len("i="):])
	if err != nil || iterCount <= 0 {
		return "", fmt.Errorf("%w: invalid iteration count %q", ErrMalformedServerResponse, attrs[2][len("i="):])
	}

	clientFinalNoProof := "c=" + wire.EncodeString(gs2Header) + ",r=" + serverNonce
	authMessage := m.clientFirstBare + "," + serverFirst + "," + clientFinalNoProof

	// RFC 5802 section 3: the key schedule.
	saltedPassword, err := m.provider.PBKDF2(m.hash, []byte(m.pass), salt, iterCount, m.hashLen)
	if err != nil {
		return "", err
	}
	clientKey, err := m.provider.HMAC(m.hash, saltedPassword, []byte("Client Key"))
	if err != nil {
		return "", err
	}
	storedKey, err := m.provider.Digest(m.hash, clientKey)
	if err != nil {
		return "", err
	}
	clientSignature, err := m.provider.HMAC(m.hash, storedKey, []byte(authMessage))
	if err != nil {
		return "", err
	}
	proof := make([]byte, len(clientKey))
	for i := range proof {
		proof[i] = clientKey[i] ^ clientSignature[i]
	}
	serverKey, err := m.provider.HMAC(m.hash, saltedPassword, []byte("Server Key"))
	if err != nil {
		return "", err
	}
	m.serverSignature, err = m.provider.HMAC(m.hash, serverKey, []byte(authMessage))
	if err != nil {
		return "", err
	}

	return wire.EncodeString(clientFinalNoProof + ",p=" + wire.Encode(proof)), nil
}

// verifyServerFinal checks the server's signature, proving it knows the
// salted password. The exchange ends with an empty client response.
func (m *scramMechanism) verifyServerFinal(challenge string) (string, error) {
	serverFinal, err := wire.DecodeString(challenge)
	if err != nil {
		return "", err
	}
	expected := "v=" + wire.Encode(m.serverSignature)
	if !hmac.Equal([]byte(serverFinal), []byte(expected)) {
		return "", fmt.Errorf("%w: server signature mismatch", ErrServerVerification)
	}
	return "", nil
}

func registerSCRAM(name string, h Hash) {
	Register(&MechanismDef{
		Name:        name,
		ClientFirst: true,
		Valid: func(c *Credentials) bool {
			return c.Username != "" && c.Password != ""
		},
		New: func(_, _ string, c *Credentials, p CryptoProvider) (Mechanism, error) {
			return newSCRAMMechanism(h, c, p)
		},
	})
}

func init() {
	registerSCRAM("SCRAM-SHA-1", HashSHA1)
	registerSCRAM("SCRAM-SHA-256", HashSHA256)
	registerSCRAM("SCRAM-SHA-384", HashSHA384)
	registerSCRAM("SCRAM-SHA-512", HashSHA512)
}
