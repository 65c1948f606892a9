package saslclient

import (
	"strings"
	"sync"
)

// A MechanismDef describes a registered mechanism.
type MechanismDef struct {
	// Name is the mechanism name; it is canonicalized to uppercase on
	// registration.
	Name string
	// ClientFirst reports whether the mechanism emits its first response
	// before receiving any server challenge.
	ClientFirst bool
	// Valid reports whether the supplied credentials are sufficient to
	// attempt this mechanism. A nil Valid accepts any credentials.
	Valid func(creds *Credentials) bool
	// New creates a mechanism instance for one authentication attempt.
	New func(service, host string, creds *Credentials, p CryptoProvider) (Mechanism, error)
}

var registry = struct {
	sync.RWMutex
	defs map[string]*MechanismDef
}{defs: make(map[string]*MechanismDef)}

// Register makes a mechanism available to Authenticators, replacing any
// existing registration with the same canonical name.
func Register(def *MechanismDef) {
	d := *def
	d.Name = strings.ToUpper(d.Name)

	registry.Lock()
	defer registry.Unlock()
	registry.defs[d.Name] = &d
}

func lookupMechanism(name string) *MechanismDef {
	registry.RLock()
	defer registry.RUnlock()
	return registry.defs[name]
}
