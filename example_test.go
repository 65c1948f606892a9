package saslclient_test

import (
	"fmt"
	"log"

	"github.com/emersion/go-saslclient"
)

func Example() {
	creds := &saslclient.Credentials{
		Username: "tim",
		Password: "tanstaaftanstaaf",
	}

	// The server-advertised mechanism list, e.g. from an IMAP CAPABILITY
	// response or an SMTP EHLO reply.
	supported := []string{"LOGIN", "PLAIN"}

	auth, err := saslclient.NewAuthenticator("smtp", "mail.example.org", supported, creds)
	if err != nil {
		log.Fatal(err)
	}

	name, clientFirst, ok := auth.TryNextAuth()
	if !ok {
		log.Fatal("no usable authentication mechanism")
	}
	fmt.Println("mechanism:", name)

	// A client-first mechanism produces its initial response before any
	// server challenge; the host protocol would send
	// "AUTH <name> <response>" and keep pumping AuthStep with each
	// continuation line until the server reports success.
	if clientFirst {
		resp, err := auth.AuthStep("")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("initial response:", resp)
	}

	// Output:
	// mechanism: PLAIN
	// initial response: AHRpbQB0YW5zdGFhZnRhbnN0YWFm
}
