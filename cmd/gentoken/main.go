// gentoken mints development bearer tokens for exercising the API without a
// real identity provider. The secret must match the server's JWT_SECRET.
//
// Usage:
//
//	JWT_SECRET=dev-secret go run ./cmd/gentoken -subject ext-1 -email alice@example.com -name Alice
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gatherhub/server/internal/auth"
)

func main() {
	subject := flag.String("subject", "", "stable external identity id (required)")
	email := flag.String("email", "", "email claim")
	name := flag.String("name", "", "display name claim")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	issuer := flag.String("issuer", "gatherhub", "issuer claim")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if *subject == "" {
		fmt.Fprintln(os.Stderr, "-subject is required")
		os.Exit(1)
	}

	manager := auth.NewJWTManager(secret, *expiry, *issuer)
	token, err := manager.Generate(*subject, *email, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
