package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/certverify-labs/certverify/internal/auth"
	"github.com/certverify-labs/certverify/internal/domain"
)

// Mints a development bearer token for curl sessions against a local
// gateway. The secret must match the server's JWT_SECRET.
func main() {
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	email := flag.String("email", "dev@certverify.io", "subject email")
	role := flag.String("role", "user", "role: user or admin")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "error: -secret or JWT_SECRET is required")
		os.Exit(1)
	}
	if !domain.Role(*role).Valid() {
		fmt.Fprintf(os.Stderr, "error: invalid role %q\n", *role)
		os.Exit(1)
	}

	user := &domain.User{
		ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(*email)),
		Email: *email,
		Role:  domain.Role(*role),
	}

	jwtService := auth.NewJWTService(*secret, "certverify", *expiry)
	token, expiresAt, err := jwtService.GenerateToken(user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("TOKEN=%s\nEXPIRES_AT=%s\n", token, expiresAt.Format(time.RFC3339))
}
