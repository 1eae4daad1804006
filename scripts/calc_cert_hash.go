package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// calc_cert_hash.go - Compute the SHA256 digest of a certificate file,
// as used by the verify-by-hash endpoint.
//
// Usage:
//   go run scripts/calc_cert_hash.go <file>

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run calc_cert_hash.go <file>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	sum := sha256.Sum256(data)
	fmt.Println(hex.EncodeToString(sum[:]))
}
