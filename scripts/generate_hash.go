//go:build ignore

// generate_hash.go creates a bcrypt password hash.
// Run: go run scripts/generate_hash.go <password>
//
// Paste the output into an UPDATE on users.password_hash, or use it
// when seeding an editor account by hand.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run scripts/generate_hash.go <password>")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("hashing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(hash))
}
