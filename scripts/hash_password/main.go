package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Quick utility to generate a bcrypt hash for resetting a user's password by hand
// Usage: go run ./scripts/hash_password <email> <password>
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run ./scripts/hash_password <email> <password>")
		os.Exit(1)
	}

	email, password := os.Args[1], os.Args[2]
	if len(password) < 8 {
		fmt.Println("Password must be at least 8 characters")
		os.Exit(1)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error generating hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Bcrypt Hash: %s\n", string(hashedPassword))
	fmt.Printf("\nTo update in MongoDB, run:\n")
	fmt.Printf("db.users.updateOne(\n")
	fmt.Printf("  {\"user.email\": %q},\n", email)
	fmt.Printf("  {$set: {\"user.password\": %q}}\n", string(hashedPassword))
	fmt.Printf(")\n")
}
