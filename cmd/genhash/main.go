package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"loan-origination.backend/internal/domain/entities"
	"loan-origination.backend/pkg/crypto"
)

const usage = "usage: genhash <username> <full name> <branch code> <role> <password>"

var (
	printfFn       = fmt.Printf
	generateHashFn = crypto.HashPassword
	fatalfFn       = log.Fatalf
)

type staffSeed struct {
	Username   string
	FullName   string
	BranchCode string
	Role       entities.Role
	Password   string
}

func parseArgs(args []string) (staffSeed, error) {
	if len(args) != 5 {
		return staffSeed{}, errors.New(usage)
	}
	seed := staffSeed{
		Username:   strings.TrimSpace(args[0]),
		FullName:   strings.TrimSpace(args[1]),
		BranchCode: strings.ToUpper(strings.TrimSpace(args[2])),
		Role:       entities.Role(strings.TrimSpace(args[3])),
		Password:   args[4],
	}
	if seed.Username == "" || seed.FullName == "" || seed.BranchCode == "" {
		return staffSeed{}, errors.New(usage)
	}
	if !seed.Role.Valid() {
		return staffSeed{}, fmt.Errorf("unknown role %q", seed.Role)
	}
	return seed, nil
}

// insertStatement renders the seed row for the users table
func insertStatement(seed staffSeed, hash string) string {
	quote := func(s string) string { return "'" + strings.ReplaceAll(s, "'", "''") + "'" }
	return fmt.Sprintf(
		"INSERT INTO users (username, full_name, password_hash, branch_code, role) VALUES (%s, %s, %s, %s, %s);",
		quote(seed.Username), quote(seed.FullName), quote(hash), quote(seed.BranchCode), quote(string(seed.Role)),
	)
}

func main() {
	seed, err := parseArgs(os.Args[1:])
	if err != nil {
		fatalfFn("%v", err)
		return
	}

	hash, err := generateHashFn(seed.Password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
		return
	}

	printfFn("%s\n", insertStatement(seed, hash))
}
