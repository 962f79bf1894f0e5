//go:build mage

package main

import "github.com/magefile/mage/sh"

const binLint = "golangci-lint"

// Lint runs golangci-lint across the module, tests included.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Vet runs go vet as a lighter check when golangci-lint is not installed.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}
