// Package main provides build targets for the mucm project using Mage.
//
// Usage:
//
//	mage build            Compile the mucm binary to bin/
//	mage test:all         Run all tests (unit + integration)
//	mage test:unit        Run only unit tests (exclude integration)
//	mage test:integration Run only integration tests (builds first)
//	mage lint             Run golangci-lint
//	mage vet              Run go vet
//	mage clean            Remove build artifacts
//	mage install          Install mucm to GOPATH/bin
//	mage stats            Print Go LOC counts
//go:build mage

package main
