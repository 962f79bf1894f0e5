// Package main provides the mucm CLI for authoring use case documents.
package main

func main() {
	Execute()
}
