// Package main is the entry point for the persona application
package main

import (
	"github.com/ethpandaops/persona/cmd"
)

func main() {
	cmd.Execute()
}
