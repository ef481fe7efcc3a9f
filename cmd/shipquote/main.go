// Package main is the entry point for the shipquote CLI.
package main

import (
	"os"

	"github.com/borneomart/shipping-quote/cmd/shipquote/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
