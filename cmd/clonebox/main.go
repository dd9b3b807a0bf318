// Command clonebox runs the clonebox row lifecycle on HTML files, scaffolds
// new containers and serves the HTTP API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
