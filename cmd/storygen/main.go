// Package main implements storygen, a command that generates a single
// personalized story from the command line and prints it as JSON.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "storygen:", err)
		os.Exit(1)
	}
}
