// Command zhvi queries a Zillow Home Value Index neighborhood file from the
// terminal: it lists the selectable states and metros, prints the map
// snapshot and neighborhood series as tables or charts, and checks the
// source file for integrity problems.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
