// Command sqldeck starts the browser-based SQL workbench or runs one-off
// queries against a configured target from the terminal.
package main

import (
	"os"

	"github.com/leapstack-labs/sqldeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
