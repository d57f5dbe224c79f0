// Command triage is a dependency-aware priority scheduler.
package main

import (
	"os"

	"github.com/Iron-Ham/triage/internal/cmd"
	"github.com/Iron-Ham/triage/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Problems in user-supplied scripts, plans or config exit with 2.
		if errors.IsUserFacing(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
