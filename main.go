package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/PolarWolf314/dyad/cmd"
	"github.com/PolarWolf314/dyad/internal/ui"
)

func main() {
	// Wipe key material on Ctrl-C and on normal exit.
	memguard.CatchInterrupt()
	defer memguard.Purge()

	if err := cmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("Error: ")+err.Error())
		}
		memguard.SafeExit(1)
	}
}
