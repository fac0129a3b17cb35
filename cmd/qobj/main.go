// Command qobj builds, assembles and validates quantum execution payloads.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/qobj/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Subcommands print their own errors; flag and argument errors do not.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
