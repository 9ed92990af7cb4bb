// Command skeleton writes the WorldFund web-project skeleton into a directory.
package main

import (
	"os"

	"github.com/NielsdaWheelz/skeleton/internal/cli"
	"github.com/NielsdaWheelz/skeleton/internal/errors"
)

func main() {
	err := cli.Run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
