// Command cjsongen generates C typedefs, JSON serializers and JSON parsers
// from a schema of named structs.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/cjsongen/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
