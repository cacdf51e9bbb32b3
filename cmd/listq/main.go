// Command listq compiles list query parameters and serves list endpoints.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/listq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
