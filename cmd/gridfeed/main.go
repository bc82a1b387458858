// main is the entry point for the gridfeed CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/tlemoine/gridfeed/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
