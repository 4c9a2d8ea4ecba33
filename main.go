package main

import (
	"os"

	"github.com/TWRT/mstodo/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.GraphService).Execute(); err != nil {
		os.Exit(1)
	}
}
