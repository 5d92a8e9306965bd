package main

import (
	"fmt"
	"os"

	"github.com/yndnr/devhttps-go/internal/cli/command"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return command.App().Run(os.Args)
}
