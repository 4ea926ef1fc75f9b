package main

import (
	"fmt"
	"os"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/cli"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/config"
)

func main() {
	cfg := config.NewConfig()
	if err := cfg.LoadFromEnvironment(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(cfg)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
