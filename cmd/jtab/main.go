package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jacoelho/jtab/internal/config"
	"github.com/jacoelho/jtab/internal/run"
)

func main() {
	os.Exit(realMain(os.Args))
}

func realMain(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrHelp):
			fmt.Fprintln(os.Stdout, config.Usage())
			return 0
		case errors.Is(err, config.ErrFormatHelp):
			fmt.Fprintln(os.Stdout, config.FormatUsage())
			return 0
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s\n", err, config.Usage())
		return 1
	}

	runner := run.New(cfg, os.Stdin, os.Stdout, os.Stderr)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}
