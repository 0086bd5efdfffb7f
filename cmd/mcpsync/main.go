// Package main is the entry point for the mcpsync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/mcpsync/cmd/mcpsync/commands"
	"github.com/thoreinstein/mcpsync/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(errors.ExitUser)
}
