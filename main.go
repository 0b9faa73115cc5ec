// Package main is the entry point for the botscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/botscan/cmd"
	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/internal/store"
)

func main() {
	err := cmd.Execute()

	store.CloseStores()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}

	if err != nil {
		if !cmd.IsFlagged(err) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
