package main

import (
	"os"

	"github.com/wonny/scalpdesk/cmd/scalp/commands"
)

// main is the entry point for the scalp desk CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/scalp [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
