// Package main provides the vocabtrainer CLI: the Telegram bot and schema
// migrations.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
