package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/learnzy/learnzy/cmd/cli/quest"
	"github.com/spf13/cobra"
)

func init() {
	// Missing .env is fine outside development.
	_ = godotenv.Load()
	rootCmd.AddGroup(quest.Group)
	rootCmd.AddCommand(quest.Generate)
}

var rootCmd = &cobra.Command{
	Use:  "learnzy-cli",
	Long: `Command line utilities for the Learnzy quiz service`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
