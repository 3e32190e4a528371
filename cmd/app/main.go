// Package main is the TaskArena server entry point
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:generate swag init -g cmd/app/main.go -d ../../ -o ../../docs

// @title TaskArena API
// @version 1.0
// @description Character progression, duels and raids driven by completed tasks.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var rootCmd = &cobra.Command{
	Use:   "taskarena",
	Short: "TaskArena combat engine",
	Long: `TaskArena turns completed tasks and habits into character progression,
player duels and cooperative raids.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedItemsCmd)
}
