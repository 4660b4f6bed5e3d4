// Package main is the entry point for the user management service.
// It wires together all modules and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile string
	port    int
)

var rootCmd = &cobra.Command{
	Use:   "user-api",
	Short: "User management HTTP service",
	Long: `user-api serves create, read, list, update and delete operations over
user records backed by MongoDB, Cloud Spanner or an in-memory store.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "HTTP port (overrides HTTP_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
