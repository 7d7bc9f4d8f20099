package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aarohi",
	Short: "Aarohi — e-commerce catalog backend",
	Long:  "Aarohi is a MongoDB-backed e-commerce catalog API. Use this CLI to run the server, seed demo data, and manage queue workers.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(indexEnsureCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
}
