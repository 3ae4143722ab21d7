package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title           Task Marketplace API
// @version         1.0
// @description     Customers post tasks, developers grab them, deposits and settlement flow through the payment gateway.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "taskmarket",
	Short:         "Task marketplace service",
	Long:          "taskmarket runs the task marketplace API and its maintenance commands.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)

	// Database
	rootCmd.AddCommand(indexesCmd)

	// Tools
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(tokenCmd)
}
