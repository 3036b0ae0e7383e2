/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/phonebook-api/apiserver/config"
	"github.com/phonebook-api/apiserver/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "phonebook",
	Short: "Phonebook account and contact API",
	Long: `Phonebook serves registered accounts and their contact lists over HTTP.
Accounts are addressed by email or phone number and mutated with the
access token issued at registration.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger from cfg.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}
