package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jsvensson/masmfmt/internal/lsp"
)

var (
	flagLogFile   string
	flagVerbosity int
	version       = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "masmfmt-lsp",
	Short:   "Language server for Miden assembly (.masm) files over stdio",
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return lsp.NewServer(version).Run(flagVerbosity, flagLogFile)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.Flags().IntVar(&flagVerbosity, "verbosity", 1, "log verbosity")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
