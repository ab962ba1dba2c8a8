package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jsvensson/masmfmt/internal/config"
	"github.com/jsvensson/masmfmt/internal/driver"
)

var (
	flagCheck   bool
	flagDiff    bool
	flagStdout  bool
	flagJobs    int
	flagConfig  string
	flagVerbose int
	version     = "dev" // Injected at build time via ldflags
)

var rootCmd = &cobra.Command{
	Use:     "masmfmt",
	Short:   "Format Miden assembly (.masm) source files",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(flagVerbose, nil)
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [paths...]",
	Short: "Format .masm files",
	Long: `Format .masm files in place. Arguments may be files, directories or
doublestar glob patterns such as "**/*.masm"; the current directory is used
when none are given. Prints the name of each file that was modified.`,
	RunE: runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "log verbosity (repeat for more)")
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")
	fmtCmd.Flags().BoolVarP(&flagDiff, "diff", "d", false, "print a unified diff for each file that would change")
	fmtCmd.Flags().BoolVar(&flagStdout, "stdout", false, "write formatted content to stdout instead of the files")
	fmtCmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "number of files formatted in parallel (0 = number of CPUs)")
	fmtCmd.Flags().StringVar(&flagConfig, "config", "", "path to config file (default: ./"+config.FileName+" if present)")
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	return config.Discover(".")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	opts := driver.Options{
		Check:  flagCheck,
		Stdout: flagStdout,
		Diff:   flagDiff,
		Jobs:   cfg.Jobs,
		Files:  cfg.Files,
	}
	if cmd.Flags().Changed("jobs") {
		opts.Jobs = flagJobs
	}

	results, err := driver.Run(cmd.Context(), args, opts)
	if errors.Is(err, driver.ErrNoFiles) {
		fmt.Fprintln(cmd.ErrOrStderr(), "No .masm files found")
		return nil
	}
	if err != nil {
		return err
	}

	hasErrors := false
	needsFormatting := false

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", r.Path, r.Err)
			hasErrors = true
			continue
		}

		if flagStdout {
			fmt.Fprint(cmd.OutOrStdout(), string(r.Formatted))
			continue
		}
		if !r.Changed {
			continue
		}

		needsFormatting = true
		if r.Diff != "" {
			fmt.Fprint(cmd.OutOrStdout(), r.Diff)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
		}
	}

	if hasErrors || (flagCheck && needsFormatting) {
		os.Exit(1)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
