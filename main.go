package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kunstquiz/config"
	"kunstquiz/logging"
)

var (
	cfg config.Config

	flagConfig  string
	flagDebug   bool
	flagLogfile string
)

func main() {
	defer logging.Close()

	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "kunstquiz",
		Short: "Curate the painting dataset: deduplicate, consolidate and audit records",
		Long: `kunstquiz maintains the scraped painting dataset. Records arrive from
multiple overlapping sources, so the same artwork shows up under
different URLs, titles or partial metadata. The subcommands remove
exact-key duplicates, consolidate partial records into one, and report
visually identical images for manual review.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if _, err := logging.Setup(flagLogfile, flagDebug); err != nil {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to TOML config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagLogfile, "logfile", "", "append logs to this file instead of stderr")

	root.AddCommand(
		newDedupeCommand(),
		newConsolidateCommand(),
		newVisualCommand(),
		newCheckCommand(),
		newQualityCommand(),
	)
	return root
}

// applyFlagOverrides copies explicitly-set engine flags over the file
// configuration. Flags registered on subcommands win over the file.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Engine.Strategy, _ = flags.GetString("strategy")
	}
	if flags.Changed("keep-self-portraits") {
		cfg.Engine.KeepSelfPortraits, _ = flags.GetBool("keep-self-portraits")
	}
	if flags.Changed("threshold") {
		cfg.Engine.HashThreshold, _ = flags.GetInt("threshold")
	}
	if flags.Changed("max-records") {
		cfg.Engine.MaxRecords, _ = flags.GetInt("max-records")
	}
	if flags.Changed("cache") {
		cfg.Fetch.CachePath, _ = flags.GetString("cache")
	}
}

// isDryRun resolves the paired --dry-run/--no-dry-run flags. Mutating
// commands default to a dry run; destructive behavior is opt-in.
func isDryRun(cmd *cobra.Command) bool {
	noDryRun, _ := cmd.Flags().GetBool("no-dry-run")
	return !noDryRun
}

// addRunFlags registers the flags shared by every mutating command.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "data/paintings.json", "input JSON file")
	cmd.Flags().String("output", "", "output JSON file (default: same as input)")
	cmd.Flags().Bool("dry-run", true, "show what would change without writing")
	cmd.Flags().Bool("no-dry-run", false, "actually perform the changes")
}

// resolveOutput returns the output path, defaulting to the input.
func resolveOutput(cmd *cobra.Command, input string) string {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return input
	}
	return output
}
