package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kunstquiz/dataset"
	"kunstquiz/dedup"
	"kunstquiz/logging"
)

func newDedupeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate paintings by exact-key strategy",
		RunE:  runDedupe,
	}

	addRunFlags(cmd)
	cmd.Flags().String("strategy", "", "duplicate detection strategy: url, title or exact")
	cmd.Flags().Bool("keep-self-portraits", false, "keep self-portraits when removing duplicates")
	cmd.Flags().String("artist", "", "also remove every painting by this artist")
	cmd.Flags().String("remove-urls", "", "also remove paintings whose url is listed in this file")
	return cmd
}

func runDedupe(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	artist, _ := cmd.Flags().GetString("artist")
	urlFile, _ := cmd.Flags().GetString("remove-urls")
	dryRun := isDryRun(cmd)
	logger := logging.Logger()

	records, err := dataset.Load(input)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d records from %s\n", len(records), input)
	if dryRun {
		fmt.Println("DRY RUN - no changes will be written")
	}

	totalRemoved := 0

	result, err := dedup.Deduplicate(records, dedup.Options{
		Strategy:          cfg.Engine.Strategy,
		KeepSelfPortraits: cfg.Engine.KeepSelfPortraits,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Strategy %q: %d duplicate groups, removing %d records\n",
		cfg.Engine.Strategy, len(result.Groups), len(result.Removed))
	logger.Info("exact-key pass complete",
		"strategy", cfg.Engine.Strategy,
		"groups", len(result.Groups),
		"removed", len(result.Removed))
	records = result.Survivors
	totalRemoved += len(result.Removed)

	if artist != "" {
		kept, removed := dedup.RemoveArtist(records, artist)
		fmt.Printf("Artist %q: removing %d records\n", artist, len(removed))
		records = kept
		totalRemoved += len(removed)
	}

	if urlFile != "" {
		urls, err := dedup.LoadURLList(urlFile)
		if err != nil {
			return err
		}
		kept, removed := dedup.RemoveURLs(records, urls)
		fmt.Printf("URL list (%d urls): removing %d records\n", len(urls), len(removed))
		records = kept
		totalRemoved += len(removed)
	}

	if dryRun {
		fmt.Printf("Would remove %d records, %d would remain\n", totalRemoved, len(records))
		fmt.Println("Run with --no-dry-run to apply")
		return nil
	}

	output := resolveOutput(cmd, input)
	if err := dataset.Save(output, records); err != nil {
		return err
	}
	fmt.Printf("Removed %d records, %d remain. Saved to %s\n", totalRemoved, len(records), output)
	return nil
}
