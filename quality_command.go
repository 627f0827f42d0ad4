package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kunstquiz/dataset"
	"kunstquiz/dedup"
)

func newQualityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Remove thumbnails, catalog pages, photos and tiny images",
		RunE:  runQuality,
	}

	addRunFlags(cmd)
	cmd.Flags().Int("min-width", 0, "minimum image width (default from config)")
	cmd.Flags().Int("min-height", 0, "minimum image height (default from config)")
	return cmd
}

func runQuality(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	dryRun := isDryRun(cmd)

	minWidth := cfg.Quality.MinWidth
	minHeight := cfg.Quality.MinHeight
	if w, _ := cmd.Flags().GetInt("min-width"); w > 0 {
		minWidth = w
	}
	if h, _ := cmd.Flags().GetInt("min-height"); h > 0 {
		minHeight = h
	}

	records, err := dataset.Load(input)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d records from %s\n", len(records), input)

	kept, removed := dedup.FilterQuality(records, minWidth, minHeight)
	fmt.Printf("Quality filter (min %dx%d): removing %d records\n", minWidth, minHeight, len(removed))
	for i, r := range removed {
		if i >= sampleLimit {
			fmt.Printf("  ... and %d more\n", len(removed)-sampleLimit)
			break
		}
		fmt.Printf("  %q: %s\n", r.Record.Title(), strings.Join(r.Issues, ", "))
	}

	if dryRun {
		fmt.Printf("Would keep %d records. Run with --no-dry-run to apply\n", len(kept))
		return nil
	}

	output := resolveOutput(cmd, input)
	if err := dataset.Save(output, kept); err != nil {
		return err
	}
	fmt.Printf("Kept %d records. Saved to %s\n", len(kept), output)
	return nil
}
