package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kunstquiz/dataset"
	"kunstquiz/logging"
	"kunstquiz/merge"
)

func newConsolidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate [input files...]",
		Short: "Merge duplicate records across files into one record per artwork",
		Long: `Consolidate loads the given files in order, groups records sharing a
url, and merges each group into one record. Earlier files take
precedence: a field set by an earlier record is never overwritten by a
later one. Records without a url pass through unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runConsolidate,
	}

	cmd.Flags().String("output", "data/paintings.json", "output JSON file")
	cmd.Flags().String("audit", "", "also write a field-donor audit log to this file")
	cmd.Flags().Bool("dry-run", true, "show what would change without writing")
	cmd.Flags().Bool("no-dry-run", false, "actually perform the changes")
	return cmd
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	auditPath, _ := cmd.Flags().GetString("audit")
	dryRun := isDryRun(cmd)
	logger := logging.Logger()

	records, counts, err := dataset.LoadTagged(args)
	if err != nil {
		return err
	}
	for _, path := range args {
		fmt.Printf("  %s: %d records\n", path, counts[path])
	}
	fmt.Printf("Total records across all files: %d\n", len(records))

	var audit *merge.Audit
	if auditPath != "" {
		audit = &merge.Audit{}
	}

	consolidated := merge.Consolidate(records, audit)
	removed := len(records) - len(consolidated)
	fmt.Printf("Consolidated into %d unique records (%d duplicates merged)\n",
		len(consolidated), removed)
	logger.Info("consolidation complete",
		"inputs", len(args), "records", len(records),
		"unique", len(consolidated), "merged", removed)

	if dryRun {
		fmt.Println("DRY RUN - run with --no-dry-run to write")
		return nil
	}

	if err := dataset.Save(output, consolidated); err != nil {
		return err
	}
	fmt.Printf("Saved consolidated dataset to %s\n", output)

	if audit != nil {
		data, err := json.MarshalIndent(audit.Donations, "", "  ")
		if err != nil {
			return fmt.Errorf("encode audit log: %w", err)
		}
		if err := os.WriteFile(auditPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write audit log: %w", err)
		}
		fmt.Printf("Saved merge audit log to %s\n", auditPath)
	}
	return nil
}
