package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kunstquiz/database"
	"kunstquiz/dataset"
	"kunstquiz/detector"
	"kunstquiz/fetcher"
	"kunstquiz/logging"
)

func newVisualCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visual",
		Short: "Report visually identical paintings with different URLs",
		Long: `Visual downloads each painting image, computes perceptual hashes and
reports clusters of visually identical images that escaped exact-key
deduplication. The report is for manual review; nothing is deleted.`,
		RunE: runVisual,
	}

	cmd.Flags().String("input", "data/paintings.json", "input JSON file")
	cmd.Flags().String("report", "visual_duplicates_report.json", "output report file")
	cmd.Flags().Int("threshold", 5, "hash similarity threshold (0-64, lower is stricter)")
	cmd.Flags().Int("max-records", 0, "cap on records to process (0 = all)")
	cmd.Flags().String("cache", "fingerprints.db", "fingerprint cache database (pass empty string to disable)")
	return cmd
}

func runVisual(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	reportPath, _ := cmd.Flags().GetString("report")
	logger := logging.Logger()

	records, err := dataset.Load(input)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d records from %s\n", len(records), input)

	var cache *sql.DB
	if cfg.Fetch.CachePath != "" {
		cache, err = database.InitCache(cfg.Fetch.CachePath)
		if err != nil {
			return fmt.Errorf("open fingerprint cache: %w", err)
		}
		defer cache.Close()
		if n, err := database.CacheStats(cache); err == nil {
			fmt.Printf("Fingerprint cache: %d entries in %s\n", n, cfg.Fetch.CachePath)
		}
	}

	f := fetcher.New(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Fetch.DelayMS)*time.Millisecond,
	)
	d := detector.New(f.Fetch, cache, logger)

	start := time.Now()
	groups, failed, err := d.FindVisualDuplicates(cmd.Context(), records, detector.Options{
		Threshold:  cfg.Engine.HashThreshold,
		MaxRecords: cfg.Engine.MaxRecords,
	})
	if err != nil {
		return err
	}

	compared := len(records) - len(failed)
	if cfg.Engine.MaxRecords > 0 && cfg.Engine.MaxRecords < len(records) {
		compared = cfg.Engine.MaxRecords - len(failed)
	}
	fmt.Printf("Compared %d records in %v (%d fetches failed)\n",
		compared, time.Since(start).Round(time.Second), len(failed))
	fmt.Printf("Found %d duplicate groups\n", len(groups))

	for i, group := range groups {
		fmt.Printf("\n--- Group %d (hash %s, %d members) ---\n", i+1, group.BucketHash, len(group.Members))
		for _, pair := range group.Pairs {
			fmt.Printf("  %s - %q\n    vs %s - %q\n    distances: phash=%d ahash=%d dhash=%d\n",
				pair.A.Artist(), pair.A.Title(),
				pair.B.Artist(), pair.B.Title(),
				pair.Distances.PHash, pair.Distances.AHash, pair.Distances.DHash)
		}
	}

	report := detector.BuildReport(groups, failed, compared, cfg.Engine.HashThreshold)
	if err := detector.WriteReport(reportPath, report); err != nil {
		return err
	}
	fmt.Printf("\nReport saved to %s (run %s)\n", reportPath, report.RunID)
	fmt.Println("Review the report before removing anything; visual similarity is a probabilistic signal.")
	return nil
}
