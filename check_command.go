package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kunstquiz/dataset"
	"kunstquiz/dedup"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report duplicate statistics without changing anything",
		RunE:  runCheck,
	}

	cmd.Flags().String("input", "data/paintings.json", "input JSON file")
	return cmd
}

const sampleLimit = 5

func runCheck(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")

	records, err := dataset.Load(input)
	if err != nil {
		return err
	}

	stats := dedup.CheckDuplicates(records)
	fmt.Printf("Total paintings: %d\n", stats.Total)
	fmt.Printf("Unique paintings: %d\n", stats.UniqueExactKeys)
	fmt.Printf("Exact duplicates: %d\n", stats.ExactDuplicates)
	fmt.Printf("URL duplicates: %d\n", len(stats.URLDuplicates))

	shown := 0
	for url, n := range stats.URLDuplicates {
		if shown >= sampleLimit {
			break
		}
		fmt.Printf("  %s: %d times\n", url, n)
		shown++
	}

	fmt.Printf("Title duplicates: %d\n", len(stats.TitleDuplicates))
	shown = 0
	for title, n := range stats.TitleDuplicates {
		if shown >= sampleLimit {
			break
		}
		fmt.Printf("  %q: %d times\n", title, n)
		shown++
	}
	return nil
}
