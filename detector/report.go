package detector

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"kunstquiz/types"
)

// MemberRef identifies a painting in a report without carrying the
// full record.
type MemberRef struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// PairReport is one similar pair with its per-kind distances.
type PairReport struct {
	A         MemberRef           `json:"item1"`
	B         MemberRef           `json:"item2"`
	Distances types.PairDistances `json:"hamming_distances"`
}

// GroupReport is one duplicate group in the report.
type GroupReport struct {
	Hash    string       `json:"hash"`
	Members []MemberRef  `json:"members"`
	Pairs   []PairReport `json:"similar_pairs"`
}

// Report is the machine-readable output of a visual detection run.
// It is meant for a human reviewer, not for unattended deletion.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt string        `json:"generated_at"`
	Threshold   int           `json:"threshold"`
	Compared    int           `json:"records_compared"`
	FailedCount int           `json:"records_failed"`
	TotalGroups int           `json:"total_groups"`
	Groups      []GroupReport `json:"duplicate_groups"`
	Failed      []MemberRef   `json:"failed_fetches,omitempty"`
}

func memberRef(rec types.Record) MemberRef {
	return MemberRef{Artist: rec.Artist(), Title: rec.Title(), URL: rec.URL()}
}

// BuildReport assembles a report from a detection run's output.
func BuildReport(groups []types.DuplicateGroup, failed []types.Record, compared, threshold int) Report {
	report := Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Threshold:   threshold,
		Compared:    compared,
		FailedCount: len(failed),
		TotalGroups: len(groups),
	}

	for _, group := range groups {
		gr := GroupReport{Hash: group.BucketHash}
		for _, member := range group.Members {
			gr.Members = append(gr.Members, memberRef(member))
		}
		for _, pair := range group.Pairs {
			gr.Pairs = append(gr.Pairs, PairReport{
				A:         memberRef(pair.A),
				B:         memberRef(pair.B),
				Distances: pair.Distances,
			})
		}
		report.Groups = append(report.Groups, gr)
	}
	for _, rec := range failed {
		report.Failed = append(report.Failed, memberRef(rec))
	}
	return report
}

// WriteReport saves the report as pretty-printed JSON.
func WriteReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
