// Package report renders deduplication results for the CLI and converts them
// to persistable run records.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/banks1923/docdedup/internal/dedup"
	"github.com/banks1923/docdedup/internal/types"
)

// WriteJSON writes v as indented JSON, for --json output and piping into
// other tools.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteBatchResult renders a batch deduplication report as colored text.
func WriteBatchResult(w io.Writer, result *dedup.BatchResult) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "\n%s\n\n", cyan("=== Deduplication Report ==="))
	fmt.Fprintf(w, "  Threshold:       %.2f\n", result.Threshold)
	fmt.Fprintf(w, "  Total documents: %d\n", result.Total)
	fmt.Fprintf(w, "  Unique:          %s\n", green(fmt.Sprintf("%d", result.Unique)))
	fmt.Fprintf(w, "  Duplicates:      %s\n", red(fmt.Sprintf("%d", result.Duplicates)))
	fmt.Fprintf(w, "  Near-dup groups: %d\n", result.NearDuplicates)
	fmt.Fprintln(w)

	if len(result.Groups) == 0 {
		fmt.Fprintf(w, "  %s\n", gray("No duplicate groups found"))
		return
	}

	fmt.Fprintf(w, "%s\n", yellow("Duplicate Groups:"))
	for _, g := range result.Groups {
		kind := yellow("near")
		if g.IsExact {
			kind = red("exact")
		}
		fmt.Fprintf(w, "  %s %s (%d docs, avg %.3f)\n", kind, g.Leader, g.Size, g.AvgSimilarity)
		for _, m := range g.Members {
			fmt.Fprintf(w, "    %s %s (%.3f)\n", gray("-"), m.ID, m.Similarity)
		}
	}
}

// WriteMatches renders the matches of a single duplicate check.
func WriteMatches(w io.Writer, matches []dedup.Match) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	if len(matches) == 0 {
		fmt.Fprintf(w, "%s No duplicates found\n", green("✓"))
		return
	}

	for _, m := range matches {
		kind := yellow("near-duplicate")
		if m.IsExact {
			kind = red("exact duplicate")
		}
		fmt.Fprintf(w, "%s of %s (similarity %.3f)\n", kind, m.DocID, m.Similarity)
		if m.Preview != "" {
			fmt.Fprintf(w, "  %s\n", gray(m.Preview))
		}
	}
}

// RunFromResult flattens a batch result into a persistable run record.
func RunFromResult(result *dedup.BatchResult) *types.Run {
	run := &types.Run{
		Threshold:      result.Threshold,
		Total:          result.Total,
		Unique:         result.Unique,
		Duplicates:     result.Duplicates,
		NearDuplicates: result.NearDuplicates,
		CreatedAt:      time.Now(),
	}
	for _, g := range result.Groups {
		for _, m := range g.Members {
			run.Groups = append(run.Groups, types.GroupMember{
				LeaderID:   g.Leader,
				MemberID:   m.ID,
				Similarity: m.Similarity,
			})
		}
	}
	return run
}
