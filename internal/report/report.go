// Package report renders stage summaries for console output.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/marcomd/metricmind/schema"
)

// Color variables for console output.
var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	badColor  = color.New(color.FgRed, color.Bold)
	infoColor = color.New(color.FgCyan)
)

// WriteExtractionSummary prints the artifact aggregates after extraction.
func WriteExtractionSummary(w io.Writer, artifact *schema.ExtractionArtifact, outputPath string) error {
	table := newSummaryTable(w)
	table.Header([]string{"Metric", "Value"})

	data := [][]string{
		{"Repository", artifact.Repository.Name},
		{"Window start", artifact.Window.Start.Format("2006-01-02")},
		{"Window end", artifact.Window.End.Format("2006-01-02")},
		{"Commits", strconv.Itoa(artifact.Summary.CommitCount)},
		{"Lines added", strconv.Itoa(artifact.Summary.TotalLinesAdded)},
		{"Lines deleted", strconv.Itoa(artifact.Summary.TotalLinesDeleted)},
		{"Files changed", strconv.Itoa(artifact.Summary.TotalFilesChanged)},
		{"Distinct authors", strconv.Itoa(artifact.Summary.DistinctAuthors)},
	}
	if err := renderRows(table, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Wrote artifact to %s\n", infoColor.Sprint(outputPath))
	return err
}

// WriteLoadResult prints the ingestion counters after a load pass.
func WriteLoadResult(w io.Writer, res *schema.LoadResult) error {
	table := newSummaryTable(w)
	table.Header([]string{"Outcome", "Count"})

	data := [][]string{
		{"Repositories created", strconv.Itoa(res.RepositoriesCreated)},
		{"Repositories updated", strconv.Itoa(res.RepositoriesUpdated)},
		{okColor.Sprint("Commits inserted"), strconv.Itoa(res.CommitsInserted)},
		{warnColor.Sprint("Commits skipped"), strconv.Itoa(res.CommitsSkipped)},
		{errorLabel(res.CommitsErrored, "Commits errored"), strconv.Itoa(res.CommitsErrored)},
	}
	return renderRows(table, data)
}

// WriteCategorizeResult prints the counters after a categorization pass.
func WriteCategorizeResult(w io.Writer, res *schema.CategorizeResult, strategy schema.Strategy) error {
	table := newSummaryTable(w)
	table.Header([]string{"Outcome", "Count"})

	data := [][]string{
		{"Commits processed", strconv.Itoa(res.Processed)},
		{okColor.Sprint("Commits categorized"), strconv.Itoa(res.Categorized)},
		{warnColor.Sprint("Commits skipped"), strconv.Itoa(res.Skipped)},
		{errorLabel(res.Errored, "Commits errored"), strconv.Itoa(res.Errored)},
	}
	if strategy == schema.AIStrategy {
		data = append(data, []string{"Categories created", strconv.Itoa(res.CategoriesCreated)})
	}
	return renderRows(table, data)
}

// WriteWeightResult prints the counters after a weight-calculation pass.
func WriteWeightResult(w io.Writer, res *schema.WeightResult) error {
	table := newSummaryTable(w)
	table.Header([]string{"Outcome", "Count"})

	data := [][]string{
		{"Commits scanned", strconv.Itoa(res.CommitsScanned)},
		{warnColor.Sprint("Reverts found"), strconv.Itoa(res.RevertsFound)},
		{"Commits zeroed", strconv.Itoa(res.CommitsZeroed)},
	}
	if err := renderRows(table, data); err != nil {
		return err
	}

	if res.DryRun {
		_, err := fmt.Fprintln(w, warnColor.Sprint("Dry run: no weights were changed"))
		return err
	}
	return nil
}

// WriteCleanReport prints the would-delete report for one repository.
func WriteCleanReport(w io.Writer, rep *schema.CleanReport) error {
	table := newSummaryTable(w)
	table.Header([]string{"Metric", "Value"})

	data := [][]string{
		{"Repository", rep.RepositoryName},
		{"Commits", strconv.Itoa(rep.CommitCount)},
	}
	if err := renderRows(table, data); err != nil {
		return err
	}

	var err error
	if rep.Applied {
		_, err = fmt.Fprintln(w, badColor.Sprint("Deleted repository and all of its commits"))
	} else {
		_, err = fmt.Fprintln(w, "Nothing deleted. Re-run with --yes to confirm")
	}
	return err
}

// WriteStoreStatus prints row counts per table.
func WriteStoreStatus(w io.Writer, status schema.StoreStatus) error {
	table := newSummaryTable(w)
	table.Header([]string{"Table", "Rows"})

	data := [][]string{
		{"repositories", strconv.Itoa(status.Repositories)},
		{"commits", strconv.Itoa(status.Commits)},
		{"categories", strconv.Itoa(status.Categories)},
	}
	if err := renderRows(table, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Backend: %s\n", infoColor.Sprint(string(status.Backend)))
	return err
}

func newSummaryTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func renderRows(table *tablewriter.Table, data [][]string) error {
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func errorLabel(count int, text string) string {
	if count > 0 {
		return badColor.Sprint(text)
	}
	return text
}

// TruncateSubject shortens a commit subject to fit the current terminal,
// reserving room for the fixed columns around it.
func TruncateSubject(subject string, reserved int) string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	available := width - reserved
	if available < 15 {
		available = 15
	}
	runes := []rune(subject)
	if len(runes) <= available {
		return subject
	}
	return string(runes[:available-3]) + "..."
}
