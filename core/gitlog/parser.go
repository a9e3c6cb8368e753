// Package gitlog parses raw version-control log output into commit records.
package gitlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/schema"
)

// ParsedCommit is one commit record produced by the log parser.
type ParsedCommit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	Subject     string
	Body        string

	// Date is the normalized author date. When the raw date fails to
	// parse, Date stays zero and DateRaw keeps the original string.
	Date    time.Time
	DateRaw string

	// Aggregate counts exclude binary file changes.
	LinesAdded   int
	LinesDeleted int
	FilesChanged int
	Files        []schema.CommitFile

	AITools *string
}

// ParseLog turns raw log text into an ordered sequence of commit records.
// A malformed block is logged and skipped; it never fails the whole run.
func ParseLog(raw []byte) []ParsedCommit {
	blocks := strings.Split(string(raw), contract.LogCommitMarker)
	commits := make([]ParsedCommit, 0, len(blocks))

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		commit, err := parseBlock(block)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("skipping malformed log block: %v", err))
			continue
		}
		commits = append(commits, *commit)
	}
	return commits
}

// parseBlock parses a single sentinel-delimited commit block.
func parseBlock(block string) (*ParsedCommit, error) {
	header := block
	rest := ""
	if idx := strings.Index(block, "\n"); idx >= 0 {
		header = block[:idx]
		rest = block[idx+1:]
	}

	// Subject is the last positional field, so it may itself contain pipes.
	fields := strings.SplitN(header, "|", contract.LogHeaderFields)
	if len(fields) < contract.LogHeaderFields {
		return nil, fmt.Errorf("header has %d fields, want %d: %q", len(fields), contract.LogHeaderFields, header)
	}

	commit := &ParsedCommit{
		Hash:        strings.TrimSpace(fields[0]),
		AuthorName:  strings.TrimSpace(fields[2]),
		AuthorEmail: strings.TrimSpace(fields[3]),
		Subject:     strings.TrimSpace(fields[4]),
	}
	if commit.Hash == "" {
		return nil, fmt.Errorf("empty commit hash in header %q", header)
	}

	rawDate := strings.TrimSpace(fields[1])
	if date, err := time.Parse(time.RFC3339, rawDate); err == nil {
		commit.Date = date
		commit.DateRaw = date.Format(time.RFC3339)
	} else {
		// Keep the raw string instead of failing the commit.
		commit.DateRaw = rawDate
	}

	body, stats := splitBodyAndStats(rest)
	commit.Body = body
	commit.AITools = ExtractAITools(body)

	for _, line := range strings.Split(stats, "\n") {
		file, ok := parseStatLine(line)
		if !ok {
			continue
		}
		commit.LinesAdded += file.LinesAdded
		commit.LinesDeleted += file.LinesDeleted
		commit.FilesChanged++
		commit.Files = append(commit.Files, file)
	}

	return commit, nil
}

// splitBodyAndStats separates the sentinel-delimited body from the numstat
// tail. A block without body markers has an empty body.
func splitBodyAndStats(rest string) (string, string) {
	open := strings.Index(rest, contract.LogBodyOpen)
	if open < 0 {
		return "", rest
	}
	afterOpen := rest[open+len(contract.LogBodyOpen):]
	closeIdx := strings.Index(afterOpen, contract.LogBodyClose)
	if closeIdx < 0 {
		return strings.TrimSpace(afterOpen), ""
	}
	body := strings.TrimSpace(afterOpen[:closeIdx])
	stats := afterOpen[closeIdx+len(contract.LogBodyClose):]
	return body, stats
}

// parseStatLine parses one tab-delimited numstat triple. Binary files use a
// "-" placeholder for both counts and are excluded entirely.
func parseStatLine(line string) (schema.CommitFile, bool) {
	line = strings.TrimRight(strings.TrimSpace(line), "\r")
	if line == "" {
		return schema.CommitFile{}, false
	}
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 3 {
		return schema.CommitFile{}, false
	}
	if parts[0] == "-" || parts[1] == "-" {
		return schema.CommitFile{}, false
	}
	added, err := strconv.Atoi(parts[0])
	if err != nil || added < 0 {
		return schema.CommitFile{}, false
	}
	deleted, err := strconv.Atoi(parts[1])
	if err != nil || deleted < 0 {
		return schema.CommitFile{}, false
	}
	return schema.CommitFile{
		Filename:     strings.TrimSpace(parts[2]),
		LinesAdded:   added,
		LinesDeleted: deleted,
	}, true
}
