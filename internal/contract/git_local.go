package contract

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Sentinel markers for the fixed log format. They never occur in ordinary
// commit messages, so the parser can split blocks and bodies on them safely.
const (
	LogCommitMarker = "@@@COMMIT@@@"
	LogBodyOpen     = "@@@BODY@@@"
	LogBodyClose    = "@@@END-BODY@@@"

	// LogHeaderFields is the number of pipe-delimited header fields:
	// hash, author date, author name, author email, subject.
	LogHeaderFields = 5
)

// logPrettyFormat produces one sentinel-delimited block per commit followed
// by its numstat lines.
var logPrettyFormat = fmt.Sprintf("--pretty=format:%s%%n%%H|%%ad|%%an|%%ae|%%s%%n%s%%n%%b%s",
	LogCommitMarker, LogBodyOpen, LogBodyClose)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command. On a non-zero exit the returned error carries
// the command's combined stdout/stderr output for diagnosis.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		combined := strings.TrimSpace(string(out))
		if combined == "" {
			return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
		}
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, combined)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetOriginURL implements the GitClient interface. A missing origin remote
// is not an error; the caller falls back to the directory name.
func (c *LocalGitClient) GetOriginURL(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "remote", "get-url", "origin")
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCommitLog implements the GitClient interface.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--numstat",
		"--date=iso-strict",
		logPrettyFormat,
	}
	if !startTime.IsZero() {
		args = append(args, fmt.Sprintf("--since=%s", startTime.Format(DateTimeFormat)))
	}
	if !endTime.IsZero() {
		args = append(args, fmt.Sprintf("--until=%s", endTime.Format(DateTimeFormat)))
	}
	return c.Run(ctx, repoPath, args...)
}
