package git

import (
	"context"
	"strings"

	apperrors "github.com/louisbranch/commitsmith/internal/platform/errors"
	"golang.org/x/sync/errgroup"
)

// ChangeSummary holds the three pending change sets of a working tree.
type ChangeSummary struct {
	Staged    string
	Unstaged  string
	Untracked []string
}

// HasChanges reports whether any change set has content. Untracked files
// count even though they carry no hunks, so callers can reason about new
// files before staging them.
func (s ChangeSummary) HasChanges() bool {
	return strings.TrimSpace(s.Staged) != "" ||
		strings.TrimSpace(s.Unstaged) != "" ||
		len(s.Untracked) > 0
}

// Render formats the populated sections as labeled blocks in a fixed order,
// each trimmed and separated by a blank line. Empty sections are omitted; an
// empty summary renders as "".
func (s ChangeSummary) Render() string {
	var sections []string
	if staged := strings.TrimSpace(s.Staged); staged != "" {
		sections = append(sections, "=== STAGED CHANGES ===\n"+staged)
	}
	if unstaged := strings.TrimSpace(s.Unstaged); unstaged != "" {
		sections = append(sections, "=== UNSTAGED CHANGES ===\n"+unstaged)
	}
	if len(s.Untracked) > 0 {
		sections = append(sections, "=== UNTRACKED FILES ===\n"+strings.Join(s.Untracked, "\n"))
	}
	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

// StagedDiff returns the diff of changes already staged for commit.
func (c *Client) StagedDiff(ctx context.Context, dir string) (string, error) {
	stdout, stderr, err := c.command(ctx, dir, "diff", "--cached")
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeDiffFailed,
			"read staged diff: "+failureText(stdout, stderr, err), err)
	}
	return stdout, nil
}

// UnstagedDiff returns the diff of tracked changes not yet staged.
func (c *Client) UnstagedDiff(ctx context.Context, dir string) (string, error) {
	stdout, stderr, err := c.command(ctx, dir, "diff")
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeDiffFailed,
			"read unstaged diff: "+failureText(stdout, stderr, err), err)
	}
	return stdout, nil
}

// UntrackedFiles lists files git does not track, honoring ignore rules.
// Blank lines in the listing are dropped.
func (c *Client) UntrackedFiles(ctx context.Context, dir string) ([]string, error) {
	stdout, stderr, err := c.command(ctx, dir, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDiffFailed,
			"list untracked files: "+failureText(stdout, stderr, err), err)
	}
	var files []string
	for _, line := range strings.Split(stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Changes gathers the staged diff, unstaged diff, and untracked file list for
// dir. The three reads are independent and run concurrently; the first
// failure cancels the others and no partial summary is returned.
func (c *Client) Changes(ctx context.Context, dir string) (ChangeSummary, error) {
	var summary ChangeSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		staged, err := c.StagedDiff(gctx, dir)
		if err != nil {
			return err
		}
		summary.Staged = staged
		return nil
	})
	g.Go(func() error {
		unstaged, err := c.UnstagedDiff(gctx, dir)
		if err != nil {
			return err
		}
		summary.Unstaged = unstaged
		return nil
	})
	g.Go(func() error {
		untracked, err := c.UntrackedFiles(gctx, dir)
		if err != nil {
			return err
		}
		summary.Untracked = untracked
		return nil
	})
	if err := g.Wait(); err != nil {
		return ChangeSummary{}, err
	}
	return summary, nil
}
