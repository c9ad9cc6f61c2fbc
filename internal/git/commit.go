package git

import (
	"context"
	"strings"

	apperrors "github.com/louisbranch/commitsmith/internal/platform/errors"
)

// AddAll stages every pending change, including untracked files.
func (c *Client) AddAll(ctx context.Context, dir string) error {
	stdout, stderr, err := c.command(ctx, dir, "add", "-A")
	if err != nil {
		return apperrors.Wrap(apperrors.CodeCommitFailed,
			"stage changes: "+failureText(stdout, stderr, err), err)
	}
	return nil
}

// Commit records staged changes. Subject and body travel as separate -m
// arguments so git joins them with a blank line and no concatenation or
// quoting happens here.
func (c *Client) Commit(ctx context.Context, dir, subject, body string) (string, error) {
	args := []string{"commit", "-m", subject}
	if body != "" {
		args = append(args, "-m", body)
	}
	stdout, stderr, err := c.command(ctx, dir, args...)
	if err != nil {
		return "", classifyCommitFailure(stdout, stderr, err)
	}
	return strings.TrimSpace(stdout), nil
}

// classifyCommitFailure maps git's commit failure text onto remedial errors.
// Match order matters: the unstaged-changes report also says nothing was
// added, so it is checked before the clean-tree case.
func classifyCommitFailure(stdout, stderr string, cause error) error {
	combined := stdout + "\n" + stderr
	switch {
	case strings.Contains(combined, "tell me who you are"),
		strings.Contains(combined, "unable to auto-detect email address"):
		return apperrors.Wrap(apperrors.CodeCommitIdentityUnknown,
			"git author identity is not configured: set user.name and user.email via git config", cause)
	case strings.Contains(combined, "no changes added to commit"),
		strings.Contains(combined, "Changes not staged for commit"):
		return apperrors.Wrap(apperrors.CodeCommitUnstagedOnly,
			"unstaged changes present: stage them with git add or pass addAll=true", cause)
	case strings.Contains(combined, "nothing to commit"),
		strings.Contains(combined, "nothing added to commit"):
		return apperrors.Wrap(apperrors.CodeCommitNothingToCommit,
			"nothing to commit: the working tree has no staged changes", cause)
	default:
		return apperrors.Wrap(apperrors.CodeCommitFailed,
			"git commit failed: "+failureText(stdout, stderr, cause), cause)
	}
}
