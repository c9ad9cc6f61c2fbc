package domain

import (
	"context"
	"errors"

	"github.com/louisbranch/commitsmith/internal/git"
	apperrors "github.com/louisbranch/commitsmith/internal/platform/errors"
)

// GitService is the git surface tool handlers depend on. *git.Client satisfies
// it; tests substitute fakes.
type GitService interface {
	// IsWorkTree reports whether dir sits inside a git work tree.
	IsWorkTree(ctx context.Context, dir string) (bool, error)
	// Changes gathers staged, unstaged, and untracked changes for dir.
	Changes(ctx context.Context, dir string) (git.ChangeSummary, error)
	// AddAll stages every change in dir, including untracked files.
	AddAll(ctx context.Context, dir string) error
	// Commit records a commit in dir and returns git's confirmation output.
	Commit(ctx context.Context, dir, subject, body string) (string, error)
}

// classifyGitError guarantees every git failure leaving a handler carries a
// machine-readable code. Errors the git client already classified pass
// through; anything else falls back to the unknown code.
func classifyGitError(err error) error {
	if err == nil {
		return nil
	}
	var classified *apperrors.Error
	if errors.As(err, &classified) {
		return err
	}
	return apperrors.Wrap(apperrors.CodeUnknown, err.Error(), err)
}
