// Package git shells out to a git binary for working tree state and commits.
//
// Every operation runs against an explicit working directory; the package
// holds no repository state of its own. Failures carry machine-readable
// codes so callers can branch on what the collaborator reported.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	apperrors "github.com/louisbranch/commitsmith/internal/platform/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// runFunc executes one git invocation and returns its output streams.
type runFunc func(ctx context.Context, dir string, args ...string) (stdout, stderr string, err error)

// Client invokes a git binary against working directories.
type Client struct {
	bin    string
	run    runFunc
	tracer trace.Tracer
}

// NewClient returns a Client that shells out to bin (a command name or path).
// An empty bin falls back to "git".
func NewClient(bin string) *Client {
	c := &Client{
		bin:    strings.TrimSpace(bin),
		tracer: otel.Tracer("commitsmith/git"),
	}
	if c.bin == "" {
		c.bin = "git"
	}
	c.run = c.execute
	return c
}

// execute runs the git binary directly. Arguments travel as argv entries, so
// no shell ever interprets them.
func (c *Client) execute(ctx context.Context, dir string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// command wraps one git invocation in a span. Invocations carry no deadline
// of their own; cancellation comes only from ctx.
func (c *Client) command(ctx context.Context, dir string, args ...string) (string, string, error) {
	ctx, span := c.tracer.Start(ctx, "git "+args[0], trace.WithAttributes(
		attribute.String("git.args", strings.Join(args, " ")),
	))
	defer span.End()

	stdout, stderr, err := c.run(ctx, dir, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return stdout, stderr, err
}

// Version reports the git binary version, confirming the binary is runnable.
func (c *Client) Version(ctx context.Context) (string, error) {
	stdout, _, err := c.command(ctx, "", "version")
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeGitUnavailable,
			fmt.Sprintf("git binary %q is not runnable: install git or point COMMITSMITH_GIT_BIN at one", c.bin), err)
	}
	return strings.TrimSpace(stdout), nil
}

// IsWorkTree reports whether dir sits inside a git working tree. A missing
// repository is a false result, not an error; an error means the probe
// itself could not run.
func (c *Client) IsWorkTree(ctx context.Context, dir string) (bool, error) {
	stdout, stderr, err := c.command(ctx, dir, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		if strings.Contains(stderr, "not a git repository") {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.CodeGitUnavailable,
			"git work tree probe failed: "+failureText(stdout, stderr, err), err)
	}
	return strings.TrimSpace(stdout) == "true", nil
}

// failureText extracts the most useful message from a failed invocation,
// preferring stderr, then stdout, then the process error.
func failureText(stdout, stderr string, err error) string {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(stdout); msg != "" {
		return msg
	}
	return err.Error()
}
