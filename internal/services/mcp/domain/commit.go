package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/commitsmith/internal/conventional"
	apperrors "github.com/louisbranch/commitsmith/internal/platform/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CreateCommitInput represents the MCP tool input for commit creation.
type CreateCommitInput struct {
	Message  string `json:"message" jsonschema:"full commit message; the first line is the header"`
	AddAll   bool   `json:"addAll,omitempty" jsonschema:"stage all changes, including untracked files, before committing"`
	Validate *bool  `json:"validate,omitempty" jsonschema:"validate the header as a Conventional Commit before committing (default true)"`
}

// CreateCommitResult represents the MCP tool output for commit creation.
type CreateCommitResult struct {
	Subject string `json:"subject" jsonschema:"commit subject recorded by git"`
	Output  string `json:"output,omitempty" jsonschema:"confirmation output reported by git"`
}

// CreateCommitTool defines the MCP tool schema for commit creation.
func CreateCommitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create-commit",
		Description: "Creates a git commit with the provided message, optionally staging all changes and validating the header first",
	}
}

// CreateCommitHandler records a commit in the initialized repository. Header
// validation and staging both run strictly before git commit so a rejected
// message never mutates the repository.
func CreateCommitHandler(gitService GitService, getProject func() Project) mcp.ToolHandlerFor[CreateCommitInput, CreateCommitResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateCommitInput) (*mcp.CallToolResult, CreateCommitResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, CreateCommitResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		project, err := requireProject(getProject)
		if err != nil {
			return nil, CreateCommitResult{}, err
		}

		if strings.TrimSpace(input.Message) == "" {
			return nil, CreateCommitResult{}, apperrors.New(apperrors.CodeInvalidArgument, "message is required")
		}

		validate := true
		if input.Validate != nil {
			validate = *input.Validate
		}
		if validate {
			match := conventional.ValidateHeader(input.Message)
			if !match.Valid {
				return nil, CreateCommitResult{}, apperrors.New(apperrors.CodeHeaderInvalid, match.Error)
			}
		}

		if input.AddAll {
			if err := gitService.AddAll(ctx, project.Path); err != nil {
				return nil, CreateCommitResult{}, classifyGitError(err)
			}
		}

		subject, body := splitMessage(input.Message)
		output, err := gitService.Commit(ctx, project.Path, subject, body)
		if err != nil {
			return nil, CreateCommitResult{}, classifyGitError(err)
		}

		result := CreateCommitResult{Subject: subject, Output: output}
		return CallToolResultWithMetadata(ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}

// splitMessage separates a commit message into its subject line and body.
// Newlines inside the body survive; only the outer whitespace of each part is
// trimmed.
func splitMessage(message string) (subject, body string) {
	lines := strings.Split(message, "\n")
	subject = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
	return subject, body
}
