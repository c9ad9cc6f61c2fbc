package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetGitDiffInput represents the MCP tool input for reading working-tree changes.
type GetGitDiffInput struct{}

// GetGitDiffResult represents the MCP tool output for reading working-tree changes.
type GetGitDiffResult struct {
	HasChanges bool   `json:"has_changes" jsonschema:"whether the working tree has any staged, unstaged, or untracked changes"`
	Diff       string `json:"diff,omitempty" jsonschema:"labeled diff sections for staged, unstaged, and untracked changes"`
	Message    string `json:"message,omitempty" jsonschema:"notice shown when the working tree is clean"`
}

// GetGitDiffTool defines the MCP tool schema for reading working-tree changes.
func GetGitDiffTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get-git-diff",
		Description: "Reads staged, unstaged, and untracked changes from the initialized repository as one labeled diff",
	}
}

// GetGitDiffHandler gathers the three change classes and renders them as one
// report. The project gate runs before any git invocation.
func GetGitDiffHandler(gitService GitService, getProject func() Project) mcp.ToolHandlerFor[GetGitDiffInput, GetGitDiffResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ GetGitDiffInput) (*mcp.CallToolResult, GetGitDiffResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, GetGitDiffResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		project, err := requireProject(getProject)
		if err != nil {
			return nil, GetGitDiffResult{}, err
		}

		summary, err := gitService.Changes(ctx, project.Path)
		if err != nil {
			return nil, GetGitDiffResult{}, classifyGitError(err)
		}

		result := GetGitDiffResult{HasChanges: summary.HasChanges()}
		if result.HasChanges {
			result.Diff = summary.Render()
		} else {
			result.Message = "No changes detected in the working tree"
		}
		return CallToolResultWithMetadata(ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}
