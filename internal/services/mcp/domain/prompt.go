package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/commitsmith/internal/prompt"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GenerateCommitPromptInput represents the MCP tool input for commit prompt generation.
type GenerateCommitPromptInput struct {
	Scope string `json:"scope,omitempty" jsonschema:"optional commit scope to direct into the suggested header"`
}

// GenerateCommitPromptResult represents the MCP tool output for commit prompt generation.
type GenerateCommitPromptResult struct {
	HasChanges bool   `json:"has_changes" jsonschema:"whether the working tree has changes worth committing"`
	Prompt     string `json:"prompt,omitempty" jsonschema:"commit message prompt with the current diff embedded"`
	Message    string `json:"message,omitempty" jsonschema:"notice shown when there is nothing to commit"`
}

// GenerateCommitPromptTool defines the MCP tool schema for commit prompt generation.
func GenerateCommitPromptTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "generate-commit-prompt",
		Description: "Builds a commit message prompt from the current changes, ready to hand to a language model",
	}
}

// GenerateCommitPromptHandler renders the configured prompt template around the
// current diff. A clean working tree yields a notice instead of a prompt.
func GenerateCommitPromptHandler(gitService GitService, getProject func() Project, template prompt.Template) mcp.ToolHandlerFor[GenerateCommitPromptInput, GenerateCommitPromptResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GenerateCommitPromptInput) (*mcp.CallToolResult, GenerateCommitPromptResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, GenerateCommitPromptResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		project, err := requireProject(getProject)
		if err != nil {
			return nil, GenerateCommitPromptResult{}, err
		}

		summary, err := gitService.Changes(ctx, project.Path)
		if err != nil {
			return nil, GenerateCommitPromptResult{}, classifyGitError(err)
		}

		result := GenerateCommitPromptResult{HasChanges: summary.HasChanges()}
		if result.HasChanges {
			result.Prompt = template.Render(summary.Render(), prompt.ScopeInstruction(input.Scope))
		} else {
			result.Message = "No changes to commit"
		}
		return CallToolResultWithMetadata(ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}
