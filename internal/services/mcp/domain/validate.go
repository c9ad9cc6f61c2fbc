package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/commitsmith/internal/conventional"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ValidateCommitMessageInput represents the MCP tool input for header validation.
type ValidateCommitMessageInput struct {
	Message string `json:"message" jsonschema:"commit message or header line to validate"`
}

// ValidateCommitMessageResult represents the MCP tool output for header validation.
type ValidateCommitMessageResult struct {
	Valid       bool   `json:"valid" jsonschema:"whether the header is a well-formed Conventional Commit"`
	Type        string `json:"type,omitempty" jsonschema:"parsed commit type"`
	Scope       string `json:"scope,omitempty" jsonschema:"parsed commit scope"`
	Breaking    bool   `json:"breaking,omitempty" jsonschema:"whether the header marks a breaking change"`
	Description string `json:"description,omitempty" jsonschema:"parsed commit description"`
	Error       string `json:"error,omitempty" jsonschema:"reason the header was rejected"`
}

// ValidateCommitMessageTool defines the MCP tool schema for header validation.
func ValidateCommitMessageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate-commit-message",
		Description: "Checks a commit header against the Conventional Commits format without touching the repository",
	}
}

// ValidateCommitMessageHandler classifies a commit header. The tool never
// fails on malformed input; rejection is reported in the result.
func ValidateCommitMessageHandler() mcp.ToolHandlerFor[ValidateCommitMessageInput, ValidateCommitMessageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ValidateCommitMessageInput) (*mcp.CallToolResult, ValidateCommitMessageResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ValidateCommitMessageResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		match := conventional.ValidateHeader(input.Message)
		result := ValidateCommitMessageResult{
			Valid:       match.Valid,
			Type:        match.Type,
			Scope:       match.Scope,
			Breaking:    match.Breaking,
			Description: match.Description,
			Error:       match.Error,
		}
		return CallToolResultWithMetadata(ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}
