package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/commitsmith/internal/conventional"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectContextPayload represents the MCP resource payload for the current
// project context.
type ProjectContextPayload struct {
	Project struct {
		Path      *string `json:"path"`
		Validated bool    `json:"validated"`
	} `json:"project"`
}

// ProjectContextResource defines the MCP resource for the current project context.
func ProjectContextResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "project_context",
		Title:       "Project Context",
		Description: "Readable current project context (path, validated)",
		MIMEType:    "application/json",
		URI:         "context://project",
	}
}

// ProjectContextResourceHandler returns a readable project context resource.
// An uninitialized project reports a null path so clients can distinguish
// "never initialized" from an empty string.
func ProjectContextResourceHandler(getProject func() Project) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if getProject == nil {
			return nil, fmt.Errorf("project getter function is not configured")
		}

		uri := ProjectContextResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		if uri != ProjectContextResource().URI {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", ProjectContextResource().URI, uri)
		}

		project := getProject()
		payload := ProjectContextPayload{}
		payload.Project.Validated = project.Validated
		if project.Path != "" {
			payload.Project.Path = &project.Path
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal project context: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// CommitTypesPayload represents the MCP resource payload for the allowed
// commit types.
type CommitTypesPayload struct {
	Types   []string `json:"types"`
	Grammar string   `json:"grammar"`
}

// CommitTypesResource defines the MCP resource listing allowed commit types.
func CommitTypesResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "commit_types",
		Title:       "Conventional Commit Types",
		Description: "Readable list of allowed Conventional Commit types and the header grammar",
		MIMEType:    "application/json",
		URI:         "conventional://types",
	}
}

// CommitTypesResourceHandler returns the allowed commit types resource.
func CommitTypesResourceHandler() mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := CommitTypesResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		if uri != CommitTypesResource().URI {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", CommitTypesResource().URI, uri)
		}

		payload := CommitTypesPayload{
			Types:   conventional.Types(),
			Grammar: conventional.Grammar,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal commit types: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
