package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/commitsmith/internal/platform/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Project is the working-tree context shared by git-backed tools. A zero
// Project means no repository has been initialized yet.
type Project struct {
	Path      string
	Validated bool
}

// InitializeProjectInput represents the MCP tool input for project initialization.
type InitializeProjectInput struct {
	Path string `json:"path" jsonschema:"filesystem path to the git repository"`
}

// InitializeProjectResult represents the MCP tool output for project initialization.
type InitializeProjectResult struct {
	Path    string `json:"path" jsonschema:"absolute path to the initialized repository"`
	Message string `json:"message" jsonschema:"human-readable confirmation"`
}

// InitializeProjectTool defines the MCP tool schema for project initialization.
func InitializeProjectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "initialize-project",
		Description: "Initializes the project context with a git repository path; required before diff, prompt, and commit tools",
	}
}

// InitializeProjectHandler validates a repository path and installs it as the
// active project context. Re-initialization with a different path is allowed
// and replaces the previous context atomically.
func InitializeProjectHandler(gitService GitService, setProject func(Project), notify ResourceUpdateNotifier) mcp.ToolHandlerFor[InitializeProjectInput, InitializeProjectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InitializeProjectInput) (*mcp.CallToolResult, InitializeProjectResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, InitializeProjectResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		path := strings.TrimSpace(input.Path)
		if path == "" {
			return nil, InitializeProjectResult{}, apperrors.New(apperrors.CodeInvalidArgument, "path is required")
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, InitializeProjectResult{}, apperrors.Wrap(apperrors.CodePathAccess, fmt.Sprintf("resolve path %s", path), err)
		}

		info, err := os.Stat(absPath)
		switch {
		case err == nil && !info.IsDir():
			return nil, InitializeProjectResult{}, apperrors.New(apperrors.CodePathNotDirectory, fmt.Sprintf("path is not a directory: %s", absPath))
		case err != nil && errors.Is(err, fs.ErrNotExist):
			return nil, InitializeProjectResult{}, apperrors.New(apperrors.CodePathNotFound, fmt.Sprintf("path does not exist: %s", absPath))
		case err != nil:
			return nil, InitializeProjectResult{}, apperrors.Wrap(apperrors.CodePathAccess, fmt.Sprintf("access path %s", absPath), err)
		}

		inside, err := gitService.IsWorkTree(ctx, absPath)
		if err != nil {
			return nil, InitializeProjectResult{}, classifyGitError(err)
		}
		if !inside {
			return nil, InitializeProjectResult{}, apperrors.New(
				apperrors.CodeNotAGitRepo,
				fmt.Sprintf("path is not a git repository: %s (run 'git init' to create one)", absPath),
			)
		}

		if setProject != nil {
			setProject(Project{Path: absPath, Validated: true})
		}
		NotifyResourceUpdates(ctx, notify, ProjectContextResource().URI)

		result := InitializeProjectResult{
			Path:    absPath,
			Message: fmt.Sprintf("Project initialized at %s", absPath),
		}
		return CallToolResultWithMetadata(ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}

// requireProject returns the initialized project or the gate error every
// project-bound tool reports before touching git.
func requireProject(getProject func() Project) (Project, error) {
	if getProject == nil {
		return Project{}, errProjectNotInitialized()
	}
	project := getProject()
	if !project.Validated || strings.TrimSpace(project.Path) == "" {
		return Project{}, errProjectNotInitialized()
	}
	return project, nil
}

func errProjectNotInitialized() error {
	return apperrors.New(
		apperrors.CodeProjectNotInitialized,
		"no project initialized: call initialize-project with the repository path first",
	)
}
