package service

import (
	"fmt"

	"github.com/louisbranch/commitsmith/internal/prompt"
	"github.com/louisbranch/commitsmith/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolRegistry is the registration surface modules write to.
type toolRegistry interface {
	AddTool(*mcp.Tool, any) error
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

func registerProjectTools(reg toolRegistry, gitService domain.GitService, setProject func(domain.Project), notify domain.ResourceUpdateNotifier) error {
	return registerTool(reg, domain.InitializeProjectTool(), domain.InitializeProjectHandler(gitService, setProject, notify))
}

func registerDiffTools(reg toolRegistry, gitService domain.GitService, getProject func() domain.Project, template prompt.Template) error {
	if err := registerTool(reg, domain.GetGitDiffTool(), domain.GetGitDiffHandler(gitService, getProject)); err != nil {
		return err
	}
	return registerTool(reg, domain.GenerateCommitPromptTool(), domain.GenerateCommitPromptHandler(gitService, getProject, template))
}

func registerCommitTools(reg toolRegistry, gitService domain.GitService, getProject func() domain.Project) error {
	return registerTool(reg, domain.CreateCommitTool(), domain.CreateCommitHandler(gitService, getProject))
}

func registerValidationTools(reg toolRegistry) error {
	return registerTool(reg, domain.ValidateCommitMessageTool(), domain.ValidateCommitMessageHandler())
}

func registerTool(reg toolRegistry, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return reg.AddTool(tool, handler)
}

// registerContextResources exposes the readable project context resource.
func registerContextResources(reg toolRegistry, server *Server) {
	reg.AddResource(domain.ProjectContextResource(), domain.ProjectContextResourceHandler(server.getProject))
}

// registerReferenceResources exposes reference data about the commit message
// format.
func registerReferenceResources(reg toolRegistry) {
	reg.AddResource(domain.CommitTypesResource(), domain.CommitTypesResourceHandler())
}
