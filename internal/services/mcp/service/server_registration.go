package service

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/louisbranch/commitsmith/internal/prompt"
	"github.com/louisbranch/commitsmith/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// serverModule is one named unit of tool or resource registrations. Modules
// register in a fixed order at startup; any failure aborts the whole server.
type serverModule struct {
	name     string
	register func(toolRegistry) error
}

// registryAdapter registers tools and resources on an mcp.Server while
// tracking tool names, so a duplicate registration fails startup instead of
// silently shadowing an earlier handler. Registered resource URIs accumulate
// in resourceURIs, which the subscribe handlers consult.
type registryAdapter struct {
	server       *mcp.Server
	seen         map[string]struct{}
	resourceURIs map[string]struct{}
}

func newRegistryAdapter(server *mcp.Server, resourceURIs map[string]struct{}) *registryAdapter {
	return &registryAdapter{server: server, seen: make(map[string]struct{}), resourceURIs: resourceURIs}
}

func (a *registryAdapter) AddTool(tool *mcp.Tool, handler any) error {
	if tool != nil {
		if _, dup := a.seen[tool.Name]; dup {
			return fmt.Errorf("tool %q is already registered", tool.Name)
		}
		a.seen[tool.Name] = struct{}{}
	}
	return addTypedTool(a.server, tool, handler)
}

func (a *registryAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	if a.resourceURIs != nil && resource != nil {
		a.resourceURIs[resource.URI] = struct{}{}
	}
	a.server.AddResource(resource, handler)
}

// typedToolAdder pairs a handler type check with the generic mcp.AddTool
// instantiation for that input/output pair.
type typedToolAdder struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any) error
}

func newTypedToolAdder[I, O any]() typedToolAdder {
	return typedToolAdder{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) error {
			if tool.InputSchema == nil {
				schema, err := inputSchemaFor[I]()
				if err != nil {
					return fmt.Errorf("derive input schema for tool %q: %w", tool.Name, err)
				}
				tool.InputSchema = schema
			}
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
			return nil
		},
	}
}

// inputSchemaFor derives the JSON schema for a tool input type. Schema
// inference forbids additional properties on structs; that ban is cleared
// here so a call carrying fields this version does not know about still
// reaches the handler, which decodes only the fields it declares.
func inputSchemaFor[I any]() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[I](nil)
	if err != nil {
		return nil, err
	}
	schema.AdditionalProperties = nil
	return schema, nil
}

// typedToolAdders covers every tool signature the server exposes.
var typedToolAdders = []typedToolAdder{
	newTypedToolAdder[domain.InitializeProjectInput, domain.InitializeProjectResult](),
	newTypedToolAdder[domain.GetGitDiffInput, domain.GetGitDiffResult](),
	newTypedToolAdder[domain.GenerateCommitPromptInput, domain.GenerateCommitPromptResult](),
	newTypedToolAdder[domain.CreateCommitInput, domain.CreateCommitResult](),
	newTypedToolAdder[domain.ValidateCommitMessageInput, domain.ValidateCommitMessageResult](),
}

func addTypedTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, adder := range typedToolAdders {
		if adder.matches(handler) {
			return adder.add(server, tool, handler)
		}
	}
	name := "<nil>"
	if tool != nil {
		name = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, name)
}

// serverModules lists every tool and resource module in registration order.
func serverModules(server *Server, gitService domain.GitService, template prompt.Template, notify domain.ResourceUpdateNotifier) []serverModule {
	return []serverModule{
		{name: "project-tools", register: func(reg toolRegistry) error {
			return registerProjectTools(reg, gitService, server.setProject, notify)
		}},
		{name: "diff-tools", register: func(reg toolRegistry) error {
			return registerDiffTools(reg, gitService, server.getProject, template)
		}},
		{name: "commit-tools", register: func(reg toolRegistry) error {
			return registerCommitTools(reg, gitService, server.getProject)
		}},
		{name: "validation-tools", register: func(reg toolRegistry) error {
			return registerValidationTools(reg)
		}},
		{name: "context-resources", register: func(reg toolRegistry) error {
			registerContextResources(reg, server)
			return nil
		}},
		{name: "reference-resources", register: func(reg toolRegistry) error {
			registerReferenceResources(reg)
			return nil
		}},
	}
}
