// Package domain translates MCP tool calls into git workflow commands.
//
// The package is intentionally explicit about that mapping:
// - validate tool inputs against the initialized project context,
// - route calls to the git collaborator for diffs, staging, and commits,
// - and surface structured outputs that MCP clients can render.
//
// This keeps MCP behavior auditable from protocol message -> git command ->
// structured tool result.
package domain
