// Package prompt renders the commit message prompt handed to callers.
//
// Substitution is plain token replacement, not a templating language: the
// tokens {diff} and {scope_instruction} (or {scope} in older templates) are
// replaced when present, and anything else passes through verbatim.
package prompt

import (
	"fmt"
	"strings"

	"github.com/louisbranch/commitsmith/internal/conventional"
)

// DefaultTemplate is the built-in prompt used when no override is configured.
var DefaultTemplate = `Write a commit message for the changes below.

Requirements:
- Follow the Conventional Commits format: ` + conventional.Grammar + `
- Allowed types: ` + strings.Join(conventional.Types(), ", ") + `
- Use the imperative mood in the description (e.g. "add", not "added")
- Keep the subject line under 72 characters
- {scope_instruction}
- Append "!" after the type or scope when the change is breaking
- Add a body only when the changes need explanation beyond the subject

Changes:

{diff}`

// Template substitutes change content into a prompt template.
type Template struct {
	text string
}

// New returns a Template backed by text, falling back to DefaultTemplate when
// text is blank.
func New(text string) Template {
	if strings.TrimSpace(text) == "" {
		return Template{text: DefaultTemplate}
	}
	return Template{text: text}
}

// ScopeInstruction builds the instruction substituted for {scope_instruction}.
// An explicit scope produces a directive to use it; otherwise the caller is
// asked to infer one or omit it.
func ScopeInstruction(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return "Infer an appropriate scope from the changes, or omit the scope if none fits"
	}
	return fmt.Sprintf("Use %q as the commit scope", scope)
}

// Render replaces the {diff} and {scope_instruction} tokens in the template.
// The legacy {scope} token receives the same instruction text. Tokens the
// template does not contain are simply not substituted, and unknown tokens
// are left verbatim.
func (t Template) Render(diff, scopeInstruction string) string {
	out := strings.ReplaceAll(t.text, "{diff}", diff)
	out = strings.ReplaceAll(out, "{scope_instruction}", scopeInstruction)
	out = strings.ReplaceAll(out, "{scope}", scopeInstruction)
	return out
}
