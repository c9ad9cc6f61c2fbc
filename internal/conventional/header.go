// Package conventional validates commit message headers against the
// Conventional Commits grammar.
//
// Only the first line of a message is inspected; body content is ignored.
// The accepted shapes are "type: description" and "type(scope): description",
// with an optional "!" before the colon marking a breaking change.
package conventional

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Grammar summarizes the accepted header shape for callers that surface it.
const Grammar = "type(scope)!: description"

// headerPattern captures type, optional scope, optional breaking marker, and
// description. Exactly one space must follow the colon; anything after it,
// including extra whitespace, belongs to the description.
var headerPattern = regexp.MustCompile(`^(\w+)(?:\(([\w.-]+)\))?(!)?: (.+)$`)

// commitTypes is the closed set of accepted commit types.
var commitTypes = []string{
	"feat",
	"fix",
	"build",
	"chore",
	"ci",
	"docs",
	"style",
	"refactor",
	"perf",
	"test",
}

// HeaderMatch is the result of validating a commit header.
// Valid=false always carries Error; Valid=true never does.
type HeaderMatch struct {
	Valid       bool   `json:"valid"`
	Type        string `json:"type,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Breaking    bool   `json:"breaking,omitempty"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Types returns the accepted commit types in stable order.
func Types() []string {
	return slices.Clone(commitTypes)
}

// ValidateHeader validates the first line of message against the grammar.
// It is total over all inputs and never returns an error value; rejection is
// reported through the match. A trailing period on the description is
// tolerated.
func ValidateHeader(message string) HeaderMatch {
	header := message
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return HeaderMatch{Error: "commit header cannot be empty"}
	}

	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return HeaderMatch{Error: `commit header must follow "type: description" or "type(scope): description"`}
	}

	commitType, scope, breaking, description := m[1], m[2], m[3] == "!", m[4]
	if !slices.Contains(commitTypes, commitType) {
		return HeaderMatch{Error: fmt.Sprintf("unknown commit type %q: allowed types are %s", commitType, strings.Join(commitTypes, ", "))}
	}
	if description == "" {
		return HeaderMatch{Error: "commit description cannot be empty"}
	}

	return HeaderMatch{
		Valid:       true,
		Type:        commitType,
		Scope:       scope,
		Breaking:    breaking,
		Description: description,
	}
}
