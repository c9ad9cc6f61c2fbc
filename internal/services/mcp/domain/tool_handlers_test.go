package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/louisbranch/commitsmith/internal/git"
	apperrors "github.com/louisbranch/commitsmith/internal/platform/errors"
	"github.com/louisbranch/commitsmith/internal/prompt"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeGitService provides canned git responses and records every invocation in
// order so tests can assert that gated handlers never touch git.
type fakeGitService struct {
	workTree     bool
	workTreeErr  error
	changes      git.ChangeSummary
	changesErr   error
	addAllErr    error
	commitOutput string
	commitErr    error

	ops     []string
	dirs    []string
	commits []fakeCommitCall
}

type fakeCommitCall struct {
	dir     string
	subject string
	body    string
}

func (f *fakeGitService) IsWorkTree(_ context.Context, dir string) (bool, error) {
	f.ops = append(f.ops, "is-work-tree")
	f.dirs = append(f.dirs, dir)
	if f.workTreeErr != nil {
		return false, f.workTreeErr
	}
	return f.workTree, nil
}

func (f *fakeGitService) Changes(_ context.Context, dir string) (git.ChangeSummary, error) {
	f.ops = append(f.ops, "changes")
	f.dirs = append(f.dirs, dir)
	if f.changesErr != nil {
		return git.ChangeSummary{}, f.changesErr
	}
	return f.changes, nil
}

func (f *fakeGitService) AddAll(_ context.Context, dir string) error {
	f.ops = append(f.ops, "add-all")
	f.dirs = append(f.dirs, dir)
	return f.addAllErr
}

func (f *fakeGitService) Commit(_ context.Context, dir, subject, body string) (string, error) {
	f.ops = append(f.ops, "commit")
	f.dirs = append(f.dirs, dir)
	f.commits = append(f.commits, fakeCommitCall{dir: dir, subject: subject, body: body})
	if f.commitErr != nil {
		return "", f.commitErr
	}
	return f.commitOutput, nil
}

func initializedProject(path string) func() Project {
	return func() Project { return Project{Path: path, Validated: true} }
}

func hasCode(err error, code apperrors.Code) bool {
	return errors.Is(err, apperrors.New(code, ""))
}

func TestInitializeProjectHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		dir := t.TempDir()
		gitSvc := &fakeGitService{workTree: true}
		var saved Project
		var notified []string
		notify := func(_ context.Context, uri string) { notified = append(notified, uri) }

		handler := InitializeProjectHandler(gitSvc, func(p Project) { saved = p }, notify)
		toolResult, result, err := handler(context.Background(), nil, InitializeProjectInput{Path: dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if toolResult == nil {
			t.Fatal("expected non-nil tool result")
		}
		if id, ok := toolResult.Meta[InvocationIDKey].(string); !ok || id == "" {
			t.Errorf("expected invocation id in result metadata, got %v", toolResult.Meta)
		}
		if result.Path != dir {
			t.Errorf("expected path %q, got %q", dir, result.Path)
		}
		if !strings.Contains(result.Message, dir) {
			t.Errorf("expected message to mention %q, got %q", dir, result.Message)
		}
		if !saved.Validated || saved.Path != dir {
			t.Errorf("expected validated project at %q, got %+v", dir, saved)
		}
		want := []string{ProjectContextResource().URI}
		if !reflect.DeepEqual(notified, want) {
			t.Errorf("expected notifications %v, got %v", want, notified)
		}
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		gitSvc := &fakeGitService{workTree: true}
		var saved Project
		handler := InitializeProjectHandler(gitSvc, func(p Project) { saved = p }, nil)
		_, result, err := handler(context.Background(), nil, InitializeProjectInput{Path: "."})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !filepath.IsAbs(result.Path) {
			t.Errorf("expected absolute path, got %q", result.Path)
		}
		if saved.Path != result.Path {
			t.Errorf("expected stored path %q, got %q", result.Path, saved.Path)
		}
	})

	t.Run("path is required", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := InitializeProjectHandler(gitSvc, nil, nil)
		_, _, err := handler(context.Background(), nil, InitializeProjectInput{Path: "   "})
		if !hasCode(err, apperrors.CodeInvalidArgument) {
			t.Fatalf("expected invalid argument error, got %v", err)
		}
		if len(gitSvc.ops) != 0 {
			t.Errorf("expected no git invocations, got %v", gitSvc.ops)
		}
	})

	t.Run("path does not exist", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := InitializeProjectHandler(gitSvc, nil, nil)
		missing := filepath.Join(t.TempDir(), "missing")
		_, _, err := handler(context.Background(), nil, InitializeProjectInput{Path: missing})
		if !hasCode(err, apperrors.CodePathNotFound) {
			t.Fatalf("expected path not found error, got %v", err)
		}
		if len(gitSvc.ops) != 0 {
			t.Errorf("expected no git invocations, got %v", gitSvc.ops)
		}
	})

	t.Run("path is not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(file, []byte("content"), 0o600); err != nil {
			t.Fatalf("write file: %v", err)
		}
		handler := InitializeProjectHandler(&fakeGitService{}, nil, nil)
		_, _, err := handler(context.Background(), nil, InitializeProjectInput{Path: file})
		if !hasCode(err, apperrors.CodePathNotDirectory) {
			t.Fatalf("expected path not directory error, got %v", err)
		}
	})

	t.Run("path is not a git repository", func(t *testing.T) {
		gitSvc := &fakeGitService{workTree: false}
		saved := false
		handler := InitializeProjectHandler(gitSvc, func(Project) { saved = true }, nil)
		_, _, err := handler(context.Background(), nil, InitializeProjectInput{Path: t.TempDir()})
		if !hasCode(err, apperrors.CodeNotAGitRepo) {
			t.Fatalf("expected not a git repo error, got %v", err)
		}
		if !strings.Contains(err.Error(), "git init") {
			t.Errorf("expected remedial hint mentioning git init, got %q", err.Error())
		}
		if saved {
			t.Error("expected project context to stay unset")
		}
	})

	t.Run("probe failure passes through", func(t *testing.T) {
		gitSvc := &fakeGitService{
			workTreeErr: apperrors.New(apperrors.CodeGitUnavailable, "git binary missing"),
		}
		saved := false
		handler := InitializeProjectHandler(gitSvc, func(Project) { saved = true }, nil)
		_, _, err := handler(context.Background(), nil, InitializeProjectInput{Path: t.TempDir()})
		if !hasCode(err, apperrors.CodeGitUnavailable) {
			t.Fatalf("expected git unavailable error, got %v", err)
		}
		if saved {
			t.Error("expected project context to stay unset")
		}
	})

	t.Run("re-initialization replaces the project", func(t *testing.T) {
		first := t.TempDir()
		second := t.TempDir()
		gitSvc := &fakeGitService{workTree: true}
		var saved Project
		handler := InitializeProjectHandler(gitSvc, func(p Project) { saved = p }, nil)

		if _, _, err := handler(context.Background(), nil, InitializeProjectInput{Path: first}); err != nil {
			t.Fatalf("first initialization: %v", err)
		}
		if _, _, err := handler(context.Background(), nil, InitializeProjectInput{Path: second}); err != nil {
			t.Fatalf("second initialization: %v", err)
		}
		if saved.Path != second {
			t.Errorf("expected project path %q, got %q", second, saved.Path)
		}
	})
}

func TestGetGitDiffHandler(t *testing.T) {
	t.Run("requires initialized project", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := GetGitDiffHandler(gitSvc, nil)
		_, _, err := handler(context.Background(), nil, GetGitDiffInput{})
		if !hasCode(err, apperrors.CodeProjectNotInitialized) {
			t.Fatalf("expected project not initialized error, got %v", err)
		}
		if len(gitSvc.ops) != 0 {
			t.Errorf("expected no git invocations, got %v", gitSvc.ops)
		}
	})

	t.Run("renders changes", func(t *testing.T) {
		gitSvc := &fakeGitService{
			changes: git.ChangeSummary{
				Staged:    "diff --git a/parser.go b/parser.go",
				Unstaged:  "diff --git a/lexer.go b/lexer.go",
				Untracked: []string{"notes.txt"},
			},
		}
		handler := GetGitDiffHandler(gitSvc, initializedProject("/repo"))
		_, result, err := handler(context.Background(), nil, GetGitDiffInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.HasChanges {
			t.Error("expected has_changes true")
		}
		for _, section := range []string{"=== STAGED CHANGES ===", "=== UNSTAGED CHANGES ===", "=== UNTRACKED FILES ==="} {
			if !strings.Contains(result.Diff, section) {
				t.Errorf("expected diff to contain %q, got %q", section, result.Diff)
			}
		}
		if result.Message != "" {
			t.Errorf("expected empty message, got %q", result.Message)
		}
		if gitSvc.dirs[0] != "/repo" {
			t.Errorf("expected git invoked in /repo, got %q", gitSvc.dirs[0])
		}
	})

	t.Run("untracked files alone count as changes", func(t *testing.T) {
		gitSvc := &fakeGitService{
			changes: git.ChangeSummary{Untracked: []string{"new.txt"}},
		}
		handler := GetGitDiffHandler(gitSvc, initializedProject("/repo"))
		_, result, err := handler(context.Background(), nil, GetGitDiffInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.HasChanges {
			t.Error("expected has_changes true for untracked-only tree")
		}
		if want := "=== UNTRACKED FILES ===\nnew.txt"; result.Diff != want {
			t.Errorf("expected diff %q, got %q", want, result.Diff)
		}
	})

	t.Run("clean tree yields notice", func(t *testing.T) {
		handler := GetGitDiffHandler(&fakeGitService{}, initializedProject("/repo"))
		_, result, err := handler(context.Background(), nil, GetGitDiffInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.HasChanges {
			t.Error("expected has_changes false")
		}
		if result.Diff != "" {
			t.Errorf("expected empty diff, got %q", result.Diff)
		}
		if want := "No changes detected in the working tree"; result.Message != want {
			t.Errorf("expected message %q, got %q", want, result.Message)
		}
	})

	t.Run("diff failure passes through", func(t *testing.T) {
		gitSvc := &fakeGitService{
			changesErr: apperrors.New(apperrors.CodeDiffFailed, "read staged diff: boom"),
		}
		handler := GetGitDiffHandler(gitSvc, initializedProject("/repo"))
		_, _, err := handler(context.Background(), nil, GetGitDiffInput{})
		if !hasCode(err, apperrors.CodeDiffFailed) {
			t.Fatalf("expected diff failed error, got %v", err)
		}
	})

	t.Run("uncoded failure surfaces as unknown", func(t *testing.T) {
		gitSvc := &fakeGitService{changesErr: errors.New("signal: killed")}
		handler := GetGitDiffHandler(gitSvc, initializedProject("/repo"))
		_, _, err := handler(context.Background(), nil, GetGitDiffInput{})
		if !hasCode(err, apperrors.CodeUnknown) {
			t.Fatalf("expected unknown error code, got %v", err)
		}
	})
}

func TestGenerateCommitPromptHandler(t *testing.T) {
	t.Run("requires initialized project", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := GenerateCommitPromptHandler(gitSvc, nil, prompt.New(""))
		_, _, err := handler(context.Background(), nil, GenerateCommitPromptInput{})
		if !hasCode(err, apperrors.CodeProjectNotInitialized) {
			t.Fatalf("expected project not initialized error, got %v", err)
		}
		if len(gitSvc.ops) != 0 {
			t.Errorf("expected no git invocations, got %v", gitSvc.ops)
		}
	})

	t.Run("embeds diff and explicit scope", func(t *testing.T) {
		gitSvc := &fakeGitService{
			changes: git.ChangeSummary{Staged: "diff --git a/auth.go b/auth.go"},
		}
		handler := GenerateCommitPromptHandler(gitSvc, initializedProject("/repo"), prompt.New("{scope_instruction}|{diff}"))
		_, result, err := handler(context.Background(), nil, GenerateCommitPromptInput{Scope: "auth"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.HasChanges {
			t.Error("expected has_changes true")
		}
		want := `Use "auth" as the commit scope|=== STAGED CHANGES ===` + "\ndiff --git a/auth.go b/auth.go"
		if result.Prompt != want {
			t.Errorf("expected prompt %q, got %q", want, result.Prompt)
		}
	})

	t.Run("asks for inferred scope when omitted", func(t *testing.T) {
		gitSvc := &fakeGitService{
			changes: git.ChangeSummary{Unstaged: "diff --git a/x b/x"},
		}
		handler := GenerateCommitPromptHandler(gitSvc, initializedProject("/repo"), prompt.New(""))
		_, result, err := handler(context.Background(), nil, GenerateCommitPromptInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(result.Prompt, "Infer an appropriate scope") {
			t.Errorf("expected inferred-scope instruction in prompt, got %q", result.Prompt)
		}
	})

	t.Run("clean tree yields notice instead of prompt", func(t *testing.T) {
		handler := GenerateCommitPromptHandler(&fakeGitService{}, initializedProject("/repo"), prompt.New(""))
		_, result, err := handler(context.Background(), nil, GenerateCommitPromptInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.HasChanges {
			t.Error("expected has_changes false")
		}
		if result.Prompt != "" {
			t.Errorf("expected empty prompt, got %q", result.Prompt)
		}
		if want := "No changes to commit"; result.Message != want {
			t.Errorf("expected message %q, got %q", want, result.Message)
		}
	})

	t.Run("diff failure passes through", func(t *testing.T) {
		gitSvc := &fakeGitService{
			changesErr: apperrors.New(apperrors.CodeDiffFailed, "read unstaged diff: boom"),
		}
		handler := GenerateCommitPromptHandler(gitSvc, initializedProject("/repo"), prompt.New(""))
		_, _, err := handler(context.Background(), nil, GenerateCommitPromptInput{})
		if !hasCode(err, apperrors.CodeDiffFailed) {
			t.Fatalf("expected diff failed error, got %v", err)
		}
	})
}

func TestCreateCommitHandler(t *testing.T) {
	t.Run("requires initialized project", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := CreateCommitHandler(gitSvc, nil)
		_, _, err := handler(context.Background(), nil, CreateCommitInput{Message: "feat: add parser"})
		if !hasCode(err, apperrors.CodeProjectNotInitialized) {
			t.Fatalf("expected project not initialized error, got %v", err)
		}
		if len(gitSvc.ops) != 0 {
			t.Errorf("expected no git invocations, got %v", gitSvc.ops)
		}
	})

	t.Run("message is required", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := CreateCommitHandler(gitSvc, initializedProject("/repo"))
		_, _, err := handler(context.Background(), nil, CreateCommitInput{Message: "  "})
		if !hasCode(err, apperrors.CodeInvalidArgument) {
			t.Fatalf("expected invalid argument error, got %v", err)
		}
		if len(gitSvc.ops) != 0 {
			t.Errorf("expected no git invocations, got %v", gitSvc.ops)
		}
	})

	t.Run("commits subject-only message", func(t *testing.T) {
		gitSvc := &fakeGitService{commitOutput: "[main abc1234] feat: add parser"}
		handler := CreateCommitHandler(gitSvc, initializedProject("/repo"))
		toolResult, result, err := handler(context.Background(), nil, CreateCommitInput{Message: "feat: add parser"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if toolResult == nil {
			t.Fatal("expected non-nil tool result")
		}
		if want := []string{"commit"}; !reflect.DeepEqual(gitSvc.ops, want) {
			t.Errorf("expected git operations %v, got %v", want, gitSvc.ops)
		}
		call := gitSvc.commits[0]
		if call.dir != "/repo" || call.subject != "feat: add parser" || call.body != "" {
			t.Errorf("unexpected commit call %+v", call)
		}
		if result.Subject != "feat: add parser" {
			t.Errorf("expected subject in result, got %q", result.Subject)
		}
		if result.Output != "[main abc1234] feat: add parser" {
			t.Errorf("expected git output in result, got %q", result.Output)
		}
	})

	t.Run("splits body and preserves internal newlines", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := CreateCommitHandler(gitSvc, initializedProject("/repo"))
		message := "fix(git): retry lock acquisition\n\nThe previous attempt failed under load.\nRetry up to three times.\n"
		_, _, err := handler(context.Background(), nil, CreateCommitInput{Message: message})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		call := gitSvc.commits[0]
		if call.subject != "fix(git): retry lock acquisition" {
			t.Errorf("unexpected subject %q", call.subject)
		}
		if want := "The previous attempt failed under load.\nRetry up to three times."; call.body != want {
			t.Errorf("expected body %q, got %q", want, call.body)
		}
	})

	t.Run("stages everything before committing when addAll is set", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := CreateCommitHandler(gitSvc, initializedProject("/repo"))
		_, _, err := handler(context.Background(), nil, CreateCommitInput{Message: "feat: add parser", AddAll: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []string{"add-all", "commit"}; !reflect.DeepEqual(gitSvc.ops, want) {
			t.Errorf("expected git operations %v, got %v", want, gitSvc.ops)
		}
	})

	t.Run("staging failure aborts before commit", func(t *testing.T) {
		gitSvc := &fakeGitService{
			addAllErr: apperrors.New(apperrors.CodeCommitFailed, "stage changes: disk full"),
		}
		handler := CreateCommitHandler(gitSvc, initializedProject("/repo"))
		_, _, err := handler(context.Background(), nil, CreateCommitInput{Message: "feat: add parser", AddAll: true})
		if !hasCode(err, apperrors.CodeCommitFailed) {
			t.Fatalf("expected commit failed error, got %v", err)
		}
		if want := []string{"add-all"}; !reflect.DeepEqual(gitSvc.ops, want) {
			t.Errorf("expected git operations %v, got %v", want, gitSvc.ops)
		}
	})

	t.Run("rejects invalid header before touching git", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := CreateCommitHandler(gitSvc, initializedProject("/repo"))
		_, _, err := handler(context.Background(), nil, CreateCommitInput{Message: "bogus: nope", AddAll: true})
		if !hasCode(err, apperrors.CodeHeaderInvalid) {
			t.Fatalf("expected header invalid error, got %v", err)
		}
		if !strings.Contains(err.Error(), "allowed types are") {
			t.Errorf("expected allowed types in error, got %q", err.Error())
		}
		if len(gitSvc.ops) != 0 {
			t.Errorf("expected no git invocations, got %v", gitSvc.ops)
		}
	})

	t.Run("validation can be disabled", func(t *testing.T) {
		gitSvc := &fakeGitService{}
		handler := CreateCommitHandler(gitSvc, initializedProject("/repo"))
		off := false
		_, result, err := handler(context.Background(), nil, CreateCommitInput{Message: "bogus: nope", Validate: &off})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Subject != "bogus: nope" {
			t.Errorf("expected raw subject committed, got %q", result.Subject)
		}
	})

	t.Run("unstaged-only failure passes through", func(t *testing.T) {
		gitSvc := &fakeGitService{
			commitErr: apperrors.New(
				apperrors.CodeCommitUnstagedOnly,
				"unstaged changes present: stage them with git add or pass addAll=true",
			),
		}
		handler := CreateCommitHandler(gitSvc, initializedProject("/repo"))
		_, _, err := handler(context.Background(), nil, CreateCommitInput{Message: "feat: add parser"})
		if !hasCode(err, apperrors.CodeCommitUnstagedOnly) {
			t.Fatalf("expected unstaged-only error, got %v", err)
		}
		if !strings.Contains(err.Error(), "addAll=true") {
			t.Errorf("expected remedial hint in error, got %q", err.Error())
		}
	})
}

func TestValidateCommitMessageHandler(t *testing.T) {
	handler := ValidateCommitMessageHandler()

	t.Run("accepts breaking header with scope", func(t *testing.T) {
		_, result, err := handler(context.Background(), nil, ValidateCommitMessageInput{Message: "feat(auth)!: implement MFA"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Valid {
			t.Fatalf("expected valid header, got error %q", result.Error)
		}
		if result.Type != "feat" || result.Scope != "auth" || !result.Breaking {
			t.Errorf("unexpected parse %+v", result)
		}
		if result.Description != "implement MFA" {
			t.Errorf("expected description %q, got %q", "implement MFA", result.Description)
		}
	})

	t.Run("rejects unknown type without failing the tool", func(t *testing.T) {
		_, result, err := handler(context.Background(), nil, ValidateCommitMessageInput{Message: "bogus: nope"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid {
			t.Fatal("expected invalid header")
		}
		if !strings.Contains(result.Error, "allowed types are") {
			t.Errorf("expected allowed types in error, got %q", result.Error)
		}
	})

	t.Run("rejects empty header", func(t *testing.T) {
		_, result, err := handler(context.Background(), nil, ValidateCommitMessageInput{Message: ""})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid {
			t.Fatal("expected invalid header")
		}
		if want := "commit header cannot be empty"; result.Error != want {
			t.Errorf("expected error %q, got %q", want, result.Error)
		}
	})
}

func TestProjectContextResourceHandler(t *testing.T) {
	t.Run("uninitialized project reports null path", func(t *testing.T) {
		handler := ProjectContextResourceHandler(func() Project { return Project{} })
		result, err := handler(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Contents) != 1 {
			t.Fatalf("expected one content entry, got %d", len(result.Contents))
		}
		content := result.Contents[0]
		if content.URI != "context://project" {
			t.Errorf("expected URI context://project, got %q", content.URI)
		}
		if content.MIMEType != "application/json" {
			t.Errorf("expected JSON MIME type, got %q", content.MIMEType)
		}
		if !strings.Contains(content.Text, `"path": null`) {
			t.Errorf("expected null path, got %q", content.Text)
		}
		if !strings.Contains(content.Text, `"validated": false`) {
			t.Errorf("expected validated false, got %q", content.Text)
		}
	})

	t.Run("initialized project reports path", func(t *testing.T) {
		handler := ProjectContextResourceHandler(initializedProject("/repo"))
		result, err := handler(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := result.Contents[0].Text
		if !strings.Contains(text, `"path": "/repo"`) {
			t.Errorf("expected path /repo, got %q", text)
		}
		if !strings.Contains(text, `"validated": true`) {
			t.Errorf("expected validated true, got %q", text)
		}
	})

	t.Run("rejects foreign URI", func(t *testing.T) {
		handler := ProjectContextResourceHandler(initializedProject("/repo"))
		req := &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "context://other"}}
		if _, err := handler(context.Background(), req); err == nil {
			t.Fatal("expected error for foreign URI")
		}
	})

	t.Run("missing getter", func(t *testing.T) {
		handler := ProjectContextResourceHandler(nil)
		if _, err := handler(context.Background(), nil); err == nil {
			t.Fatal("expected error for missing getter")
		}
	})
}

func TestCommitTypesResourceHandler(t *testing.T) {
	handler := CommitTypesResourceHandler()
	result, err := handler(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := result.Contents[0].Text
	for _, commitType := range []string{"feat", "fix", "refactor"} {
		if !strings.Contains(text, `"`+commitType+`"`) {
			t.Errorf("expected type %q in payload, got %q", commitType, text)
		}
	}
	if !strings.Contains(text, "type(scope)!: description") {
		t.Errorf("expected grammar in payload, got %q", text)
	}
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "subject only",
			message:     "feat: add parser",
			wantSubject: "feat: add parser",
		},
		{
			name:        "subject with trailing newline",
			message:     "feat: add parser\n",
			wantSubject: "feat: add parser",
		},
		{
			name:        "subject and body",
			message:     "feat: add parser\n\nExplain the change.",
			wantSubject: "feat: add parser",
			wantBody:    "Explain the change.",
		},
		{
			name:        "body keeps internal blank lines",
			message:     "feat: add parser\n\nFirst paragraph.\n\nSecond paragraph.",
			wantSubject: "feat: add parser",
			wantBody:    "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:        "carriage return trimmed from subject",
			message:     "feat: add parser\r\nbody line",
			wantSubject: "feat: add parser",
			wantBody:    "body line",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := splitMessage(tt.message)
			if subject != tt.wantSubject {
				t.Errorf("expected subject %q, got %q", tt.wantSubject, subject)
			}
			if body != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, body)
			}
		})
	}
}

func TestClassifyGitError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if err := classifyGitError(nil); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("coded errors pass through unchanged", func(t *testing.T) {
		original := apperrors.New(apperrors.CodeDiffFailed, "read staged diff: boom")
		err := classifyGitError(original)
		if !errors.Is(err, original) {
			t.Fatalf("expected original error, got %v", err)
		}
		if hasCode(err, apperrors.CodeUnknown) {
			t.Error("expected original code to survive classification")
		}
	})

	t.Run("plain errors gain the unknown code", func(t *testing.T) {
		cause := errors.New("exec: git: executable file not found")
		err := classifyGitError(cause)
		if !hasCode(err, apperrors.CodeUnknown) {
			t.Fatalf("expected unknown error code, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Error("expected cause to stay in the chain")
		}
		if err.Error() != cause.Error() {
			t.Errorf("expected message %q, got %q", cause.Error(), err.Error())
		}
	})
}

func TestNotifyResourceUpdates(t *testing.T) {
	t.Run("skips blank URIs", func(t *testing.T) {
		var notified []string
		notify := func(_ context.Context, uri string) { notified = append(notified, uri) }
		NotifyResourceUpdates(context.Background(), notify, "context://project", "  ", "")
		if want := []string{"context://project"}; !reflect.DeepEqual(notified, want) {
			t.Errorf("expected %v, got %v", want, notified)
		}
	})

	t.Run("nil notifier is a no-op", func(t *testing.T) {
		NotifyResourceUpdates(context.Background(), nil, "context://project")
	})
}
