// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Project context errors
	CodeProjectNotInitialized Code = "PROJECT_NOT_INITIALIZED"
	CodePathNotFound          Code = "PATH_NOT_FOUND"
	CodePathNotDirectory      Code = "PATH_NOT_DIRECTORY"
	CodePathAccess            Code = "PATH_ACCESS"
	CodeNotAGitRepo           Code = "NOT_A_GIT_REPO"

	// Tool argument errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Commit message errors
	CodeHeaderInvalid Code = "COMMIT_HEADER_INVALID"

	// Git collaborator errors
	CodeGitUnavailable        Code = "GIT_UNAVAILABLE"
	CodeDiffFailed            Code = "DIFF_FAILED"
	CodeCommitFailed          Code = "COMMIT_FAILED"
	CodeCommitNothingToCommit Code = "COMMIT_NOTHING_TO_COMMIT"
	CodeCommitIdentityUnknown Code = "COMMIT_IDENTITY_UNKNOWN"
	CodeCommitUnstagedOnly    Code = "COMMIT_UNSTAGED_ONLY"
)
