// pkg/clierr/clierr.go
//
// Error classification with exit-code mapping. Expected user errors are
// surfaced softly; everything else is treated as a system failure.

package clierr

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrorCategory classifies errors for exit-code handling.
type ErrorCategory int

const (
	// CategorySystem - OS/filesystem issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - input validation failures (exit 2)
	CategoryValidation
	// CategoryNetwork - network/connectivity issues (exit 1)
	CategoryNetwork
	// CategoryGit - git-specific errors (exit 1)
	CategoryGit
	// CategorySecrets - secrets-vault errors (exit 1)
	CategorySecrets
	// CategoryUser - user cancelled/interrupted (exit 130)
	CategoryUser
	// CategoryInternal - bugs in noticesync itself (exit 3)
	CategoryInternal
)

// UserError marks an error as expected and user-fixable.
type UserError struct {
	cause error
}

func (e *UserError) Error() string { return e.cause.Error() }
func (e *UserError) Unwrap() error { return e.cause }

// NewExpectedError wraps an error for softer UX handling.
func NewExpectedError(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// ClassifiedError wraps an error with a category and optional remediation.
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

func (e *ClassifiedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf("\n\nCause: %v", e.Cause))
	}

	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}

	return sb.String()
}

func (e *ClassifiedError) Unwrap() error { return e.Cause }

// ExitCode returns the exit code for this error's category.
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryUser:
		return 130
	case CategoryValidation:
		return 2
	case CategoryInternal:
		return 3
	default:
		return 1
	}
}

// exitCodeError carries an explicit process exit code through the chain.
type exitCodeError struct {
	code  int
	cause error
}

func (e *exitCodeError) Error() string { return e.cause.Error() }
func (e *exitCodeError) Unwrap() error { return e.cause }

// WithExitCode attaches an explicit exit code to an error.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitCodeError{code: code, cause: err}
}

// GetExitCode extracts the exit code from any error. Exit codes of wrapped
// external commands are propagated as-is.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var coded *exitCodeError
	if errors.As(err, &coded) {
		return coded.code
	}

	// A wrapped external command's exit status wins over category defaults
	// so retry exhaustion propagates the underlying failure code.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	// Expected user errors without an explicit code do not fail the run.
	if IsExpectedUserError(err) {
		return 0
	}

	return 1
}

// NewValidationError creates an error for input validation failures.
func NewValidationError(message string, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Remediation: remediation,
	}
}

// NewGitError creates an error for git-specific issues.
func NewGitError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryGit,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewSecretsError creates an error for secrets-vault issues.
func NewSecretsError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategorySecrets,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewInternalError creates an error for noticesync bugs.
func NewInternalError(message string, cause error) error {
	return &ClassifiedError{
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
	}
}

// ExtractSummary extracts a concise error summary from full command output.
func ExtractSummary(output string, maxCandidates int) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "No output provided."
	}

	lines := strings.Split(trimmed, "\n")
	var candidates []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lowerLine := strings.ToLower(line)
		if strings.Contains(lowerLine, "error") ||
			strings.Contains(lowerLine, "failed") ||
			strings.Contains(lowerLine, "cannot") ||
			strings.Contains(lowerLine, "panic") ||
			strings.Contains(lowerLine, "fatal") ||
			strings.Contains(lowerLine, "timeout") {
			candidates = append(candidates, line)
		}
	}

	if len(candidates) > 0 {
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		return strings.Join(candidates, " - ")
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}

	return "Unknown error."
}
