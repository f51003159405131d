// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/engine"
	"foldrun-cli/internal/issue"
)

// formatErrorForDisplay renders an error for terminal output: ActionableErrors
// keep their suggestions (and the full chain in verbose mode), anything else
// falls back to the plain message.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// issueForError maps a resolver error to its catalog entry, or nil when the
// error has no dedicated guidance.
func issueForError(err error) *issue.Issue {
	var engErr *engine.ErrEngineNotAvailable

	switch {
	case errors.Is(err, backend.ErrMissingInput):
		return issue.Get(issue.MissingInputId)
	case errors.Is(err, backend.ErrContainerImageNotFound):
		return issue.Get(issue.ContainerImageNotFoundId)
	case errors.Is(err, backend.ErrBackendNotInstalled):
		return issue.Get(issue.BackendNotInstalledId)
	case errors.Is(err, backend.ErrUnsupportedBackendGrammar):
		return issue.Get(issue.UnsupportedBackendGrammarId)
	case errors.As(err, &engErr):
		return issue.Get(issue.EngineNotFoundId)
	}
	return nil
}
