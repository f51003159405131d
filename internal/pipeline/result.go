// SPDX-License-Identifier: MPL-2.0

package pipeline

import "foldrun-cli/pkg/types"

// Result contains the outcome of running one backend through the pipeline.
type Result struct {
	// ExitCode is the exit code of the last spawned process.
	ExitCode types.ExitCode
	// Error contains any error that occurred before or during execution.
	Error error
	// Output contains the captured stdout of the last invocation.
	Output string
	// ErrOutput contains the captured stderr of the last invocation.
	ErrOutput string
	// State is the final state of the backend's run tracker.
	State State
}

// Success returns true if the backend executed successfully.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

func failedResult(state State, err error) *Result {
	return &Result{ExitCode: 1, Error: err, State: state}
}
