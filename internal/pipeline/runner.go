// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/engine"
	"foldrun-cli/internal/invoke"
	"foldrun-cli/pkg/fspath"
	"foldrun-cli/pkg/types"
)

// ExecCommandFunc is the function signature for creating exec.Cmd.
// This allows injection of mock implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Runner drives one backend through the state machine and spawns the resolved
// command. It holds no per-request state; a single Runner may serve many
// requests sequentially or from separate goroutines.
type Runner struct {
	enginePref  engine.EngineType
	logger      *log.Logger
	execCommand ExecCommandFunc
	stdout      io.Writer
}

// NewRunner creates a runner with the given engine preference for container
// requests. Backend stdout is streamed to os.Stdout by default.
func NewRunner(pref engine.EngineType) *Runner {
	return &Runner{
		enginePref:  pref,
		logger:      log.Default(),
		execCommand: exec.CommandContext,
		stdout:      os.Stdout,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) { r.logger = l }

// SetStdout redirects the streamed backend stdout.
func (r *Runner) SetStdout(w io.Writer) { r.stdout = w }

// Check runs only the availability phase for a request and returns the
// selected builder. The caller can use the builder for dry-run output.
func (r *Runner) Check(req *backend.ExecutionRequest) (invoke.Builder, error) {
	builder, err := invoke.ForRequest(req, r.enginePref)
	if err != nil {
		return nil, err
	}
	if err := builder.Available(req); err != nil {
		return nil, err
	}
	return builder, nil
}

// Run executes a request once per seed. Seeds may be empty, in which case the
// request's own seed is used. The first failing seed stops the run.
func (r *Runner) Run(ctx context.Context, req *backend.ExecutionRequest, seeds []int) *Result {
	if len(seeds) == 0 {
		seeds = []int{req.Seed}
	}

	tracker := NewTracker()

	builder, err := r.Check(req)
	if err != nil {
		_ = tracker.Transition(StateUnavailable)
		r.logger.Error("backend unavailable", "backend", req.Backend.Name, "mode", req.Mode(), "err", err)
		return failedResult(tracker.State(), err)
	}
	if err := tracker.Transition(StateAvailable); err != nil {
		return failedResult(tracker.State(), err)
	}

	var last *Result
	for _, seed := range seeds {
		seedReq, err := r.seedRequest(req, seed)
		if err != nil {
			return failedResult(tracker.State(), err)
		}

		vec, err := builder.Build(seedReq)
		if err != nil {
			return failedResult(tracker.State(), err)
		}
		if tracker.State() == StateAvailable {
			if err := tracker.Transition(StateCommandBuilt); err != nil {
				return failedResult(tracker.State(), err)
			}
		}

		r.logger.Info("running backend", "backend", req.Backend.Name, "mode", req.Mode(), "seed", seed)
		last = r.spawn(ctx, seedReq, vec)
		if tracker.State() == StateCommandBuilt {
			if err := tracker.Transition(StateExecuted); err != nil {
				return failedResult(tracker.State(), err)
			}
		}
		last.State = tracker.State()
		if !last.Success() {
			return last
		}
	}

	r.logger.Info("backend run complete", "backend", req.Backend.Name)
	return last
}

// seedRequest derives the per-seed request: the seed value itself and, for
// seed-scoped backends, a dedicated output subdirectory created before path
// resolution so the translator sees an existing directory.
func (r *Runner) seedRequest(req *backend.ExecutionRequest, seed int) (*backend.ExecutionRequest, error) {
	seedReq := req.Clone()
	seedReq.Seed = seed

	if req.Backend.SeedScopedOutput {
		base, ok := req.Path(backend.RoleOutput)
		if !ok {
			return nil, &backend.MissingInputError{
				Backend: req.Backend.Name,
				Role:    backend.RoleOutput,
				Mode:    req.Mode(),
			}
		}
		seedDir := fspath.JoinStr(base, fmt.Sprintf("%s_output_seed-%d", req.Backend.Name, seed))
		if err := os.MkdirAll(seedDir.String(), 0o755); err != nil {
			return nil, fmt.Errorf("creating seed output directory: %w", err)
		}
		seedReq.Paths[backend.RoleOutput] = seedDir
	}

	return seedReq, nil
}

// spawn runs the vector, streaming stdout while capturing it, and capturing
// stderr for the error log. Exit status and OOM markers decide the result.
func (r *Runner) spawn(ctx context.Context, req *backend.ExecutionRequest, vec invoke.CommandVector) *Result {
	cmd := r.execCommand(ctx, vec[0], vec[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(r.stdout, &stdout)
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = types.ExitCode(exitErr.ExitCode())
		} else {
			result.ExitCode = 1
			result.Error = fmt.Errorf("failed to spawn backend process: %w", err)
		}
		r.writeErrorLog(req, stderr.String())
		return result
	}

	if req.Backend.OOMPattern != "" && strings.Contains(stdout.String(), req.Backend.OOMPattern) {
		result.ExitCode = 1
		result.Error = fmt.Errorf("backend %q ran out of memory", req.Backend.Name)
		return result
	}

	return result
}

// writeErrorLog persists captured stderr as <backend>_error.log in the output
// directory, so operators can inspect failures without re-running.
func (r *Runner) writeErrorLog(req *backend.ExecutionRequest, stderr string) {
	if stderr == "" {
		return
	}
	outDir, ok := req.Path(backend.RoleOutput)
	if !ok {
		return
	}
	logPath := fspath.JoinStr(outDir, req.Backend.Name+"_error.log")
	if err := os.WriteFile(logPath.String(), []byte(stderr), 0o644); err != nil {
		r.logger.Error("could not write error log", "path", logPath, "err", err)
		return
	}
	r.logger.Error("backend run failed, error log written", "backend", req.Backend.Name, "log", logPath)
}
