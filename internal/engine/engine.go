// SPDX-License-Identifier: EPL-2.0

// Package engine provides an abstraction layer for the container runtimes that
// can execute prediction images (Apptainer/Singularity).
package engine

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Engine defines the interface for container runtime operations.
type Engine interface {
	// Name returns the engine name (apptainer or singularity).
	Name() string
	// Available checks if the engine is available on the system.
	Available() bool
	// Version returns the engine version.
	Version(ctx context.Context) (string, error)
	// ExecPrefix returns the invocation prefix for running a command inside an
	// image: the engine token, the exec subcommand, and the GPU passthrough flag.
	ExecPrefix() []string
}

// EngineType identifies the container engine type.
type EngineType string

const (
	EngineTypeApptainer   EngineType = "apptainer"
	EngineTypeSingularity EngineType = "singularity"
)

// ErrEngineNotAvailable is returned when a container engine is not available.
type ErrEngineNotAvailable struct {
	Engine string
	Reason string
}

func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// lookPath is swapped in tests to control which engines appear installed.
var lookPath = exec.LookPath

// execCommand is swapped in tests to stub version probes.
var execCommand = exec.CommandContext

// cliEngine is the shared implementation behind both engines: Apptainer and
// Singularity expose the same CLI surface, they differ only in binary name.
type cliEngine struct {
	name string
}

// Name returns the engine name.
func (e *cliEngine) Name() string { return e.name }

// Available checks whether the engine binary is on PATH.
func (e *cliEngine) Available() bool {
	_, err := lookPath(e.name)
	return err == nil
}

// Version runs `<engine> --version` and returns the trimmed output.
func (e *cliEngine) Version(ctx context.Context) (string, error) {
	out, err := execCommand(ctx, e.name, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("querying %s version: %w", e.name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ExecPrefix returns [engine, "exec", "--nv"]. The --nv flag passes the host
// GPU through; prediction backends are unusable without it.
func (e *cliEngine) ExecPrefix() []string {
	return []string{e.name, "exec", "--nv"}
}

// NewApptainerEngine creates an Apptainer engine.
func NewApptainerEngine() Engine { return &cliEngine{name: string(EngineTypeApptainer)} }

// NewSingularityEngine creates a Singularity engine.
func NewSingularityEngine() Engine { return &cliEngine{name: string(EngineTypeSingularity)} }

// NewEngine creates a container engine based on preference, falling back to
// the other engine when the preferred one is not installed.
func NewEngine(preferredType EngineType) (Engine, error) {
	switch preferredType {
	case EngineTypeApptainer:
		eng := NewApptainerEngine()
		if eng.Available() {
			return eng, nil
		}
		fallback := NewSingularityEngine()
		if fallback.Available() {
			return fallback, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: string(EngineTypeApptainer),
			Reason: "apptainer is not installed or not accessible, and singularity fallback is also not available",
		}

	case EngineTypeSingularity:
		eng := NewSingularityEngine()
		if eng.Available() {
			return eng, nil
		}
		fallback := NewApptainerEngine()
		if fallback.Available() {
			return fallback, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: string(EngineTypeSingularity),
			Reason: "singularity is not installed or not accessible, and apptainer fallback is also not available",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferredType)
	}
}

// AutoDetectEngine tries to find an available container engine, preferring
// Apptainer (the maintained fork) over Singularity.
func AutoDetectEngine() (Engine, error) {
	apptainer := NewApptainerEngine()
	if apptainer.Available() {
		return apptainer, nil
	}

	singularity := NewSingularityEngine()
	if singularity.Available() {
		return singularity, nil
	}

	return nil, &ErrEngineNotAvailable{
		Engine: "any",
		Reason: "no container engine (apptainer or singularity) is available on this system",
	}
}
