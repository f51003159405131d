// SPDX-License-Identifier: MPL-2.0

package backend

import (
	"errors"
	"fmt"

	"foldrun-cli/pkg/types"
)

var (
	// ErrMissingInput is the sentinel error wrapped by MissingInputError.
	ErrMissingInput = errors.New("missing input")

	// ErrContainerImageNotFound is the sentinel error wrapped by ContainerImageNotFoundError.
	ErrContainerImageNotFound = errors.New("container image not found")

	// ErrBackendNotInstalled is the sentinel error wrapped by BackendNotInstalledError.
	ErrBackendNotInstalled = errors.New("backend not installed")

	// ErrUnsupportedBackendGrammar is the sentinel error wrapped by UnsupportedBackendGrammarError.
	ErrUnsupportedBackendGrammar = errors.New("unsupported backend grammar")

	// ErrUnknownBackend is returned when a backend name is not registered.
	ErrUnknownBackend = errors.New("unknown backend")
)

type (
	// MissingInputError is returned when a required host path is absent at
	// resolution time. It is raised before any process is spawned.
	MissingInputError struct {
		Backend string
		Role    Role
		Path    types.FilesystemPath
		Mode    Mode
	}

	// ContainerImageNotFoundError is returned when container execution is
	// requested but the declared image path does not exist on the host.
	ContainerImageNotFoundError struct {
		Backend string
		Image   types.FilesystemPath
	}

	// BackendNotInstalledError is returned when no container image is supplied
	// and the backend's native executable cannot be found on PATH.
	BackendNotInstalledError struct {
		Backend    string
		Executable string
	}

	// UnsupportedBackendGrammarError is returned when a requested option cannot
	// be expressed in the backend's fixed command grammar.
	UnsupportedBackendGrammarError struct {
		Backend string
		Option  string
		Reason  string
	}
)

// Error identifies the backend, the missing resource, and the requested mode,
// so the operator can fix configuration without inspecting generated commands.
func (e *MissingInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("backend %q (%s mode): required %s path was not supplied", e.Backend, e.Mode, e.Role)
	}
	return fmt.Sprintf("backend %q (%s mode): required %s path %q does not exist", e.Backend, e.Mode, e.Role, e.Path)
}

// Unwrap returns ErrMissingInput for errors.Is() compatibility.
func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

// Error implements the error interface.
func (e *ContainerImageNotFoundError) Error() string {
	return fmt.Sprintf("backend %q (container mode): image %q does not exist", e.Backend, e.Image)
}

// Unwrap returns ErrContainerImageNotFound for errors.Is() compatibility.
func (e *ContainerImageNotFoundError) Unwrap() error { return ErrContainerImageNotFound }

// Error implements the error interface.
func (e *BackendNotInstalledError) Error() string {
	return fmt.Sprintf("backend %q (direct mode): executable %q not found on PATH", e.Backend, e.Executable)
}

// Unwrap returns ErrBackendNotInstalled for errors.Is() compatibility.
func (e *BackendNotInstalledError) Unwrap() error { return ErrBackendNotInstalled }

// Error implements the error interface.
func (e *UnsupportedBackendGrammarError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("backend %q: option %q not representable: %s", e.Backend, e.Option, e.Reason)
	}
	return fmt.Sprintf("backend %q: option %q is not representable in this backend's grammar", e.Backend, e.Option)
}

// Unwrap returns ErrUnsupportedBackendGrammar for errors.Is() compatibility.
func (e *UnsupportedBackendGrammarError) Unwrap() error { return ErrUnsupportedBackendGrammar }
