// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, so path operations stay typed-in /
// typed-out across the resolver.
package fspath

import (
	"fmt"
	"path/filepath"

	"foldrun-cli/pkg/types"
)

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
// The returned path inherits validity from its typed input components.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments. Use this when joining a validated path with literal constants
// or OS-provided file names (e.g., from os.ReadDir).
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Base wraps filepath.Base for FilesystemPath, returning the final element
// as a plain string (file names are not standalone paths).
func Base(p types.FilesystemPath) string {
	return filepath.Base(string(p))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// EvalSymlinks wraps filepath.EvalSymlinks for FilesystemPath. The input
// must name an existing path.
func EvalSymlinks(p types.FilesystemPath) (types.FilesystemPath, error) {
	resolved, err := filepath.EvalSymlinks(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}
	return types.FilesystemPath(resolved), nil
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}
