// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for foldrun.
//
// This package implements the Cobra command hierarchy: `predict` resolves and
// runs prediction backends, `check` probes their availability, and `config`
// manages the TOML configuration. Handlers assemble ExecutionRequests and
// delegate everything else to internal/pipeline.
package cmd
