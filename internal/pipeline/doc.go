// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs resolved backend commands: availability check, command
// build, process spawn, and failure reporting, in that order, per backend and
// per seed. Backends never share output directories, so multiple backends can
// be run concurrently by the caller without coordination.
package pipeline
