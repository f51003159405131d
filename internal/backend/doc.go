// SPDX-License-Identifier: MPL-2.0

// Package backend describes the invocation grammar of each structure-prediction
// backend as static data.
//
// A BackendSpec is a table entry, not a code path: it lists the executable
// tokens, the ordered argument slots, the filesystem roles the backend needs,
// and the optional features its grammar can express. Adding a backend means
// registering a new spec, never branching in the command builders.
package backend
