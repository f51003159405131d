// SPDX-License-Identifier: MPL-2.0

// Package invoke builds the final process invocation for one backend request.
//
// The direct/container split is a strategy: both builders walk the same
// grammar table from the backend spec, so flag semantics and ordering can
// never diverge between modes. Selection happens once, in ForRequest, keyed
// purely on whether the request carries a container image.
package invoke
