// SPDX-License-Identifier: MPL-2.0

package invoke

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// CommandVector is the ordered token sequence of one process invocation.
// It is consumed immediately by the pipeline runner and never persisted.
type CommandVector []string

// Clone returns an independent copy of the vector.
func (v CommandVector) Clone() CommandVector {
	out := make(CommandVector, len(v))
	copy(out, v)
	return out
}

// Shell renders the vector as a copy-pasteable shell line, quoting tokens
// that need it. Used by dry-run output; execution always passes the raw
// token slice, never this string.
func (v CommandVector) Shell() string {
	quoted := make([]string, len(v))
	for i, tok := range v {
		q, err := syntax.Quote(tok, syntax.LangBash)
		if err != nil {
			q = tok
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
