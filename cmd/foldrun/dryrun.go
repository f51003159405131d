// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"foldrun-cli/internal/backend"
	"foldrun-cli/internal/pipeline"
)

// renderDryRun resolves the strategy for a request and prints the command that
// would run, shell-quoted, without spawning anything.
func renderDryRun(runner *pipeline.Runner, req *backend.ExecutionRequest) error {
	builder, err := runner.Check(req)
	if err != nil {
		return err
	}

	vec, err := builder.Build(req)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n",
		SubtitleStyle.Render(fmt.Sprintf("[%s/%s]", req.Backend.Name, builder.Name())),
		CmdStyle.Render(vec.Shell()))
	return nil
}
