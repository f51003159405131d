// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	MissingInputId Id = iota + 1
	ContainerImageNotFoundId
	BackendNotInstalledId
	UnsupportedBackendGrammarId
	EngineNotFoundId
	ConfigLoadFailedId
	PredictionRunFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	missingInputIssue = &Issue{
		id: MissingInputId,
		mdMsg: `
# Required input not found!

A required host path for the backend does not exist, so no command was built.

## Things you can try:
- Check that the input file path is spelled correctly
- Verify the file exists and is readable:
~~~
$ ls -l /path/to/your/input
~~~
- If the path is produced by an earlier pipeline stage, make sure that stage
  ran successfully before invoking foldrun`,
	}

	containerImageNotFoundIssue = &Issue{
		id: ContainerImageNotFoundId,
		mdMsg: `
# Container image not found!

You requested container execution but the image file does not exist.

## Things you can try:
- Check the image path passed via ` + "`--boltz-image`" + ` / ` + "`--chai-image`" + `
- Pull or build the image first:
~~~
$ apptainer pull boltz.sif docker://...
~~~
- Drop the image flag to run the natively installed backend instead`,
	}

	backendNotInstalledIssue = &Issue{
		id: BackendNotInstalledId,
		mdMsg: `
# Backend not installed!

No container image was supplied, and the backend's native executable could not
be found on PATH.

## Things you can try:
- Install the backend, e.g.:
~~~
$ pip install boltz
$ pip install chai_lab
~~~
- Or supply a container image instead:
~~~
$ foldrun predict --boltz-image /images/boltz.sif ...
~~~`,
	}

	unsupportedBackendGrammarIssue = &Issue{
		id: UnsupportedBackendGrammarId,
		mdMsg: `
# Option not supported by this backend!

A requested option cannot be expressed in the backend's command grammar.

## Common cases:
- ` + "`--use-templates-server`" + ` with a backend that has no template support (Boltz)
- ` + "`--use-templates-server`" + ` combined with ` + "`--template-hits`" + ` (mutually exclusive)

## Things you can try:
- Remove the unsupported option for this backend
- Run only the backends that support the option`,
	}

	engineNotFoundIssue = &Issue{
		id: EngineNotFoundId,
		mdMsg: `
# Container engine not found!

Container execution was requested but neither Apptainer nor Singularity is
available on PATH.

## Things you can try:
- Install Apptainer:
  - Linux: ` + "`sudo apt install apptainer`" + ` or ` + "`sudo dnf install apptainer`" + `
- Or install Singularity from your HPC module system:
~~~
$ module load singularity
~~~
- Or drop the image flags to run the natively installed backends`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the foldrun configuration file.

## Configuration file locations:
- Linux: ~/.config/foldrun/config.toml
- macOS: ~/Library/Application Support/foldrun/config.toml
- Windows: %APPDATA%\foldrun\config.toml

## Things you can try:
- Create a default configuration:
~~~
$ foldrun config init
~~~
- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~toml
engine = "apptainer"
samples = 5
recycles = 10
seed = 42

[boltz]
image = "/images/boltz.sif"
~~~`,
	}

	predictionRunFailedIssue = &Issue{
		id: PredictionRunFailedId,
		mdMsg: `
# Prediction run failed!

The backend process exited with an error.

## Things you can try:
- Inspect the error log written next to your outputs
  (` + "`boltz_error.log`" + ` / ` + "`chai_error.log`" + `)
- Run with verbose mode for more details:
~~~
$ foldrun --verbose predict ...
~~~
- For container runs, check that the image matches the backend version
- For GPU errors, verify the host driver is visible inside the container`,
	}

	issues = map[Id]*Issue{
		missingInputIssue.Id():              missingInputIssue,
		containerImageNotFoundIssue.Id():    containerImageNotFoundIssue,
		backendNotInstalledIssue.Id():       backendNotInstalledIssue,
		unsupportedBackendGrammarIssue.Id(): unsupportedBackendGrammarIssue,
		engineNotFoundIssue.Id():            engineNotFoundIssue,
		configLoadFailedIssue.Id():          configLoadFailedIssue,
		predictionRunFailedIssue.Id():       predictionRunFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
