// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ConfigLoadFailedId Id = iota + 1
	CatalogNotFoundId
	CatalogParseErrorId
	CatalogBuildFailedId
	CommandNotFoundId
	ParseFailedId
	ScriptExecutionFailedId
	SSHServerStartFailedId
	HostKeyFailedId
	PermissionDeniedId
)

const docsBase = "https://github.com/ykrasik/jaci/blob/main/docs/"

type (
	// Id identifies an issue in the catalog.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a help page for a class of problems.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

// Id returns the issue id.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns links into the project documentation.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// ExtLinks returns external links.
func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the issue, including its links, with the glamour style at
// stylePath ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration!

The configuration file could not be read or did not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ jaci config show
~~~
- Write a fresh default configuration:
~~~
$ jaci config init
~~~
- Remember that environment variables prefixed with ` + "`JACI_`" + ` override the file.`,
		docLinks: []HttpLink{docsBase + "configuration.md"},
	}

	catalogNotFoundIssue = &Issue{
		id: CatalogNotFoundId,
		mdMsg: `
# Catalog not found!

A command catalog listed in your configuration or on the command line does not exist.

## Things you can try:
- Check the ` + "`catalogs`" + ` list in your configuration
- Pass catalogs explicitly:
~~~
$ jaci --catalog ./tools.cue
~~~`,
		docLinks: []HttpLink{docsBase + "catalogs.md"},
	}

	catalogParseErrorIssue = &Issue{
		id: CatalogParseErrorId,
		mdMsg: `
# Catalog could not be parsed!

Catalogs are written in CUE, TOML or YAML and are validated against the catalog schema.

## Things you can try:
- Validate the file and read the reported paths:
~~~
$ jaci catalog validate ./tools.cue
~~~
- Parameter types must be one of: bool, int, double, string, flag, entry

## Example catalog:
~~~cue
directories: [{path: "net", description: "Network tools"}]
commands: [{
	name: "ping"
	path: "net"
	params: [{name: "host", type: "string"}, {name: "count", type: "int", default: 3}]
	script: "echo pinging $1 $2 times"
}]
~~~`,
		docLinks: []HttpLink{docsBase + "catalogs.md"},
	}

	catalogBuildFailedIssue = &Issue{
		id: CatalogBuildFailedId,
		mdMsg: `
# Command hierarchy could not be built!

Catalogs parsed, but their commands do not form a valid hierarchy.

## Common causes:
- A command and a directory share a name in the same directory
- Two catalogs define the same command
- A name contains ` + "`=`" + `, ` + "`/`" + `, whitespace, or is ` + "`.`" + ` or ` + "`..`" + `
- A parameter default does not match the parameter type`,
		docLinks: []HttpLink{docsBase + "catalogs.md"},
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found!

## Things you can try:
- List the current directory with ` + "`ls`" + ` or the whole tree with ` + "`ls recursive`" + `
- Press Tab to complete names
- Use an absolute path such as ` + "`/net/ping`",
	}

	parseFailedIssue = &Issue{
		id: ParseFailedId,
		mdMsg: `
# The command line could not be parsed!

Arguments are bound by position, or by name with ` + "`name=value`" + `. Flags are set by typing their name.

## Things you can try:
- Show a command's parameters:
~~~
> describe /net/ping
~~~
- Quote values containing spaces: ` + "`name=\"John Smith\"`",
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

Catalog scripts run in an embedded POSIX shell. Arguments are available as
` + "`$1..$n`" + ` and as ` + "`JACI_ARG_<NAME>`" + ` variables.

## Things you can try:
- Run the script with ` + "`set -x`" + ` at the top to trace it
- Check that external programs the script calls are on your PATH`,
	}

	sshServerStartFailedIssue = &Issue{
		id: SSHServerStartFailedId,
		mdMsg: `
# SSH server failed to start!

## Things you can try:
- Pick another port: ` + "`jaci serve --port 2323`" + `
- Check that no other process listens on the address
- Bind to localhost only: ` + "`jaci serve --host 127.0.0.1`",
		extLinks: []HttpLink{"https://github.com/charmbracelet/wish"},
	}

	hostKeyFailedIssue = &Issue{
		id: HostKeyFailedId,
		mdMsg: `
# SSH host key could not be loaded or created!

## Things you can try:
- Make sure the directory of ` + "`ssh.host_key_path`" + ` exists and is writable
- Delete a corrupt key file; a new one is generated on start`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

## Things you can try:
- Check file and directory permissions of catalogs, the history file and the host key
- Run jaci from a directory you own`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		catalogNotFoundIssue.Id():       catalogNotFoundIssue,
		catalogParseErrorIssue.Id():     catalogParseErrorIssue,
		catalogBuildFailedIssue.Id():    catalogBuildFailedIssue,
		commandNotFoundIssue.Id():       commandNotFoundIssue,
		parseFailedIssue.Id():           parseFailedIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		sshServerStartFailedIssue.Id():  sshServerStartFailedIssue,
		hostKeyFailedIssue.Id():         hostKeyFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

// Values returns every issue, ordered by id.
func Values() []*Issue {
	ids := make([]Id, 0, len(issues))
	for id := range issues {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]*Issue, len(ids))
	for i, id := range ids {
		out[i] = issues[id]
	}
	return out
}

// Get returns the issue with the given id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// For returns the issue linked to err through an ActionableError, or nil.
func For(err error) *Issue {
	var ae *ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return Get(ae.Issue)
	}
	return nil
}
