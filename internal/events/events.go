// Package events runs the external programs that act on a problem directory:
// retracing, reporting, gdb and debuginfo installation.
//
// Each event is a shell command template. Fields such as {{.Dir}} expand to
// single-quoted shell words, so problem data never reaches the shell as
// code. Compound arguments are built from the unquoted values in .Raw with
// shellquote:
//
//	-ex {{shellquote (printf "file %q" .Raw.Executable)}}
//
// The built-in table can be overridden per event from a TOML file:
//
//	[event.report_cli]
//	command = "reporter-bugzilla -d {{.Dir}}"
//	description = "Report to our Bugzilla"
package events

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
)

// Built-in event names.
const (
	EventLocalGDB         = "analyze_LocalGDB"
	EventRetraceServer    = "analyze_RetraceServer"
	EventReportCLI        = "report_cli"
	EventGDB              = "gdb"
	EventDebuginfoInstall = "debuginfo_install"
)

// ErrUnknownEvent is returned for event names with no definition.
var ErrUnknownEvent = errors.New("unknown event")

// Definition is one runnable event.
type Definition struct {
	Name        string `toml:"name"`
	Command     string `toml:"command"`
	Description string `toml:"description"`
}

// Vars are the values available to command templates.
type Vars struct {
	Dir           string
	ShortID       string
	Executable    string
	DebuginfoPath string
	LibexecDir    string
}

// BuiltinEvents contains the default event definitions.
var BuiltinEvents = map[string]Definition{
	EventLocalGDB: {
		Name:        EventLocalGDB,
		Command:     "abrt-action-analyze-core --core=coredump -o build_ids && abrt-action-install-debuginfo-to-abrt-cache --size_mb=4096 && abrt-action-generate-backtrace && abrt-action-analyze-backtrace",
		Description: "Generate a backtrace locally with gdb",
	},
	EventRetraceServer: {
		Name:        EventRetraceServer,
		Command:     "abrt-retrace-client batch --dir {{.Dir}} && abrt-action-analyze-backtrace",
		Description: "Upload the core dump to a retrace server",
	},
	EventReportCLI: {
		Name:        EventReportCLI,
		Command:     "report-cli -r {{.Dir}}",
		Description: "Report the problem interactively",
	},
	EventGDB: {
		Name:        EventGDB,
		Command:     `gdb -iex {{shellquote (printf "set debug-file-directory %s" .Raw.DebuginfoPath)}} -iex {{shellquote (printf "set solib-search-path %s" .Raw.DebuginfoPath)}} -ex {{shellquote (printf "file %q" .Raw.Executable)}} -ex 'core-file ./coredump'`,
		Description: "Open the core dump in gdb",
	},
	EventDebuginfoInstall: {
		Name:        EventDebuginfoInstall,
		Command:     `{{shellquote (print .Raw.LibexecDir "abrt-action-install-debuginfo-to-abrt-cache")}} --size_mb=4096`,
		Description: "Install debuginfo packages for the crashed program",
	},
}

// eventsFile is the on-disk layout of an events file.
type eventsFile struct {
	Event map[string]Definition `toml:"event"`
}

// Registry resolves event names to definitions.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry returns a registry holding the built-in events.
func NewRegistry() *Registry {
	defs := make(map[string]Definition, len(BuiltinEvents))
	for name, def := range BuiltinEvents {
		defs[name] = def
	}
	return &Registry{defs: defs}
}

// LoadFile merges the events defined in a TOML file over the registry.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's config
	if err != nil {
		return fmt.Errorf("read events file: %w", err)
	}
	var file eventsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse events file %s: %w", path, err)
	}
	for name, def := range file.Event {
		if strings.TrimSpace(def.Command) == "" {
			return fmt.Errorf("events file %s: event %q has no command", path, name)
		}
		def.Name = name
		if def.Description == "" {
			def.Description = r.defs[name].Description
		}
		r.defs[name] = def
	}
	return nil
}

// Override replaces the command of an event. An empty command is ignored.
func (r *Registry) Override(name, command string) {
	if strings.TrimSpace(command) == "" {
		return
	}
	def := r.defs[name]
	def.Name = name
	def.Command = command
	r.defs[name] = def
}

// Lookup returns the definition of name.
func (r *Registry) Lookup(name string) (Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
	return def, nil
}

// templateData is what command templates see: every field of Vars as a
// quoted shell word, plus the raw values.
type templateData struct {
	Dir           string
	ShortID       string
	Executable    string
	DebuginfoPath string
	LibexecDir    string
	Raw           Vars
}

var templateFuncs = template.FuncMap{"shellquote": shellQuote}

// shellQuote returns s as a single POSIX shell word.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Expand renders the command template with vars. Unknown fields are errors.
func (d Definition) Expand(vars Vars) (string, error) {
	tmpl, err := template.New(d.Name).Option("missingkey=error").Funcs(templateFuncs).Parse(d.Command)
	if err != nil {
		return "", fmt.Errorf("event %s: parse command: %w", d.Name, err)
	}
	data := templateData{
		Dir:           shellQuote(vars.Dir),
		ShortID:       shellQuote(vars.ShortID),
		Executable:    shellQuote(vars.Executable),
		DebuginfoPath: shellQuote(vars.DebuginfoPath),
		LibexecDir:    shellQuote(vars.LibexecDir),
		Raw:           vars,
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("event %s: expand command: %w", d.Name, err)
	}
	return b.String(), nil
}
