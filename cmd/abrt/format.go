package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abrt/abrt-cli/internal/resolver"
	"github.com/abrt/abrt-cli/internal/types"
	"github.com/abrt/abrt-cli/internal/ui"
)

// Built-in --pretty formats.
const (
	prettyFull    = "full"
	prettyMedium  = "medium"
	prettyShort   = "short"
	prettyOneline = "oneline"
)

var prettyFormats = []string{prettyFull, prettyMedium, prettyShort, prettyOneline}

// field is one labelled line of a pretty format.
type field struct {
	label string
	value func(p *types.Problem) string
}

var (
	fieldReason     = field{"reason", func(p *types.Problem) string { return p.Reason }}
	fieldTime       = field{"time", func(p *types.Problem) string { return formatTime(p.Time) }}
	fieldFirst      = field{"first seen", func(p *types.Problem) string { return formatTime(p.FirstOccurrence) }}
	fieldCmdline    = field{"cmdline", func(p *types.Problem) string { return p.Cmdline }}
	fieldPackage    = field{"package", func(p *types.Problem) string { return p.Package }}
	fieldComponent  = field{"component", func(p *types.Problem) string { return p.Component }}
	fieldExecutable = field{"executable", func(p *types.Problem) string { return p.Executable }}
	fieldType       = field{"type", func(p *types.Problem) string { return string(p.Kind) }}
	fieldUID        = field{"uid", formatUID}
	fieldCount      = field{"count", func(p *types.Problem) string { return strconv.Itoa(p.Count) }}
	fieldHostname   = field{"hostname", func(p *types.Problem) string { return p.Hostname }}
	fieldOSRelease  = field{"os release", func(p *types.Problem) string { return p.OSRelease }}
	fieldPath       = field{"Directory", func(p *types.Problem) string { return p.Path }}
	fieldReported   = field{"Reported", renderReported}
)

var prettyFields = map[string][]field{
	prettyFull: {
		fieldReason, fieldTime, fieldFirst, fieldCmdline, fieldPackage,
		fieldComponent, fieldExecutable, fieldType, fieldUID, fieldCount,
		fieldHostname, fieldOSRelease, fieldPath, fieldReported,
	},
	prettyMedium: {
		fieldReason, fieldTime, fieldCmdline, fieldPackage, fieldUID,
		fieldCount, fieldPath, fieldReported,
	},
	prettyShort: {
		fieldReason, fieldTime, fieldCount, fieldPath,
	},
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(resolver.CandidateTimeLayout)
}

func formatUID(p *types.Problem) string {
	if p.UID < 0 {
		return ""
	}
	if p.Username != "" {
		return fmt.Sprintf("%d (%s)", p.UID, p.Username)
	}
	return strconv.Itoa(p.UID)
}

func formatReported(p *types.Problem) string {
	if !p.IsReported() {
		if p.NotReportable != "" {
			return "cannot be reported"
		}
		return "no"
	}
	targets := make([]string, 0, len(p.ReportedTo))
	for _, r := range p.ReportedTo {
		if r.URL != "" {
			targets = append(targets, r.URL)
		} else {
			targets = append(targets, r.Label)
		}
	}
	return strings.Join(targets, ", ")
}

// renderReported is formatReported styled by reporting state.
func renderReported(p *types.Problem) string {
	s := formatReported(p)
	switch {
	case p.IsReported():
		return ui.RenderReported(s)
	case p.NotReportable != "":
		return ui.RenderWarn(s)
	default:
		return ui.RenderMuted(s)
	}
}

// problemFormatter renders problems as text, either through a built-in
// pretty format or a user template.
type problemFormatter struct {
	pretty string
	tmpl   *template.Template
}

// newProblemFormatter validates pretty and parses fmtStr. A non-empty fmtStr
// takes precedence over pretty.
func newProblemFormatter(pretty, fmtStr string) (*problemFormatter, error) {
	f := &problemFormatter{pretty: pretty}
	if fmtStr != "" {
		tmpl, err := template.New("fmt").Funcs(templateFuncs).Parse(fmtStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --fmt template: %w", err)
		}
		f.tmpl = tmpl
		return f, nil
	}
	if pretty != prettyOneline {
		if _, ok := prettyFields[pretty]; !ok {
			return nil, fmt.Errorf("invalid --pretty format %q (want %s)", pretty, strings.Join(prettyFormats, ", "))
		}
	}
	return f, nil
}

var templateFuncs = template.FuncMap{
	"time":     formatTime,
	"human":    func(p *types.Problem) string { return p.HumanIDValue() },
	"match":    func(p *types.Problem) string { return p.MatchString() },
	"reported": formatReported,
	"uid":      formatUID,
}

// Format renders a single problem without a trailing newline.
func (f *problemFormatter) Format(p *types.Problem) (string, error) {
	if f.tmpl != nil {
		var b strings.Builder
		if err := f.tmpl.Execute(&b, p); err != nil {
			return "", fmt.Errorf("rendering --fmt template: %w", err)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}
	if f.pretty == prettyOneline {
		return fmt.Sprintf("%s %s %s", ui.RenderID(p.ShortID), formatTime(p.Time), p.MatchString()), nil
	}

	fields := prettyFields[f.pretty]
	width := 0
	for _, fl := range fields {
		if len(fl.label) > width {
			width = len(fl.label)
		}
	}
	var b strings.Builder
	b.WriteString(ui.RenderID("id " + p.ShortID))
	for _, fl := range fields {
		value := fl.value(p)
		if value == "" {
			continue
		}
		label := fmt.Sprintf("%-*s", width+1, fl.label+":")
		fmt.Fprintf(&b, "\n%s %s", ui.RenderLabel(label), value)
	}
	return b.String(), nil
}

// FormatAll renders problems separated the way git log does: blank lines
// between multi-line entries, none between oneline entries.
func (f *problemFormatter) FormatAll(problems []*types.Problem) (string, error) {
	sep := "\n\n"
	if f.tmpl == nil && f.pretty == prettyOneline {
		sep = "\n"
	}
	parts := make([]string, 0, len(problems))
	for _, p := range problems {
		s, err := f.Format(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}

// encode writes v in the machine-readable output mode.
func (a *app) encode(w io.Writer, v interface{}) error {
	switch a.output {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	}
}

// structured reports whether output goes through encode.
func (a *app) structured() bool {
	return a.output == outputJSON || a.output == outputYAML
}
