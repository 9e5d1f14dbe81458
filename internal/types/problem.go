// Package types defines the problem record shared by the store, the match
// resolver and the CLI.
package types

import (
	"strings"
	"time"
)

// Kind identifies the analyzer that produced a problem.
type Kind string

// Problem kinds known to the tool. Anything else maps to KindUnknown.
const (
	KindCCpp       Kind = "CCpp"
	KindPython     Kind = "Python"
	KindPython3    Kind = "Python3"
	KindKerneloops Kind = "Kerneloops"
	KindVMCore     Kind = "vmcore"
	KindJava       Kind = "Java"
	KindXorg       Kind = "xorg"
	KindRuby       Kind = "Ruby"
	KindJavaScript Kind = "JavaScript"
	KindUnknown    Kind = "unknown"
)

var knownKinds = []Kind{
	KindCCpp,
	KindPython,
	KindPython3,
	KindKerneloops,
	KindVMCore,
	KindJava,
	KindXorg,
	KindRuby,
	KindJavaScript,
}

// ParseKind maps the contents of a problem's type element to a Kind.
// Matching is case-insensitive; unrecognised values yield KindUnknown.
func ParseKind(s string) Kind {
	s = strings.TrimSpace(s)
	for _, k := range knownKinds {
		if strings.EqualFold(s, string(k)) {
			return k
		}
	}
	return KindUnknown
}

// SupportsBacktraceTools reports whether gdb, retracing and debuginfo
// installation apply to problems of this kind. Only native crashes carry a
// core dump those tools can work on.
func (k Kind) SupportsBacktraceTools() bool {
	return k == KindCCpp
}

// ReportedTo is one line of a problem's reported_to element, e.g.
// "Bugzilla: URL=https://bugzilla.redhat.com/show_bug.cgi?id=1".
type ReportedTo struct {
	Label  string `json:"label" yaml:"label"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	BTHash string `json:"bthash,omitempty" yaml:"bthash,omitempty"`
	Raw    string `json:"-" yaml:"-"`
}

// Problem is a stored crash report. Instances are owned by the store and
// treated as read-only snapshots by everything else.
type Problem struct {
	// ID is the store-assigned full identifier (the problem directory path).
	ID string `json:"id" yaml:"id"`
	// ShortID is a compact key derived from ID. Collisions are possible.
	ShortID string `json:"short_id" yaml:"short_id"`
	// Path is the directory holding the problem data.
	Path string `json:"path" yaml:"path"`
	Kind Kind   `json:"type" yaml:"type"`

	Component  string `json:"component,omitempty" yaml:"component,omitempty"`
	Executable string `json:"executable,omitempty" yaml:"executable,omitempty"`
	Package    string `json:"package,omitempty" yaml:"package,omitempty"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Cmdline    string `json:"cmdline,omitempty" yaml:"cmdline,omitempty"`
	Hostname   string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	OSRelease  string `json:"os_release,omitempty" yaml:"os_release,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`

	// UID of the crashed process; -1 when the problem has no uid element.
	UID   int `json:"uid" yaml:"uid"`
	Count int `json:"count" yaml:"count"`

	// Time is the most recent occurrence of the problem.
	Time time.Time `json:"time" yaml:"time"`
	// FirstOccurrence is when the problem was first recorded.
	FirstOccurrence time.Time `json:"first_occurrence" yaml:"first_occurrence"`

	Backtrace     string       `json:"backtrace,omitempty" yaml:"backtrace,omitempty"`
	ReportedTo    []ReportedTo `json:"reported_to,omitempty" yaml:"reported_to,omitempty"`
	NotReportable string       `json:"not_reportable,omitempty" yaml:"not_reportable,omitempty"`
}

// HasBacktrace reports whether analysed backtrace data is present.
func (p *Problem) HasBacktrace() bool {
	return strings.TrimSpace(p.Backtrace) != ""
}

// IsReported reports whether the problem has been submitted anywhere.
func (p *Problem) IsReported() bool {
	return len(p.ReportedTo) > 0
}

// HumanID returns the friendly identifier of the problem together with the
// name of the field it came from. The component wins over the executable;
// problems with neither fall back to their kind.
func (p *Problem) HumanID() (field, value string) {
	switch {
	case p.Component != "":
		return "component", p.Component
	case p.Executable != "":
		return "executable", p.Executable
	case p.Kind != "" && p.Kind != KindUnknown:
		return "type", string(p.Kind)
	default:
		return "type", string(KindUnknown)
	}
}

// HumanIDValue is HumanID without the field name.
func (p *Problem) HumanIDValue() string {
	_, v := p.HumanID()
	return v
}

// MatchString is the compound token that selects exactly this problem:
// humanId@shortId.
func (p *Problem) MatchString() string {
	return p.HumanIDValue() + "@" + p.ShortID
}
