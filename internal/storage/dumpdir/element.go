package dumpdir

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abrt/abrt-cli/internal/types"
)

// Element file names inside a problem directory.
const (
	elemTime           = "time"
	elemLastOccurrence = "last_occurrence"
	elemCount          = "count"
	elemType           = "type"
	elemAnalyzer       = "analyzer"
	elemComponent      = "component"
	elemExecutable     = "executable"
	elemPackage        = "package"
	elemReason         = "reason"
	elemCmdline        = "cmdline"
	elemUID            = "uid"
	elemUsername       = "username"
	elemHostname       = "hostname"
	elemOSRelease      = "os_release"
	elemBacktrace      = "backtrace"
	elemCoreBacktrace  = "core_backtrace"
	elemReportedTo     = "reported_to"
	elemNotReportable  = "not-reportable"
)

type dumpDir struct {
	path string
}

// element returns the trimmed content of one element. ok is false when the
// element does not exist.
func (d *dumpDir) element(name string) (value string, ok bool, err error) {
	data, err := os.ReadFile(filepath.Join(d.path, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, classify(err)
	}
	return strings.TrimRight(string(data), "\n"), true, nil
}

// text is element without the presence flag.
func (d *dumpDir) text(name string) (string, error) {
	v, _, err := d.element(name)
	return v, err
}

func (d *dumpDir) uid() (int, bool, error) {
	v, ok, err := d.element(elemUID)
	if err != nil || !ok {
		return -1, false, err
	}
	uid, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return -1, false, fmt.Errorf("parse %s: %w", elemUID, err)
	}
	return uid, true, nil
}

func (d *dumpDir) timestamp(name string) (time.Time, bool, error) {
	v, ok, err := d.element(name)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse %s: %w", name, err)
	}
	return time.Unix(secs, 0), true, nil
}

// problem reads the elements into a Problem. Directories without a time
// element are not problems and yield (nil, nil).
func (d *dumpDir) problem() (*types.Problem, error) {
	first, ok, err := d.timestamp(elemTime)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	p := NewProblem(d.path)
	p.FirstOccurrence = first
	p.Time = first
	if last, ok, err := d.timestamp(elemLastOccurrence); err != nil {
		return nil, err
	} else if ok {
		p.Time = last
	}

	if v, ok, err := d.element(elemCount); err != nil {
		return nil, err
	} else if ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			p.Count = n
		}
	}

	kind, ok, err := d.element(elemType)
	if err != nil {
		return nil, err
	}
	if !ok {
		if kind, err = d.text(elemAnalyzer); err != nil {
			return nil, err
		}
	}
	p.Kind = types.ParseKind(kind)

	fields := []struct {
		name string
		dst  *string
	}{
		{elemComponent, &p.Component},
		{elemExecutable, &p.Executable},
		{elemPackage, &p.Package},
		{elemReason, &p.Reason},
		{elemCmdline, &p.Cmdline},
		{elemUsername, &p.Username},
		{elemHostname, &p.Hostname},
		{elemOSRelease, &p.OSRelease},
		{elemNotReportable, &p.NotReportable},
	}
	for _, f := range fields {
		v, err := d.text(f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = strings.TrimSpace(v)
	}

	bt, ok, err := d.element(elemBacktrace)
	if err != nil {
		return nil, err
	}
	if !ok {
		if bt, err = d.text(elemCoreBacktrace); err != nil {
			return nil, err
		}
	}
	p.Backtrace = bt

	if uid, ok, err := d.uid(); err != nil {
		return nil, err
	} else if ok {
		p.UID = uid
	}

	reported, err := d.text(elemReportedTo)
	if err != nil {
		return nil, err
	}
	p.ReportedTo = ParseReportedTo(reported)
	return p, nil
}

// ParseReportedTo parses the reported_to element. Each line has the form
//
//	Label: KEY=VALUE KEY=VALUE ...
//
// MSG= takes the rest of the line. Lines without a label are ignored.
func ParseReportedTo(content string) []types.ReportedTo {
	var out []types.ReportedTo
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		label, rest, found := strings.Cut(line, ":")
		label = strings.TrimSpace(label)
		if label == "" || strings.Contains(label, "=") {
			continue
		}
		r := types.ReportedTo{Label: label, Raw: line}
		if found {
			parseReportedFields(&r, strings.TrimSpace(rest))
		}
		out = append(out, r)
	}
	return out
}

func parseReportedFields(r *types.ReportedTo, rest string) {
	for rest != "" {
		if strings.HasPrefix(rest, "MSG=") {
			return
		}
		field, tail, _ := strings.Cut(rest, " ")
		rest = strings.TrimSpace(tail)
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "URL":
			r.URL = strings.TrimSuffix(value, ",")
		case "BTHASH":
			r.BTHash = strings.TrimSuffix(value, ",")
		}
	}
}
