package timeparsing

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	nlpOnce   sync.Once
	nlpParser *when.Parser
)

func parser() *when.Parser {
	nlpOnce.Do(func() {
		nlpParser = when.New(nil)
		nlpParser.Add(en.All...)
		nlpParser.Add(common.All...)
	})
	return nlpParser
}

// ParseNaturalLanguage parses English expressions such as "yesterday",
// "3 days ago" or "last friday at 5pm" relative to now.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	r, err := parser().Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized time expression: %q", s)
	}
	return r.Time, nil
}

// ParseRelativeTime runs every layer in order and returns the first match.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	if t, err := ParseUnixSeconds(s); err == nil {
		return t, nil
	}
	if IsCompactDuration(s) {
		return ParseCompactDuration(s, now)
	}
	if t, err := ParseAbsolute(s, now); err == nil {
		return t, nil
	}
	if t, err := ParseNaturalLanguage(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q: use unix seconds, a duration like -2d, a date like 2006-01-02, or an expression like \"yesterday\"", s)
}
