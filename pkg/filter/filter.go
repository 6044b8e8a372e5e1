package filter

import (
	"fmt"
	"regexp"
	"strings"

	"srvclip/pkg/clipclient"
	"srvclip/pkg/history"

	"github.com/sahilm/fuzzy"
)

type FilterMode int

const (
	FilterModeNone FilterMode = iota
	FilterModeExact
	FilterModeContains
	FilterModeRegex
	FilterModeFuzzy
)

var modeNames = map[string]FilterMode{
	"exact":    FilterModeExact,
	"contains": FilterModeContains,
	"regex":    FilterModeRegex,
	"fuzzy":    FilterModeFuzzy,
}

// ModeNames lists the names ParseMode accepts.
func ModeNames() []string {
	return []string{"exact", "contains", "fuzzy", "regex"}
}

// ParseMode maps a mode name such as "regex" to its FilterMode.
func ParseMode(name string) (FilterMode, error) {
	mode, ok := modeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return FilterModeNone, fmt.Errorf("unknown filter mode %q (valid: %s)", name, strings.Join(ModeNames(), ", "))
	}
	return mode, nil
}

type StringFilter struct {
	Pattern string
	Mode    FilterMode
	regex   *regexp.Regexp
}

func NewStringFilter(pattern string, mode FilterMode) (*StringFilter, error) {
	f := &StringFilter{
		Pattern: pattern,
		Mode:    mode,
	}

	if mode == FilterModeRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern '%s': %w", pattern, err)
		}
		f.regex = re
	}

	return f, nil
}

func (f *StringFilter) Match(s string) bool {
	switch f.Mode {
	case FilterModeExact:
		return strings.EqualFold(s, f.Pattern)
	case FilterModeContains:
		return strings.Contains(strings.ToLower(s), strings.ToLower(f.Pattern))
	case FilterModeRegex:
		return f.regex != nil && f.regex.MatchString(s)
	case FilterModeFuzzy:
		return FuzzyMatch(f.Pattern, s)
	default:
		return true
	}
}

// FuzzyMatch reports whether every character of pattern appears in text in
// order, ignoring case.
func FuzzyMatch(pattern, text string) bool {
	if pattern == "" {
		return true
	}
	if text == "" {
		return false
	}
	return len(fuzzy.Find(strings.ToLower(pattern), []string{strings.ToLower(text)})) > 0
}

// EntryFilter selects history entries. Zero fields match everything.
type EntryFilter struct {
	Operation string
	Outcome   string
	// Target matches the request URL.
	Target *StringFilter
	// FailedOnly keeps entries whose outcome is neither success nor empty.
	FailedOnly bool
}

func (f *EntryFilter) Matches(e history.Entry) bool {
	if f.Operation != "" && !strings.EqualFold(e.Operation, f.Operation) {
		return false
	}
	if f.Outcome != "" && !strings.EqualFold(e.Outcome, f.Outcome) {
		return false
	}
	if f.FailedOnly && (e.Outcome == string(clipclient.OutcomeSuccess) || e.Outcome == string(clipclient.OutcomeEmpty)) {
		return false
	}
	if f.Target != nil && !f.Target.Match(e.Target) {
		return false
	}
	return true
}

// Apply returns the entries that match, keeping at most limit of them
// when limit is positive.
func (f *EntryFilter) Apply(entries []history.Entry, limit int) []history.Entry {
	var out []history.Entry
	for _, e := range entries {
		if !f.Matches(e) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
