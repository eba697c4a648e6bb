// Package cmdparse classifies opaque shell command lines executed by the
// codex agent into semantic actions (file read, directory listing, text
// search, or opaque run) and derives a one-line human summary. It is a pure
// string transformation: no I/O, no filesystem access, never fails. Anything
// it does not recognize degrades to an opaque "Ran <command>" entry.
package cmdparse

import (
	"fmt"
	"strings"
)

// Kind is the semantic classification of one pipeline stage.
type Kind string

const (
	KindRead    Kind = "read"
	KindList    Kind = "list"
	KindSearch  Kind = "search"
	KindUnknown Kind = "unknown"
)

// ParsedCommand is the classification result for one pipeline stage.
// LineStart/LineEnd are zero-based and only meaningful for reads; nil means
// the bound is unknown. Kind == KindUnknown implies Path, Query and the line
// bounds are all empty.
type ParsedCommand struct {
	Kind      Kind
	Raw       string // Reconstructed token string for this stage
	Name      string // Short display label derived from Path
	Path      string // Path argument as written (may be relative)
	Query     string // Search query, for KindSearch
	LineStart *int
	LineEnd   *int
}

// CommandSummary is the top-level classifier output for one command line.
type CommandSummary struct {
	Title          string // "Explored" when every stage classified, else "Ran"
	Summary        string // One human-readable line
	DisplayCommand string // Trimmed original input
	Parsed         []ParsedCommand
}

// Summarize classifies a raw shell command line. It is total: every input,
// including empty or malformed ones, yields a well-formed summary.
func Summarize(command string) CommandSummary {
	display := strings.TrimSpace(command)
	if display == "" {
		return CommandSummary{Title: "Ran", Summary: "Unknown command", DisplayCommand: display}
	}

	tokens := tokenize(display)
	tokens = unwrapShellInvocation(tokens)
	tokens = stripConfirmationPipe(tokens)

	stages := splitStages(tokens)
	stages = dropFormattingStages(stages)

	parsed := classifyStages(stages)
	parsed = dedupConsecutive(parsed)

	return CommandSummary{
		Title:          deriveTitle(parsed),
		Summary:        deriveSummary(parsed),
		DisplayCommand: display,
		Parsed:         parsed,
	}
}

// dedupConsecutive removes runs of stages that are identical in
// (kind, raw, path, query). Agents frequently re-issue the same probe
// back to back; only adjacent repeats are collapsed.
func dedupConsecutive(in []ParsedCommand) []ParsedCommand {
	out := make([]ParsedCommand, 0, len(in))
	for _, p := range in {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Kind == p.Kind && prev.Raw == p.Raw && prev.Path == p.Path && prev.Query == p.Query {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func deriveTitle(parsed []ParsedCommand) string {
	if len(parsed) == 0 {
		return "Ran"
	}
	for _, p := range parsed {
		if p.Kind == KindUnknown {
			return "Ran"
		}
	}
	return "Explored"
}

// deriveSummary groups stages by kind in fixed order (reads, lists, searches,
// unknowns) and joins the group phrases with a middle dot.
func deriveSummary(parsed []ParsedCommand) string {
	if len(parsed) == 0 {
		return "Unknown command"
	}

	var reads, lists, searches, unknowns []string
	for _, p := range parsed {
		switch p.Kind {
		case KindRead:
			reads = append(reads, readLabel(p))
		case KindList:
			lists = append(lists, p.Path)
		case KindSearch:
			searches = append(searches, searchLabel(p))
		default:
			unknowns = append(unknowns, p.Raw)
		}
	}

	var groups []string
	if len(reads) > 0 {
		groups = append(groups, "Read "+strings.Join(reads, ", "))
	}
	if len(lists) > 0 {
		groups = append(groups, "Listed "+strings.Join(lists, ", "))
	}
	if len(searches) > 0 {
		groups = append(groups, "Searched "+strings.Join(searches, ", "))
	}
	if len(unknowns) > 0 {
		groups = append(groups, "Ran "+strings.Join(unknowns, ", "))
	}
	return strings.Join(groups, " · ")
}

// readLabel renders a read stage for the summary line, appending a one-based
// line range when both bounds are known and sane.
func readLabel(p ParsedCommand) string {
	label := p.Name
	if label == "" {
		label = p.Path
	}
	if label == "" {
		label = "piped output"
	}
	if p.LineStart != nil && p.LineEnd != nil && *p.LineEnd >= *p.LineStart {
		label = fmt.Sprintf("%s:%d-%d", label, *p.LineStart+1, *p.LineEnd+1)
	}
	return label
}

func searchLabel(p ParsedCommand) string {
	switch {
	case p.Query != "" && p.Path != "":
		return fmt.Sprintf("%q in %s", p.Query, p.Path)
	case p.Query != "":
		return fmt.Sprintf("%q", p.Query)
	case p.Path != "":
		return "in " + p.Path
	default:
		return "files"
	}
}

// noiseDirs are path segments skipped when picking a display name; they say
// nothing about which file the agent actually touched.
var noiseDirs = map[string]bool{
	"build":        true,
	"dist":         true,
	"node_modules": true,
	"src":          true,
}

// displayName picks a short label for a path: the last segment that is not a
// well-known noise directory. If every segment is noise the full normalized
// path is returned.
func displayName(p string) string {
	norm := strings.ReplaceAll(p, "\\", "/")
	norm = strings.TrimSuffix(norm, "/")
	if norm == "" {
		return p
	}
	segs := strings.Split(norm, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] == "" {
			continue
		}
		if !noiseDirs[segs[i]] {
			return segs[i]
		}
	}
	return norm
}

func intPtr(n int) *int { return &n }
