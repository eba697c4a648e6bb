package cmdparse

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

// classifyStages classifies each pipeline stage in order. `cd` stages update
// a local working directory instead of emitting an entry, and later relative
// read paths are joined against it so `cd src && cat index.ts` points at
// src/index.ts.
func classifyStages(stages [][]string) []ParsedCommand {
	out := make([]ParsedCommand, 0, len(stages))
	cwd := ""

	for _, stage := range stages {
		if len(stage) == 0 {
			continue
		}
		if stage[0] == "cd" {
			if len(stage) > 1 {
				dir := stage[1]
				if cwd == "" || isAbsolute(dir) {
					cwd = dir
				} else {
					cwd = path.Join(cwd, dir)
				}
			}
			continue
		}

		p := classifyStage(stage)
		if p.Kind == KindRead && p.Path != "" && cwd != "" && !isAbsolute(p.Path) {
			p.Path = path.Join(cwd, p.Path)
			p.Name = displayName(p.Path)
		}
		out = append(out, p)
	}
	return out
}

func isAbsolute(p string) bool {
	return strings.HasPrefix(p, "/") || strings.HasPrefix(p, "~")
}

// classifyStage dispatches on the stage's head token. Anything unrecognized
// comes back as KindUnknown with only Raw populated.
func classifyStage(stage []string) ParsedCommand {
	raw := strings.Join(stage, " ")
	head := stage[0]
	args := stage[1:]

	switch head {
	case "ls":
		return classifyList(raw, args)
	case "rg":
		return classifyRipgrep(raw, args)
	case "grep":
		return classifyGrep(raw, args)
	case "fd":
		return classifyFd(raw, args)
	case "find":
		return classifyFind(raw, args)
	case "cat":
		return classifyCat(raw, args)
	case "head":
		return classifyHead(raw, args)
	case "tail":
		return classifyTail(raw, args)
	case "nl":
		return classifyNl(raw, args)
	case "sed":
		if r := parseSedRangeRead(stage); r != nil {
			return ParsedCommand{
				Kind:      KindRead,
				Raw:       raw,
				Name:      displayName(r.path),
				Path:      r.path,
				LineStart: intPtr(r.start - 1),
				LineEnd:   intPtr(r.end - 1),
			}
		}
	}
	return ParsedCommand{Kind: KindUnknown, Raw: raw}
}

// positionals returns the non-flag arguments of a stage. Flags named in
// valueFlags consume the following token unless written as --flag=value.
// A bare "--" ends flag scanning; everything after it is positional.
func positionals(args []string, valueFlags map[string]bool) []string {
	var pos []string
	flagsDone := false
	for i := 0; i < len(args); i++ {
		a := args[i]
		if flagsDone {
			pos = append(pos, a)
			continue
		}
		if a == "--" {
			flagsDone = true
			continue
		}
		if len(a) > 1 && strings.HasPrefix(a, "-") {
			if valueFlags[a] && !strings.Contains(a, "=") && i+1 < len(args) {
				i++
			}
			continue
		}
		pos = append(pos, a)
	}
	return pos
}

func classifyList(raw string, args []string) ParsedCommand {
	p := "."
	if pos := positionals(args, nil); len(pos) > 0 {
		p = pos[0]
	}
	return ParsedCommand{Kind: KindList, Raw: raw, Name: displayName(p), Path: p}
}

var rgValueFlags = map[string]bool{
	"-g": true, "--glob": true,
	"-t": true, "--type": true,
	"-T": true, "--type-not": true,
	"-A": true, "-B": true, "-C": true, "--context": true,
	"-m": true, "--max-count": true,
	"-e": true, "--regexp": true,
	"--max-depth": true, "--max-filesize": true,
}

func classifyRipgrep(raw string, args []string) ParsedCommand {
	filesOnly := false
	for _, a := range args {
		if a == "--files" {
			filesOnly = true
			break
		}
	}

	pos := positionals(args, rgValueFlags)
	out := ParsedCommand{Kind: KindSearch, Raw: raw}
	if filesOnly {
		// `rg --files <path>` lists files, no pattern positional.
		if len(pos) > 0 {
			out.Path = pos[0]
		}
	} else {
		if len(pos) > 0 {
			out.Query = pos[0]
		}
		if len(pos) > 1 {
			out.Path = pos[1]
		}
	}
	if out.Path != "" {
		out.Name = displayName(out.Path)
	}
	return out
}

var grepValueFlags = map[string]bool{
	"-e": true, "--regexp": true,
	"-A": true, "-B": true, "-C": true,
	"-m": true, "-f": true,
	"--include": true, "--exclude": true, "--exclude-dir": true,
}

func classifyGrep(raw string, args []string) ParsedCommand {
	pos := positionals(args, grepValueFlags)
	out := ParsedCommand{Kind: KindSearch, Raw: raw}
	if len(pos) > 0 {
		out.Query = pos[0]
	}
	if len(pos) > 1 {
		out.Path = pos[1]
		out.Name = displayName(out.Path)
	}
	return out
}

var fdValueFlags = map[string]bool{
	"-t": true, "--type": true,
	"-e": true, "--extension": true,
	"-E": true, "--exclude": true,
	"--search-path": true,
}

func classifyFd(raw string, args []string) ParsedCommand {
	pos := positionals(args, fdValueFlags)
	out := ParsedCommand{Kind: KindSearch, Raw: raw}
	if len(pos) > 0 {
		out.Query = pos[0]
	}
	if len(pos) > 1 {
		out.Path = pos[1]
		out.Name = displayName(out.Path)
	}
	return out
}

var findQueryFlags = map[string]bool{
	"-name": true, "-iname": true, "-path": true, "-regex": true,
}

func classifyFind(raw string, args []string) ParsedCommand {
	out := ParsedCommand{Kind: KindSearch, Raw: raw}
	for i := 0; i < len(args); i++ {
		a := args[i]
		if findQueryFlags[a] {
			if i+1 < len(args) && out.Query == "" {
				out.Query = args[i+1]
			}
			i++
			continue
		}
		if strings.HasPrefix(a, "-") || a == "!" || a == "(" || a == ")" {
			continue
		}
		if out.Path == "" {
			out.Path = a
		}
	}
	if out.Path != "" {
		out.Name = displayName(out.Path)
	}
	return out
}

func classifyCat(raw string, args []string) ParsedCommand {
	pos := positionals(args, nil)
	// Multi-file concatenation is not a single read; leave it opaque.
	if len(pos) > 1 {
		return ParsedCommand{Kind: KindUnknown, Raw: raw}
	}
	// Bare `cat` passes piped input through, which still ends a read pipeline.
	if len(pos) == 0 {
		return ParsedCommand{Kind: KindRead, Raw: raw}
	}
	return ParsedCommand{
		Kind:      KindRead,
		Raw:       raw,
		Name:      displayName(pos[0]),
		Path:      pos[0],
		LineStart: intPtr(0),
	}
}

func classifyHead(raw string, args []string) ParsedCommand {
	var lineEnd *int
	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "-n" && i+1 < len(args) {
			if n, err := strconv.Atoi(args[i+1]); err == nil && n > 0 {
				lineEnd = intPtr(n - 1)
			}
			i++
			continue
		}
		if strings.HasPrefix(a, "-n") && len(a) > 2 {
			if n, err := strconv.Atoi(a[2:]); err == nil && n > 0 {
				lineEnd = intPtr(n - 1)
			}
			continue
		}
		rest = append(rest, a)
	}

	pos := positionals(rest, nil)
	if len(pos) == 0 {
		return ParsedCommand{Kind: KindUnknown, Raw: raw}
	}
	return ParsedCommand{
		Kind:      KindRead,
		Raw:       raw,
		Name:      displayName(pos[0]),
		Path:      pos[0],
		LineStart: intPtr(0),
		LineEnd:   lineEnd,
	}
}

var tailValueFlags = map[string]bool{"-n": true, "-c": true}

func classifyTail(raw string, args []string) ParsedCommand {
	pos := positionals(args, tailValueFlags)
	if len(pos) == 0 {
		return ParsedCommand{Kind: KindUnknown, Raw: raw}
	}
	// Which lines tail shows depends on file length, so no range is claimed.
	return ParsedCommand{Kind: KindRead, Raw: raw, Name: displayName(pos[0]), Path: pos[0]}
}

var nlValueFlags = map[string]bool{
	"-s": true, "-w": true, "-v": true, "-i": true, "-b": true,
}

func classifyNl(raw string, args []string) ParsedCommand {
	pos := positionals(args, nlValueFlags)
	if len(pos) == 0 {
		return ParsedCommand{Kind: KindUnknown, Raw: raw}
	}
	return ParsedCommand{Kind: KindRead, Raw: raw, Name: displayName(pos[0]), Path: pos[0]}
}

var sedRangePattern = regexp.MustCompile(`^(\d+)(?:,(\d+))?p?$`)

type sedRange struct {
	start, end int // one-based, inclusive
	path       string
}

// parseSedRangeRead recognizes the paged-read shape `sed -n <range> <path>`,
// e.g. `sed -n 10,20p foo.ts`. Any other sed invocation returns nil.
func parseSedRangeRead(stage []string) *sedRange {
	if len(stage) != 4 || stage[0] != "sed" || stage[1] != "-n" {
		return nil
	}
	m := sedRangePattern.FindStringSubmatch(stage[2])
	if m == nil {
		return nil
	}
	start, err := strconv.Atoi(m[1])
	if err != nil || start < 1 {
		return nil
	}
	end := start
	if m[2] != "" {
		end, err = strconv.Atoi(m[2])
		if err != nil || end < start {
			return nil
		}
	}
	return &sedRange{start: start, end: end, path: stage[3]}
}
