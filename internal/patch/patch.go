// Package patch contains best-effort heuristics over patch text: deriving the
// first changed line from a unified diff, and fishing the patch block for a
// given file out of captured command output. The agent does not always report
// diffs explicitly, so these routines never fail hard; when nothing matches
// they return zero values and the caller degrades gracefully.
package patch

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// FirstChangedLine derives the first changed line of a unified diff, 1-based
// in the new file. Within the first hunk, the first added line wins; if the
// hunk only removes, the hunk's target start line is reported. Returns 0 when
// the text has no numbered hunk header.
func FirstChangedLine(diff string) int {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		m := hunkHeader.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}

		newLine := start
		for _, l := range lines[i+1:] {
			if hunkHeader.MatchString(l) {
				break
			}
			switch {
			case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
				// File headers inside a multi-file diff end the hunk.
				return start
			case strings.HasPrefix(l, "+"):
				return newLine
			case strings.HasPrefix(l, "-"):
				// Removed line, new-file position unchanged.
			default:
				newLine++
			}
		}
		return start
	}
	return 0
}

// FindForPath scans captured command output for a patch block touching the
// given file. Two envelopes are recognized: the agent's own
// "*** Begin Patch" / "*** End Patch" format and standard multi-file unified
// diffs. Paths are matched exactly, relative to cwd, or by basename, in that
// order of preference. Returns "" when no block matches. Matching is
// approximate: when several files share a basename the first block wins.
func FindForPath(output, target, cwd string) string {
	if output == "" || target == "" {
		return ""
	}
	lines := strings.Split(output, "\n")

	if block := findEnvelopeBlock(lines, target, cwd); block != "" {
		return block
	}
	return findUnifiedBlock(lines, target, cwd)
}

var envelopeFile = regexp.MustCompile(`^\*\*\* (?:Update|Add|Delete) File: (.+)$`)

// findEnvelopeBlock extracts the per-file section of a Begin/End Patch block.
func findEnvelopeBlock(lines []string, target, cwd string) string {
	inPatch := false
	collecting := false
	var block []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "*** Begin Patch"):
			inPatch = true
			continue
		case strings.HasPrefix(trimmed, "*** End Patch"):
			if collecting {
				return strings.Join(block, "\n")
			}
			inPatch = false
			continue
		}
		if !inPatch {
			continue
		}

		if m := envelopeFile.FindStringSubmatch(trimmed); m != nil {
			if collecting {
				return strings.Join(block, "\n")
			}
			if pathsEquivalent(m[1], target, cwd) {
				collecting = true
				block = append(block, trimmed)
			}
			continue
		}
		if collecting {
			block = append(block, line)
		}
	}
	if collecting {
		return strings.Join(block, "\n")
	}
	return ""
}

// findUnifiedBlock extracts one file's section from a multi-file unified diff.
func findUnifiedBlock(lines []string, target, cwd string) string {
	start := -1
	for i, line := range lines {
		if !strings.HasPrefix(line, "+++ ") {
			continue
		}
		candidate := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
		candidate = strings.TrimPrefix(candidate, "b/")
		if !pathsEquivalent(candidate, target, cwd) {
			continue
		}

		start = i
		// Include the matching "--- " header when it directly precedes.
		if i > 0 && strings.HasPrefix(lines[i-1], "--- ") {
			start = i - 1
		}
		if start > 0 && strings.HasPrefix(lines[start-1], "diff --git ") {
			start--
		}

		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if strings.HasPrefix(lines[j], "diff --git ") ||
				(strings.HasPrefix(lines[j], "--- ") && j+1 < len(lines) && strings.HasPrefix(lines[j+1], "+++ ")) {
				end = j
				break
			}
		}
		return strings.Join(lines[start:end], "\n")
	}
	return ""
}

// pathsEquivalent reports whether a path found in patch text plausibly refers
// to the target file: exact match, match once joined against the working
// directory, or a shared basename as a last resort.
func pathsEquivalent(candidate, target, cwd string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	if candidate == target {
		return true
	}
	if cwd != "" {
		if path.Join(cwd, candidate) == target {
			return true
		}
		if rel := strings.TrimPrefix(target, strings.TrimSuffix(cwd, "/")+"/"); rel == candidate {
			return true
		}
	}
	return path.Base(candidate) == path.Base(target)
}
