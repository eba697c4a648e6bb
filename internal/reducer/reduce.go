package reducer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/codexpane/internal/cmdparse"
	"github.com/mark3labs/codexpane/internal/errors"
	"github.com/mark3labs/codexpane/internal/events"
	"github.com/mark3labs/codexpane/internal/logger"
	"github.com/mark3labs/codexpane/internal/patch"
)

// Reduce consumes one decoded event and returns the UI updates it implies.
// Unrecognized events are ignored. Every recognized event also clears any
// stale read-highlight decoration; that is purely a rendering concern, but
// the reducer is the natural trigger point.
func (s *Session) Reduce(ev events.Event) []Update {
	if ev.Unrecognized {
		return nil
	}

	updates := []Update{{ClearHighlights: true}}

	switch {
	case ev.Type == events.TypeItemCompleted && ev.AgentMessage != nil:
		s.reasoning = ""
		updates = append(updates,
			s.append(Message{Role: RoleAssistant, Text: ev.AgentMessage.Text}),
			reasoningUpdate(""),
		)

	case ev.Type == events.TypeItemCompleted && ev.Reasoning != nil:
		// Empty stays empty; the UI substitutes its own placeholder.
		s.reasoning = strings.TrimSpace(ev.Reasoning.Text)
		updates = append(updates, reasoningUpdate(s.reasoning))

	case ev.Type == events.TypeItemCompleted && ev.Command != nil:
		updates = append(updates, s.reduceCommand(*ev.Command))

	case (ev.Type == events.TypeItemCompleted || ev.Type == events.TypeItemUpdated) && ev.FileChange != nil:
		updates = append(updates, s.reduceFileChange(*ev.FileChange)...)

	case ev.IsTerminal():
		s.busy = false
		s.reasoning = ""
		updates = append(updates, busyUpdate(false), reasoningUpdate(""))
	}

	return updates
}

// reduceCommand classifies an executed command and builds the structured
// command message. The "Explored" title is suppressed to an empty string;
// a row of pure exploration needs no heading, just its summary.
func (s *Session) reduceCommand(cmd events.CommandExecution) Update {
	s.lastCommandOutput = cmd.AggregatedOutput

	summary := cmdparse.Summarize(cmd.Command)

	var targets []Target
	for _, p := range summary.Parsed {
		abs := s.resolvePath(p.Path)
		if abs == "" {
			continue
		}
		label := p.Name
		if label == "" {
			label = p.Path
		}
		targets = append(targets, Target{
			Label: label,
			Path:  abs,
			IsDir: p.Kind == cmdparse.KindList,
		})
	}

	title := summary.Title
	if title == "Explored" {
		title = ""
	}

	return s.append(Message{
		Role:            RoleCommand,
		Text:            cmd.AggregatedOutput,
		Command:         summary.DisplayCommand,
		FriendlyTitle:   title,
		FriendlySummary: summary.Summary,
		Targets:         targets,
		Parsed:          summary.Parsed,
	})
}

// reduceFileChange enriches each reported change with a diff and a first
// changed line, then appends one message covering the batch plus a
// navigation request for the first change. Enrichment is best-effort: any
// failure inside it leaves the bare record in place.
func (s *Session) reduceFileChange(fc events.FileChange) []Update {
	if len(fc.Changes) == 0 {
		return nil
	}

	records := make([]FileChangeRecord, 0, len(fc.Changes))
	var lines []string
	for _, change := range fc.Changes {
		rec := FileChangeRecord{
			Path:    change.Path,
			AbsPath: s.resolvePath(change.Path),
			Kind:    change.Kind,
		}

		if err := errors.Recover(func() error {
			rec.Diff = s.recoverDiff(change)
			rec.Line = patch.FirstChangedLine(rec.Diff)
			return nil
		}); err != nil {
			logger.Warn("file-change enrichment failed for %s: %v", change.Path, err)
		}

		records = append(records, rec)
		lines = append(lines, fmt.Sprintf("%s %s", changeVerb(change.Kind), displayPath(change.Path)))
	}

	msg := s.append(Message{
		Role:        RoleAssistant,
		Text:        strings.Join(lines, "\n"),
		FileChanges: records,
	})

	updates := []Update{msg}
	if first := records[0]; first.AbsPath != "" {
		updates = append(updates, Update{Navigate: &Navigation{Path: first.AbsPath, Line: first.Line}})
	}
	return updates
}

// recoverDiff resolves a diff for one change, in order of trust: the
// event's own diff, a git working-tree diff, and finally a scan of the last
// command output for a patch block naming the file.
func (s *Session) recoverDiff(change events.Change) string {
	if change.Diff != "" {
		return change.Diff
	}

	abs := s.resolvePath(change.Path)
	if abs != "" {
		if diff, err := s.diffs.Diff(context.Background(), s.lastCwd, abs); err == nil && diff != "" {
			return diff
		}
	}

	target := abs
	if target == "" {
		target = change.Path
	}
	return patch.FindForPath(s.lastCommandOutput, target, s.lastCwd)
}

func changeVerb(kind string) string {
	switch {
	case strings.HasPrefix(kind, "delete"):
		return "Deleted"
	case strings.HasPrefix(kind, "add"):
		return "Added"
	default:
		return "Updated"
	}
}

func displayPath(p string) string {
	if p == "" {
		return "(unknown file)"
	}
	return filepath.Base(p)
}
