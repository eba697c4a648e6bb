// Package events models the line-delimited JSON stream emitted by the codex
// CLI during a run. Each line is one envelope; envelopes carry either a
// thread/turn lifecycle signal or an item payload discriminated by item type.
// Anything unrecognized decodes to an explicit Unrecognized variant so the
// consumer can skip it without guessing at field names.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope types observed on the stream.
const (
	TypeThreadStarted = "thread.started"
	TypeTurnStarted   = "turn.started"
	TypeTurnCompleted = "turn.completed"
	TypeTurnFailed    = "turn.failed"
	TypeItemStarted   = "item.started"
	TypeItemUpdated   = "item.updated"
	TypeItemCompleted = "item.completed"
)

// Item types observed inside item envelopes.
const (
	ItemAgentMessage     = "agent_message"
	ItemReasoning        = "reasoning"
	ItemCommandExecution = "command_execution"
	ItemFileChange       = "file_change"
)

// Event is the decoded form of one stream line. Exactly one of the payload
// pointers is set for recognized item events; lifecycle events carry only
// the envelope fields.
type Event struct {
	Type     string // Envelope type
	ItemType string // Item type, when the envelope wraps an item
	ThreadID string // For thread.started

	AgentMessage *AgentMessage
	Reasoning    *Reasoning
	Command      *CommandExecution
	FileChange   *FileChange
	Usage        *Usage

	// Unrecognized is set when the envelope or item type is unknown.
	// The event should be ignored, not treated as an error.
	Unrecognized bool
}

// AgentMessage is the assistant's prose output for a turn.
type AgentMessage struct {
	Text string `json:"text"`
}

// Reasoning is an in-flight "thinking" headline.
type Reasoning struct {
	Text string `json:"text"`
}

// CommandExecution reports one shell command the agent ran.
type CommandExecution struct {
	Command          string `json:"command"`
	AggregatedOutput string `json:"aggregated_output"`
	ExitCode         *int   `json:"exit_code"`
	Status           string `json:"status"`
}

// FileChange reports a batch of file mutations.
type FileChange struct {
	Changes []Change `json:"changes"`
}

// Change is one file mutation. Kind is free-form ("add", "delete",
// "update"); Diff is optional unified-diff text.
type Change struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Diff string `json:"diff"`
}

// Usage is the token accounting attached to turn.completed.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// IsTerminal reports whether the event ends the current run.
func (e Event) IsTerminal() bool {
	return e.Type == TypeTurnCompleted || e.Type == TypeTurnFailed
}

type envelope struct {
	Type     string          `json:"type"`
	ThreadID string          `json:"thread_id"`
	Usage    *Usage          `json:"usage"`
	Item     json.RawMessage `json:"item"`
}

type itemHeader struct {
	Type string `json:"type"`
}

// DecodeLine decodes one stream line. A JSON error is returned for the
// caller to log and skip; a structurally valid line with an unknown type
// decodes successfully with Unrecognized set.
func DecodeLine(line []byte) (Event, error) {
	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		return Event{Unrecognized: true}, nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return Event{}, fmt.Errorf("malformed stream line: %w", err)
	}

	ev := Event{Type: env.Type}
	switch env.Type {
	case TypeThreadStarted:
		ev.ThreadID = env.ThreadID
		return ev, nil
	case TypeTurnStarted, TypeTurnFailed:
		return ev, nil
	case TypeTurnCompleted:
		ev.Usage = env.Usage
		return ev, nil
	case TypeItemStarted, TypeItemUpdated, TypeItemCompleted:
		return decodeItem(ev, env.Item)
	default:
		ev.Unrecognized = true
		return ev, nil
	}
}

func decodeItem(ev Event, raw json.RawMessage) (Event, error) {
	if len(raw) == 0 {
		ev.Unrecognized = true
		return ev, nil
	}

	var hdr itemHeader
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return Event{}, fmt.Errorf("malformed item payload: %w", err)
	}
	ev.ItemType = hdr.Type

	switch hdr.Type {
	case ItemAgentMessage:
		var m AgentMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return Event{}, fmt.Errorf("malformed agent_message item: %w", err)
		}
		ev.AgentMessage = &m
	case ItemReasoning:
		var r Reasoning
		if err := json.Unmarshal(raw, &r); err != nil {
			return Event{}, fmt.Errorf("malformed reasoning item: %w", err)
		}
		ev.Reasoning = &r
	case ItemCommandExecution:
		var c CommandExecution
		if err := json.Unmarshal(raw, &c); err != nil {
			return Event{}, fmt.Errorf("malformed command_execution item: %w", err)
		}
		ev.Command = &c
	case ItemFileChange:
		var f FileChange
		if err := json.Unmarshal(raw, &f); err != nil {
			return Event{}, fmt.Errorf("malformed file_change item: %w", err)
		}
		ev.FileChange = &f
	default:
		ev.Unrecognized = true
	}
	return ev, nil
}
