// Package transcript persists the panel's message log in an embedded NATS
// JetStream stream, one subject per session. Runs survive restarts: a session
// replayed from the stream reconstructs the transcript exactly as it was
// rendered, without re-running the agent.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/codexpane/internal/errors"
	"github.com/mark3labs/codexpane/internal/logger"
)

const (
	streamName    = "TRANSCRIPT"
	subjectPrefix = "transcript."
)

// Entry is one persisted transcript message.
type Entry struct {
	Session         string    `json:"session"`
	Role            string    `json:"role"`
	Text            string    `json:"text"`
	Command         string    `json:"command,omitempty"`
	FriendlyTitle   string    `json:"friendly_title,omitempty"`
	FriendlySummary string    `json:"friendly_summary,omitempty"`
	Time            time.Time `json:"time"`
}

// Store owns the embedded server, its in-process connection and the
// transcript stream.
type Store struct {
	ns     *server.Server
	nc     *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

// Open starts the embedded server under dataDir and ensures the transcript
// stream exists.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	ns, err := startEmbeddedServer(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to start transcript storage: %w", err)
	}

	nc, err := connectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to transcript storage: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		_ = shutdown(nc, ns)
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ">"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		_ = shutdown(nc, ns)
		return nil, fmt.Errorf("failed to create transcript stream: %w", err)
	}

	return &Store{ns: ns, nc: nc, js: js, stream: stream}, nil
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Append publishes one entry to the session's subject. Publishes are retried
// briefly; a transcript write failing must never take down a run, so callers
// typically log the returned error and move on.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if e.Session == "" {
		return fmt.Errorf("entry has no session id")
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript entry: %w", err)
	}

	subject := subjectPrefix + e.Session
	return errors.Retry(ctx, errors.DefaultRetryConfig(), func() error {
		_, err := s.js.Publish(ctx, subject, data)
		if err != nil {
			logger.Warn("transcript publish failed, will retry: %v", err)
		}
		return err
	})
}

// Replay returns all entries for a session in publish order.
func (s *Store) Replay(ctx context.Context, session string) ([]Entry, error) {
	cons, err := s.stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{subjectPrefix + session},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create replay consumer: %w", err)
	}

	var entries []Entry
	for {
		batch, err := cons.FetchNoWait(512)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch transcript entries: %w", err)
		}
		n := 0
		for msg := range batch.Messages() {
			n++
			var e Entry
			if err := json.Unmarshal(msg.Data(), &e); err != nil {
				logger.Warn("skipping unreadable transcript entry: %v", err)
				continue
			}
			entries = append(entries, e)
		}
		if err := batch.Error(); err != nil {
			return nil, fmt.Errorf("failed to read transcript entries: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return entries, nil
}

// Sessions lists the session ids present in the stream.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	info, err := s.stream.Info(ctx, jetstream.WithSubjectFilter(subjectPrefix+">"))
	if err != nil {
		return nil, fmt.Errorf("failed to read stream info: %w", err)
	}

	var sessions []string
	for subject := range info.State.Subjects {
		sessions = append(sessions, strings.TrimPrefix(subject, subjectPrefix))
	}
	return sessions, nil
}

// Close drains and stops the embedded server.
func (s *Store) Close() error {
	return shutdown(s.nc, s.ns)
}
