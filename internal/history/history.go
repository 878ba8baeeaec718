// Package history records completed planning invocations.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// Entry is one completed invocation.
type Entry struct {
	ID               string          `json:"id"`
	LearnerID        string          `json:"learner_id"`
	Timestamp        time.Time       `json:"timestamp"`
	InputFingerprint string          `json:"input_fingerprint"`
	Fallbacks        []string        `json:"fallbacks"`
	Report           json.RawMessage `json:"report"`
}

// Sink stores history entries. Implementations must be safe for concurrent use.
type Sink interface {
	Record(ctx context.Context, e Entry) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, e Entry) error

// Record implements Sink.
func (f SinkFunc) Record(ctx context.Context, e Entry) error {
	return f(ctx, e)
}

// Fingerprint returns the blake3 hex digest of v's JSON encoding.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode input: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(data); err != nil {
		return "", fmt.Errorf("hash input: %w", err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
