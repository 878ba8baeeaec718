package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/growthplan/internal/errors"
	"github.com/felixgeelhaar/growthplan/internal/telemetry"
)

// validator is implemented by schema types that check their own invariants.
type validator interface {
	Validate() error
}

// Call issues one advisory request and decodes the response into T.
// It never retries. A transport error marks the session unavailable.
func Call[T any](ctx context.Context, s *Session, req Request) Result[T] {
	var res Result[T]
	p := s.params(req)

	gen := s.acquire()
	if gen == nil {
		res.Outcome = OutcomeUnavailable
		res.Err = errors.NewAdvisoryUnavailableError(string(req.Tag), s.Cause())
		s.record(req.Tag, res.Outcome)
		s.metrics.RecordAdvisoryCall(string(req.Tag), res.Outcome.String(), 0)
		return res
	}

	ctx, span := telemetry.StartAdvisorySpan(ctx, string(req.Tag), p.MaxTokens, p.Temperature)
	defer span.End()

	start := time.Now()
	raw, err := gen.Generate(ctx, req.Tag, req.Prompt, p.MaxTokens, p.Temperature)
	elapsed := time.Since(start)

	if err != nil {
		res.Outcome = OutcomeUnavailable
		res.Err = errors.NewAdvisoryUnavailableError(string(req.Tag), err)
		s.markUnavailable(req.Tag, res.Err)
		telemetry.RecordError(span, err)
	} else {
		res.Raw = raw
		res.Value, res.Err = decode[T](raw)
		if res.Err != nil {
			res.Outcome = OutcomeMalformed
			res.Err = errors.NewAdvisoryMalformedError(string(req.Tag), res.Err)
			telemetry.RecordError(span, res.Err)
		} else {
			res.Outcome = OutcomeParsed
			telemetry.RecordSuccess(span, attribute.Int("response_bytes", len(raw)))
		}
	}

	s.record(req.Tag, res.Outcome)
	s.metrics.RecordAdvisoryCall(string(req.Tag), res.Outcome.String(), elapsed)
	return res
}

// Resolve issues a call and returns either the parsed value or fallback().
// Fallback use is logged, counted and recorded on the session. Resolve never fails.
func Resolve[T any](ctx context.Context, s *Session, req Request, fallback func() T) (T, Outcome) {
	res := Call[T](ctx, s, req)
	if res.OK() {
		return res.Value, res.Outcome
	}
	s.Fallback(req.Tag, res.Err)
	return fallback(), res.Outcome
}

// Fallback records that tag was resolved with its deterministic default because of err.
// Callers that inspect a Result themselves use it to keep the ledger complete.
func (s *Session) Fallback(tag Tag, err error) {
	s.recordFallback(tag)
	s.logger.WithError(err).Warn("using deterministic default", "tag", string(tag))
}

// MalformedError builds the coded error for a response that decoded but was
// rejected by the call site.
func MalformedError(tag Tag, cause error) error {
	return errors.NewAdvisoryMalformedError(string(tag), cause)
}

func decode[T any](raw string) (T, error) {
	var v T
	payload, ok := ExtractJSON(raw)
	if !ok {
		return v, fmt.Errorf("no JSON value in response")
	}
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return v, fmt.Errorf("decode response: %w", err)
	}
	if val, ok := any(&v).(validator); ok {
		if err := val.Validate(); err != nil {
			return v, fmt.Errorf("validate response: %w", err)
		}
	}
	return v, nil
}

// ExtractJSON finds the JSON value in a free-text response. Markdown code
// fences are stripped and the span from the first opening brace or bracket to
// the last matching closer is returned.
func ExtractJSON(raw string) (string, bool) {
	text := stripFences(raw)

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}
	body := text[open+3:]
	// drop the language hint on the opening fence line
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
