// Package llmtest provides a scripted Generator for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/nikogura/resume-forge/pkg/llm"
)

// Reply is one scripted answer: text, or an error.
type Reply struct {
	Text string
	Err  error
}

// Fake replays scripted replies in order and records every request.
// Once the script runs out it keeps returning the last reply.
type Fake struct {
	mu       sync.Mutex
	replies  []Reply
	requests []llm.Request
}

// New returns a Fake that answers with the given texts in order.
func New(texts ...string) (f *Fake) {
	f = &Fake{}
	for _, t := range texts {
		f.replies = append(f.replies, Reply{Text: t})
	}
	return f
}

// Failing returns a Fake whose every call fails with a GenerationError.
func Failing(cause string) (f *Fake) {
	f = &Fake{
		replies: []Reply{{Err: &llm.GenerationError{Provider: "fake", Err: errors.New(cause)}}},
	}
	return f
}

// Then appends a reply to the script.
func (f *Fake) Then(r Reply) (same *Fake) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, r)
	same = f
	return same
}

// Generate implements llm.Generator.
func (f *Fake) Generate(ctx context.Context, req llm.Request) (resp llm.Response, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	if err = ctx.Err(); err != nil {
		err = &llm.GenerationError{Provider: "fake", Err: err}
		return resp, err
	}

	if len(f.replies) == 0 {
		err = &llm.GenerationError{Provider: "fake", Err: errors.New("no scripted reply")}
		return resp, err
	}

	idx := len(f.requests) - 1
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	reply := f.replies[idx]

	if reply.Err != nil {
		err = reply.Err
		return resp, err
	}

	resp = llm.Response{
		Text: reply.Text,
		Usage: llm.Usage{
			Calls:        1,
			InputTokens:  len(req.System) + len(req.User),
			OutputTokens: len(reply.Text),
		},
	}
	return resp, err
}

// Requests returns a copy of every request seen so far.
func (f *Fake) Requests() (reqs []llm.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs = make([]llm.Request, len(f.requests))
	copy(reqs, f.requests)
	return reqs
}

// Calls returns how many times Generate ran.
func (f *Fake) Calls() (n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n = len(f.requests)
	return n
}
