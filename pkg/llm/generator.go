package llm

import (
	"context"
	"fmt"
	"sync"
)

// Generator is the text generation port every enrichment stage depends on.
// Implementations make one remote call per Generate and never retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (resp Response, err error)
}

// Request is a single system + user prompt exchange.
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Response carries the generated text and the tokens it cost.
type Response struct {
	Text  string
	Usage Usage
}

// Usage represents token usage information for one or more calls.
type Usage struct {
	Calls        int `json:"calls"`
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns input plus output tokens.
func (u Usage) Total() (total int) {
	total = u.InputTokens + u.OutputTokens
	return total
}

// Summary renders the usage for terminal output.
func (u Usage) Summary() (summary string) {
	summary = fmt.Sprintf("Calls: %d  Input tokens: %d  Output tokens: %d  Total tokens: %d",
		u.Calls, u.InputTokens, u.OutputTokens, u.Total())
	return summary
}

// Meter accumulates usage for one pipeline run. Pass it by pointer.
type Meter struct {
	mu    sync.Mutex
	usage Usage
}

// Add records one call's usage.
func (m *Meter) Add(u Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := u.Calls
	if calls == 0 {
		calls = 1
	}
	m.usage.Calls += calls
	m.usage.InputTokens += u.InputTokens
	m.usage.OutputTokens += u.OutputTokens
}

// Usage returns a snapshot of the accumulated totals.
func (m *Meter) Usage() (u Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u = m.usage
	return u
}

// Summary renders the totals for terminal output.
func (m *Meter) Summary() (summary string) {
	summary = m.Usage().Summary()
	return summary
}

// Metered wraps a Generator so every call is recorded on meter.
func Metered(gen Generator, meter *Meter) (wrapped Generator) {
	wrapped = &meteredGenerator{next: gen, meter: meter}
	return wrapped
}

type meteredGenerator struct {
	next  Generator
	meter *Meter
}

func (m *meteredGenerator) Generate(ctx context.Context, req Request) (resp Response, err error) {
	resp, err = m.next.Generate(ctx, req)
	if err != nil {
		return resp, err
	}
	m.meter.Add(resp.Usage)
	return resp, err
}
