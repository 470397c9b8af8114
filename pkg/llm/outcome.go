package llm

import (
	"context"
)

// Kind tags how a generation attempt ended.
type Kind int

const (
	// KindOK means the call succeeded and the text parsed.
	KindOK Kind = iota
	// KindMalformed means the call succeeded but the text did not have the expected shape.
	KindMalformed
	// KindTransportFailed means the call itself failed.
	KindTransportFailed
)

func (k Kind) String() (name string) {
	switch k {
	case KindOK:
		name = "ok"
	case KindMalformed:
		name = "malformed"
	case KindTransportFailed:
		name = "transport_failed"
	default:
		name = "unknown"
	}
	return name
}

// Outcome is the tagged result of one generation call: Ok(Value), Malformed(Raw)
// or TransportFailed(Err). Callers switch on Kind to degrade or propagate.
type Outcome[T any] struct {
	Kind  Kind
	Value T
	Raw   string
	Err   error
}

// Call runs one generation and parses its text. A parse error yields KindMalformed
// with the raw text kept; a generator error yields KindTransportFailed.
func Call[T any](ctx context.Context, gen Generator, req Request, parse func(raw string) (T, error)) (out Outcome[T]) {
	resp, err := gen.Generate(ctx, req)
	if err != nil {
		out = Outcome[T]{Kind: KindTransportFailed, Err: err}
		return out
	}

	out.Raw = resp.Text
	value, parseErr := parse(resp.Text)
	if parseErr != nil {
		out.Kind = KindMalformed
		out.Err = parseErr
		return out
	}

	out.Kind = KindOK
	out.Value = value
	return out
}

// Truncate shortens raw text for log output.
func Truncate(raw string, limit int) (short string) {
	short = raw
	runes := []rune(raw)
	if len(runes) > limit {
		short = string(runes[:limit]) + "..."
	}
	return short
}
