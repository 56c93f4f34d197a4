package script

import (
	"context"
	"sync"
)

// Mock implements Generator for testing.
type Mock struct {
	// GenerateFunc is called when Generate is invoked.
	// If nil, returns a short alternating two-speaker script.
	GenerateFunc func(ctx context.Context, req Request) ([]Segment, error)

	mu    sync.Mutex
	calls []Request
}

// NewMock creates a mock generator returning a fixed four-line script.
func NewMock() *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, req Request) ([]Segment, error) {
			return []Segment{
				{Speaker: SpeakerOne, Text: "Welcome to the show. Today we dig into " + req.Title + "."},
				{Speaker: SpeakerTwo, Text: "Thanks for having me. There is a lot to unpack here."},
				{Speaker: SpeakerOne, Text: "Where should we start?"},
				{Speaker: SpeakerTwo, Text: "Let's start with the big picture."},
			}, nil
		},
	}
}

// FailingMock returns a mock whose Generate always fails with err wrapped
// in a GenerationError.
func FailingMock(err error) *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, req Request) ([]Segment, error) {
			return nil, wrapGeneration(err)
		},
	}
}

// Generate calls GenerateFunc and records the request.
func (m *Mock) Generate(ctx context.Context, req Request) ([]Segment, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return nil, wrapGeneration(ErrEmptyScript)
}

// Calls returns all recorded requests.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Verify Mock implements Generator at compile time.
var _ Generator = (*Mock)(nil)
