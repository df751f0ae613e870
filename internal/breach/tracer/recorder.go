package tracer

import (
	"context"
	"sync"
)

// RecordedSpan is a finished span captured by Recorder.
type RecordedSpan struct {
	Name       string
	Attributes map[string]any
	Events     []string
	Err        error
}

// Recorder keeps every ended span in memory. Intended for tests.
type Recorder struct {
	mu    sync.Mutex
	spans []RecordedSpan
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	s := &recordedSpan{recorder: r, data: RecordedSpan{Name: name, Attributes: map[string]any{}}}
	s.SetAttributes(attrs...)
	return ctx, s
}

// Spans returns a copy of the ended spans in end order.
func (r *Recorder) Spans() []RecordedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedSpan(nil), r.spans...)
}

// Named returns ended spans with the given name.
func (r *Recorder) Named(name string) []RecordedSpan {
	var out []RecordedSpan
	for _, s := range r.Spans() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

type recordedSpan struct {
	recorder *Recorder
	mu       sync.Mutex
	data     RecordedSpan
}

func (s *recordedSpan) End(err error) {
	s.mu.Lock()
	s.data.Err = err
	data := s.data
	s.mu.Unlock()

	s.recorder.mu.Lock()
	s.recorder.spans = append(s.recorder.spans, data)
	s.recorder.mu.Unlock()
}

func (s *recordedSpan) SetAttributes(attrs ...Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range attrs {
		s.data.Attributes[a.Key] = a.Value
	}
}

func (s *recordedSpan) AddEvent(name string, _ ...Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Events = append(s.data.Events, name)
}

var _ Tracer = (*Recorder)(nil)
