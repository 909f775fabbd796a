package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// script is a FIFO of canned results plus a record of every call.
type script[Req, Res any] struct {
	mu      sync.Mutex
	results []Res
	Calls   []Req
}

// next records req and pops the next result. ok is false when the
// script has run out.
func (s *script[Req, Res]) next(req Req) (res Res, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, req)
	if len(s.results) == 0 {
		return res, false
	}
	res = s.results[0]
	s.results = s.results[1:]
	return res, true
}

// CallCount returns the number of calls made so far.
func (s *script[Req, Res]) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests. An exhausted
// script answers ErrProviderUnavailable.
type MockProvider struct {
	script[Request, MockResponse]
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{script[Request, MockResponse]{results: responses}}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	r, ok := m.next(req)
	switch {
	case !ok:
		return nil, &ErrProviderUnavailable{}
	case r.Err != nil:
		return nil, r.Err
	}
	return &Response{Content: r.Content, Usage: r.Usage, Model: "mock", StopReason: StopEnd}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// MockTranscript is a canned result for the MockTranscriber.
type MockTranscript struct {
	Text string
	Err  error
}

// MockTranscriber is a deterministic Transcriber for tests.
type MockTranscriber struct {
	script[TranscribeRequest, MockTranscript]
}

// NewMockTranscriber creates a MockTranscriber with the given canned results.
func NewMockTranscriber(results ...MockTranscript) *MockTranscriber {
	return &MockTranscriber{script[TranscribeRequest, MockTranscript]{results: results}}
}

func (m *MockTranscriber) Transcribe(_ context.Context, req TranscribeRequest) (*Transcription, error) {
	r, ok := m.next(req)
	switch {
	case !ok:
		return nil, &ErrProviderUnavailable{}
	case r.Err != nil:
		return nil, r.Err
	}
	return &Transcription{Text: r.Text, Model: "mock"}, nil
}

func (m *MockTranscriber) ModelID() string { return "mock" }
