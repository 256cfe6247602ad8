// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/muse/internal/models"
)

// MockSearcher is a test double for services.Searcher.
//
// Candidates are returned verbatim from every Search call. ByQuery, when set,
// answers each query from the map instead, with misses returning nothing.
// Err, when set, is returned from every method. Safe for concurrent use.
type MockSearcher struct {
	Candidates []models.TrackCandidate
	ByQuery    map[string][]models.TrackCandidate
	Err        error

	mu          sync.Mutex
	searchCalls []string
}

func (m *MockSearcher) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.Err
}

func (m *MockSearcher) Search(ctx context.Context, query string, limit int) ([]models.TrackCandidate, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, query)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.ByQuery != nil {
		return m.ByQuery[query], nil
	}
	return m.Candidates, nil
}

// SearchCalls returns the queries Search has received.
func (m *MockSearcher) SearchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.searchCalls))
	copy(calls, m.searchCalls)
	return calls
}

func (m *MockSearcher) FindTrack(ctx context.Context, title, artist string) (*models.TrackCandidate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Candidates) == 0 {
		return nil, errors.New("no candidates")
	}
	return &m.Candidates[0], nil
}

func (m *MockSearcher) Name() string { return "mock" }

// MockInterpreter is a test double for services.Interpreter.
type MockInterpreter struct {
	Profile *models.MoodProfile
	Err     error
}

func (m *MockInterpreter) Interpret(ctx context.Context, message string) (*models.MoodProfile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Profile, nil
}

func (m *MockInterpreter) Name() string { return "mock" }

// MockResolver is a test double for services.LinkResolver.
type MockResolver struct {
	Link string
	Err  error
}

func (m *MockResolver) ResolveLink(ctx context.Context, title, artist string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Link, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
