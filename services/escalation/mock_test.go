package escalation

import (
	"context"
	"sync"
	"time"

	"listapresentes/productworker/internal/extractor"
	"listapresentes/productworker/services/cache"
)

// MockCacheService is an in-memory cache.CacheService
type MockCacheService struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ cache.CacheService = (*MockCacheService)(nil)

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{data: make(map[string][]byte)}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, cache.ErrMiss
}

func (m *MockCacheService) Set(key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheService) Add(key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return cache.ErrExists
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockReporter records calls and optionally blocks or panics
type MockReporter struct {
	mu      sync.Mutex
	calls   []string
	started chan struct{}
	release chan struct{}
	panics  bool
}

var _ Reporter = (*MockReporter)(nil)

func (m *MockReporter) record(kind string) {
	m.mu.Lock()
	m.calls = append(m.calls, kind)
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	if m.panics {
		panic("reporter exploded")
	}
}

func (m *MockReporter) ReportParsingFailure(_ context.Context, _ string, _ extractor.Product) (*TicketRef, error) {
	m.record("parsing")
	return &TicketRef{Number: 1, URL: "https://github.com/acme/gifts/issues/1"}, nil
}

func (m *MockReporter) ReportGenericExtractorUsed(_ context.Context, _, _ string, _ extractor.Product) (*TicketRef, error) {
	m.record("generic")
	return nil, nil
}

func (m *MockReporter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
