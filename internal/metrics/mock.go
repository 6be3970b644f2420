package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	ingestRuns       int
	ingestFailures   int
	ingestSkipped    int
	ingestDurations  []float64
	upserts          map[string]int
	newUpserts       map[string]int
	apiNoData        map[string]int
	commands         map[string]int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		ingestDurations: make([]float64, 0),
		upserts:         make(map[string]int),
		newUpserts:      make(map[string]int),
		apiNoData:       make(map[string]int),
		commands:        make(map[string]int),
	}
}

func (m *Mock) IncIngestRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestRuns++
}

func (m *Mock) IncIngestFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestFailures++
}

func (m *Mock) IncIngestSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestSkipped++
}

func (m *Mock) ObserveIngestDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestDurations = append(m.ingestDurations, duration)
}

func (m *Mock) IncUpserts(collection string, isNew bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts[collection]++
	if isNew {
		m.newUpserts[collection]++
	}
}

func (m *Mock) IncAPINoData(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiNoData[endpoint]++
}

func (m *Mock) IncCommands(command string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[command]++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// IngestRuns returns the number of times IncIngestRuns was called.
func (m *Mock) IngestRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ingestRuns
}

// IngestFailures returns the number of times IncIngestFailures was called.
func (m *Mock) IngestFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ingestFailures
}

// IngestSkipped returns the number of times IncIngestSkipped was called.
func (m *Mock) IngestSkipped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ingestSkipped
}

// IngestDurations returns every observed ingest duration.
func (m *Mock) IngestDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.ingestDurations...)
}

// Upserts returns how many upserts were recorded for a collection.
func (m *Mock) Upserts(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts[collection]
}

// NewUpserts returns how many upserts created a new document in a collection.
func (m *Mock) NewUpserts(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newUpserts[collection]
}

// APINoData returns how many no-data responses were recorded for an endpoint.
func (m *Mock) APINoData(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiNoData[endpoint]
}

// Commands returns how many times a command was handled.
func (m *Mock) Commands(command string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commands[command]
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
