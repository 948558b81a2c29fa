package testutil

import (
	"sync"
)

// QueryResult is one scripted answer for MockQuerier
type QueryResult struct {
	Seconds float64
	Err     error
}

// MockQuerier is a thread-safe mock implementation of interfaces.Querier for testing
type MockQuerier struct {
	mu        sync.Mutex
	results   []QueryResult
	lastValue float64
	lastErr   error
	calls     int
}

// NewMockQuerier creates a new mock querier
func NewMockQuerier() *MockQuerier {
	return &MockQuerier{}
}

// Queue appends scripted results consumed by successive IdleSeconds calls
func (m *MockQuerier) Queue(results ...QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, results...)
}

// QueueSeconds appends scripted successful results
func (m *MockQuerier) QueueSeconds(values ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range values {
		m.results = append(m.results, QueryResult{Seconds: v})
	}
}

// IdleSeconds implements the Querier interface. When the scripted
// results run out it keeps repeating the last one
func (m *MockQuerier) IdleSeconds() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if len(m.results) > 0 {
		r := m.results[0]
		m.results = m.results[1:]
		m.lastValue = r.Seconds
		m.lastErr = r.Err
	}
	return m.lastValue, m.lastErr
}

// GetCallCount returns how many times IdleSeconds was called
func (m *MockQuerier) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Clear resets the mock state
func (m *MockQuerier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = nil
	m.lastValue = 0
	m.lastErr = nil
	m.calls = 0
}

// MockBus is a thread-safe mock implementation of interfaces.Bus for testing
type MockBus struct {
	mu        sync.Mutex
	names     []string
	namesErr  error
	callReply interface{}
	callErr   error
	propValue interface{}
	propErr   error

	calledMethods []string
	readProps     []string
	closed        bool
}

// NewMockBus creates a new mock bus
func NewMockBus() *MockBus {
	return &MockBus{}
}

// SetActivatableNames sets the result of ActivatableNames
func (m *MockBus) SetActivatableNames(names []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = names
	m.namesErr = err
}

// SetCallReply sets the result of Call
func (m *MockBus) SetCallReply(reply interface{}, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callReply = reply
	m.callErr = err
}

// SetPropertyValue sets the result of Property
func (m *MockBus) SetPropertyValue(value interface{}, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.propValue = value
	m.propErr = err
}

// ActivatableNames implements the Bus interface
func (m *MockBus) ActivatableNames() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.names, m.namesErr
}

// Call implements the Bus interface
func (m *MockBus) Call(dest, path, method string, args ...interface{}) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calledMethods = append(m.calledMethods, method)
	return m.callReply, m.callErr
}

// Property implements the Bus interface
func (m *MockBus) Property(dest, path, name string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readProps = append(m.readProps, name)
	return m.propValue, m.propErr
}

// Close implements the Bus interface
func (m *MockBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GetCalledMethods returns a copy of the methods passed to Call
func (m *MockBus) GetCalledMethods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.calledMethods))
	copy(result, m.calledMethods)
	return result
}

// GetReadProps returns a copy of the property names passed to Property
func (m *MockBus) GetReadProps() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.readProps))
	copy(result, m.readProps)
	return result
}

// IsClosed reports whether Close was called
func (m *MockBus) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockProcessWrapper is a mock implementation of interfaces.ProcessWrapper for testing
type MockProcessWrapper struct {
	mu       sync.Mutex
	startErr error
	waitErr  error
	exitCode int
	started  bool
	waited   bool
	stopped  bool
	command  string
	args     []string
}

// NewMockProcessWrapper creates a new mock process wrapper
func NewMockProcessWrapper() *MockProcessWrapper {
	return &MockProcessWrapper{}
}

// SetStartError sets the error returned by Start
func (m *MockProcessWrapper) SetStartError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// SetWaitError sets the error returned by Wait
func (m *MockProcessWrapper) SetWaitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitErr = err
}

// SetExitCode sets the value returned by ExitCode
func (m *MockProcessWrapper) SetExitCode(code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exitCode = code
}

// Start implements the ProcessWrapper interface
func (m *MockProcessWrapper) Start(command string, args []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.startErr != nil {
		return m.startErr
	}
	m.started = true
	m.command = command
	m.args = args
	return nil
}

// Wait implements the ProcessWrapper interface
func (m *MockProcessWrapper) Wait() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waited = true
	return m.waitErr
}

// Stop implements the ProcessWrapper interface
func (m *MockProcessWrapper) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

// ExitCode implements the ProcessWrapper interface
func (m *MockProcessWrapper) ExitCode() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCode
}

// WasStarted reports whether Start succeeded
func (m *MockProcessWrapper) WasStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// WasStopped reports whether Stop was called
func (m *MockProcessWrapper) WasStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// GetCommand returns the command passed to Start
func (m *MockProcessWrapper) GetCommand() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command
}

// GetArgs returns the arguments passed to Start
func (m *MockProcessWrapper) GetArgs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.args
}
