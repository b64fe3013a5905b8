// Package testutil provides a configurable mock Companies House server
// for tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockResponse defines the behavior for a mock registry endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockRegistry is a configurable mock Companies House API server.
type MockRegistry struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	LastPath     string
	LastQuery    string
	LastAuthUser string
}

// NewMockRegistry creates a new mock registry server. Unconfigured
// paths respond 404, matching the live API's behavior for unknown
// companies.
func NewMockRegistry() *MockRegistry {
	mock := &MockRegistry{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastPath = r.URL.Path
		mock.LastQuery = r.URL.RawQuery
		if user, _, ok := r.BasicAuth(); ok {
			mock.LastAuthUser = user
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"error":"company-profile-not-found"}]}`))
	}))

	return mock
}

// URL returns the mock server URL, usable as the client's BaseURL.
func (m *MockRegistry) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockRegistry) Close() {
	m.server.Close()
}

// Reset clears the tracking state.
func (m *MockRegistry) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastPath = ""
	m.LastQuery = ""
	m.LastAuthUser = ""
}

// SetHandler sets a custom handler for a specific path.
func (m *MockRegistry) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockRegistry) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetProfile configures the company profile endpoint for a number.
func (m *MockRegistry) SetProfile(companyNumber, body string) {
	m.SetResponse("/company/"+companyNumber, MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockRegistry) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastAuthUser returns the basic-auth username of the most recent
// request.
func (m *MockRegistry) GetLastAuthUser() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastAuthUser
}

// GetLastQuery returns the raw query string of the most recent request.
func (m *MockRegistry) GetLastQuery() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// ProfileBody builds a minimal profile response document.
func ProfileBody(companyNumber, companyName, jurisdiction, companyType string) string {
	return `{
		"company_number": "` + companyNumber + `",
		"company_name": "` + companyName + `",
		"jurisdiction": "` + jurisdiction + `",
		"type": "` + companyType + `",
		"registered_office_address": {
			"address_line_1": "1 Main St",
			"locality": "London"
		},
		"links": {"self": "/company/` + companyNumber + `"}
	}`
}

// OfficersBody builds an officers page with alternating roles.
func OfficersBody(names ...string) string {
	body := `{"items":[`
	for i, name := range names {
		if i > 0 {
			body += ","
		}
		role := "director"
		if i%2 == 1 {
			role = "secretary"
		}
		body += `{"name":"` + name + `","officer_role":"` + role + `"}`
	}
	return body + `]}`
}
