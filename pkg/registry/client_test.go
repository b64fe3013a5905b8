package registry

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/OdhranMac/companies-house-api/internal/testutil"
)

// newTestClient creates a client pointed at a mock registry with a
// short throttle interval to keep tests fast.
func newTestClient(t *testing.T, mock *testutil.MockRegistry) *Client {
	t.Helper()

	cfg := DefaultConfig("test-api-key")
	cfg.BaseURL = mock.URL()
	cfg.MinInterval = time.Millisecond

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			config:      DefaultConfig("key"),
			expectError: false,
		},
		{
			name:        "missing api key",
			config:      Config{},
			expectError: true,
			errorMsg:    "api key is required",
		},
		{
			name: "defaults applied",
			config: Config{
				APIKey: "key",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if client == nil {
					t.Error("Client is nil")
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("key")

	if cfg.APIKey != "key" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "key")
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.MinInterval < 500*time.Millisecond {
		t.Errorf("MinInterval = %v, must be >= 500ms to satisfy the published limit", cfg.MinInterval)
	}
}

func TestCompanyProfile(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	mock.SetProfile("00445790", `{
		"company_number": "00445790",
		"company_name": "TEST COMPANY LIMITED",
		"jurisdiction": "england-wales",
		"type": "ltd",
		"registered_office_address": {
			"address_line_1": "1 Main St",
			"locality": "London"
		},
		"links": {
			"officers": "/company/00445790/officers",
			"charges": "/company/00445790/charges"
		},
		"has_insolvency_history": false
	}`)

	client := newTestClient(t, mock)

	profile := client.CompanyProfile(context.Background(), "00445790")
	if profile == nil {
		t.Fatal("CompanyProfile() = nil, want profile")
	}

	if profile.CompanyName != "TEST COMPANY LIMITED" {
		t.Errorf("CompanyName = %q, want %q", profile.CompanyName, "TEST COMPANY LIMITED")
	}
	if profile.Jurisdiction != "england-wales" {
		t.Errorf("Jurisdiction = %q, want %q", profile.Jurisdiction, "england-wales")
	}
	if profile.Links.Officers != "/company/00445790/officers" {
		t.Errorf("Links.Officers = %q, want officers path", profile.Links.Officers)
	}
	if profile.HasInsolvencyHistory == nil || *profile.HasInsolvencyHistory {
		t.Error("HasInsolvencyHistory should be present and false")
	}

	if mock.GetLastAuthUser() != "test-api-key" {
		t.Errorf("Basic auth user = %q, want the API key", mock.GetLastAuthUser())
	}
}

func TestCompanyProfile_NotFound(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	client := newTestClient(t, mock)

	profile := client.CompanyProfile(context.Background(), "99999999")
	if profile != nil {
		t.Errorf("CompanyProfile() = %+v, want nil for unknown company", profile)
	}
}

func TestCompanyProfile_ServerError(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	mock.SetResponse("/company/00000001", testutil.MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error":"internal"}`,
	})

	client := newTestClient(t, mock)

	// Transport-level failures collapse to nil, never an error.
	if profile := client.CompanyProfile(context.Background(), "00000001"); profile != nil {
		t.Errorf("CompanyProfile() = %+v, want nil on 500", profile)
	}
}

func TestCompanyProfile_NetworkError(t *testing.T) {
	mock := testutil.NewMockRegistry()
	mock.Close() // Closed server: connection refused.

	client := newTestClient(t, mock)

	if profile := client.CompanyProfile(context.Background(), "00445790"); profile != nil {
		t.Errorf("CompanyProfile() = %+v, want nil on network error", profile)
	}
}

func TestSearchFirst(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string // company number of first result, "" for nil
	}{
		{
			name: "first of several",
			body: `{"items":[
				{"company_number":"00000001","title":"FIRST LTD"},
				{"company_number":"00000002","title":"SECOND LTD"}
			]}`,
			expected: "00000001",
		},
		{
			name:     "empty items",
			body:     `{"items":[]}`,
			expected: "",
		},
		{
			name:     "items absent",
			body:     `{}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockRegistry()
			defer mock.Close()

			mock.SetResponse("/search/companies", testutil.MockResponse{
				StatusCode: http.StatusOK,
				Body:       tt.body,
			})

			client := newTestClient(t, mock)
			result := client.SearchFirst(context.Background(), "test company")

			if tt.expected == "" {
				if result != nil {
					t.Errorf("SearchFirst() = %+v, want nil", result)
				}
				return
			}
			if result == nil {
				t.Fatal("SearchFirst() = nil, want first item")
			}
			if result.CompanyNumber != tt.expected {
				t.Errorf("CompanyNumber = %q, want %q", result.CompanyNumber, tt.expected)
			}
		})
	}
}

func TestSearchFirst_QueryEncoded(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	mock.SetResponse("/search/companies", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"items":[{"company_number":"00000001"}]}`,
	})

	client := newTestClient(t, mock)
	client.SearchFirst(context.Background(), "Smith & Sons")

	if !strings.Contains(mock.GetLastQuery(), "q=Smith+%26+Sons") {
		t.Errorf("Query = %q, want the name URL-encoded", mock.GetLastQuery())
	}
}

func TestDirectors_RoleFilter(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	mock.SetResponse("/company/00445790/officers", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body: `{"items":[
			{"name":"SMITH, John","officer_role":"director"},
			{"name":"JONES, Mary","officer_role":"secretary"},
			{"name":"BROWN, Alice","officer_role":"director"}
		]}`,
	})

	client := newTestClient(t, mock)
	directors := client.Directors(context.Background(), "/company/00445790/officers")

	if len(directors) != 2 {
		t.Fatalf("len(directors) = %d, want 2", len(directors))
	}
	if directors[0] != "SMITH, John" || directors[1] != "BROWN, Alice" {
		t.Errorf("directors = %v, want directors only in original order", directors)
	}
}

func TestDirectors_PageParameters(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	mock.SetResponse("/company/00445790/officers", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"items":[]}`,
	})

	client := newTestClient(t, mock)
	client.Directors(context.Background(), "/company/00445790/officers")

	query := mock.GetLastQuery()
	if !strings.Contains(query, "items_per_page=200") {
		t.Errorf("Query = %q, want items_per_page=200", query)
	}
	if !strings.Contains(query, "start_index=0") {
		t.Errorf("Query = %q, want start_index=0", query)
	}
}

func TestDirectors_FetchFailure(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	client := newTestClient(t, mock)

	if directors := client.Directors(context.Background(), "/company/missing/officers"); len(directors) != 0 {
		t.Errorf("Directors() = %v, want empty on 404", directors)
	}
}

func TestCharges_FilterAndExtract(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	longParticulars := strings.Repeat("x", 150)

	mock.SetResponse("/company/00445790/charges", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body: `{"items":[
			{
				"classification": {"description": "charge-description"},
				"created_on": "2019-01-01",
				"delivered_on": "2019-01-05",
				"status": "fully-satisfied",
				"persons_entitled": [{"name": "OLD BANK PLC"}],
				"particulars": {"description": "satisfied charge"}
			},
			{
				"classification": {"description": "floating-charge"},
				"created_on": "2020-02-01",
				"delivered_on": "2020-02-03",
				"status": "outstanding",
				"persons_entitled": [{"name": "FIRST BANK PLC"}, {"name": "SECOND BANK PLC"}],
				"particulars": {"description": "` + longParticulars + `"}
			},
			{
				"classification": {"description": "fixed-charge"},
				"created_on": "2021-03-01",
				"delivered_on": "2021-03-02",
				"status": "part-satisfied",
				"persons_entitled": [{"name": "LENDER LTD"}],
				"particulars": {}
			}
		]}`,
	})

	client := newTestClient(t, mock)
	charges := client.Charges(context.Background(), "/company/00445790/charges")

	// The fully-satisfied charge is dropped, survivors keep order.
	if len(charges) != 2 {
		t.Fatalf("len(charges) = %d, want 2", len(charges))
	}

	first := charges[0]
	if first.Classification != "floating-charge" {
		t.Errorf("Classification = %q, want %q", first.Classification, "floating-charge")
	}
	if first.Status != "outstanding" {
		t.Errorf("Status = %q, want %q", first.Status, "outstanding")
	}
	// Only the first entitled person is captured.
	if first.PersonEntitled != "FIRST BANK PLC" {
		t.Errorf("PersonEntitled = %q, want first entry only", first.PersonEntitled)
	}
	// Particulars truncated to 100 chars plus the ellipsis marker.
	expected := strings.Repeat("x", 100) + "..."
	if first.Particulars != expected {
		t.Errorf("Particulars = %q (len %d), want 100 chars + ellipsis", first.Particulars, len(first.Particulars))
	}

	second := charges[1]
	if second.Classification != "fixed-charge" {
		t.Errorf("Classification = %q, want %q", second.Classification, "fixed-charge")
	}
	if second.Particulars != "" {
		t.Errorf("Particulars = %q, want empty when absent", second.Particulars)
	}
}

func TestCharges_ShortParticularsKeepMarker(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	mock.SetResponse("/company/00445790/charges", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body: `{"items":[{
			"classification": {"description": "c"},
			"created_on": "2020-01-01",
			"delivered_on": "2020-01-02",
			"status": "outstanding",
			"persons_entitled": [{"name": "BANK"}],
			"particulars": {"description": "short"}
		}]}`,
	})

	client := newTestClient(t, mock)
	charges := client.Charges(context.Background(), "/company/00445790/charges")

	if len(charges) != 1 {
		t.Fatalf("len(charges) = %d, want 1", len(charges))
	}
	if charges[0].Particulars != "short..." {
		t.Errorf("Particulars = %q, want %q", charges[0].Particulars, "short...")
	}
}

func TestCharges_NoEntitledPersons(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	mock.SetResponse("/company/00445790/charges", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body: `{"items":[{
			"classification": {"description": "c"},
			"created_on": "2020-01-01",
			"delivered_on": "2020-01-02",
			"status": "outstanding",
			"persons_entitled": [],
			"particulars": {}
		}]}`,
	})

	client := newTestClient(t, mock)
	charges := client.Charges(context.Background(), "/company/00445790/charges")

	if len(charges) != 1 {
		t.Fatalf("len(charges) = %d, want 1", len(charges))
	}
	if charges[0].PersonEntitled != "" {
		t.Errorf("PersonEntitled = %q, want empty with no entries", charges[0].PersonEntitled)
	}
}

func TestRequestSpacing(t *testing.T) {
	mock := testutil.NewMockRegistry()
	defer mock.Close()

	mock.SetProfile("00445790", testutil.ProfileBody("00445790", "TEST LTD", "england-wales", "ltd"))

	cfg := DefaultConfig("test-api-key")
	cfg.BaseURL = mock.URL()
	cfg.MinInterval = 150 * time.Millisecond

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()

	// First call never waits.
	start := time.Now()
	client.CompanyProfile(ctx, "00445790")
	if waited := time.Since(start); waited > 100*time.Millisecond {
		t.Errorf("First call took %v, should not be throttled", waited)
	}

	// Back-to-back second call is separated by at least the interval,
	// so the two calls together span at least one interval.
	client.CompanyProfile(ctx, "00445790")
	if elapsed := time.Since(start); elapsed < cfg.MinInterval {
		t.Errorf("Two calls completed in %v, want at least %v between call starts", elapsed, cfg.MinInterval)
	}

	state := client.ThrottleState()
	if state.Requests != 2 {
		t.Errorf("Throttle requests = %d, want 2", state.Requests)
	}
}
