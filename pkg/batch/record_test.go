package batch

import (
	"testing"

	"github.com/OdhranMac/companies-house-api/pkg/registry"
)

func TestRenderDirectors(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected string
	}{
		{"several", []string{"SMITH, John", "BROWN, Alice"}, "SMITH, John | BROWN, Alice"},
		{"one", []string{"SMITH, John"}, "SMITH, John"},
		{"none", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := renderDirectors(tt.names); result != tt.expected {
				t.Errorf("renderDirectors() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRenderCharges_NumberedBlocks(t *testing.T) {
	charges := []registry.Charge{
		{
			Classification: "floating-charge",
			CreatedOn:      "2020-02-01",
			DeliveredOn:    "2020-02-03",
			Status:         "outstanding",
			PersonEntitled: "FIRST BANK PLC",
			Particulars:    "all assets...",
		},
		{
			Classification: "fixed-charge",
			CreatedOn:      "2021-03-01",
			DeliveredOn:    "2021-03-02",
			Status:         "part-satisfied",
			PersonEntitled: "LENDER LTD",
		},
	}

	expected := "1:\n" +
		"Description: floating-charge\n" +
		"Created: 2020-02-01\n" +
		"Delivered: 2020-02-03\n" +
		"Status: outstanding\n" +
		"Persons entitled: FIRST BANK PLC\n" +
		"Short particulars: all assets...\n" +
		"\n" +
		"2:\n" +
		"Description: fixed-charge\n" +
		"Created: 2021-03-01\n" +
		"Delivered: 2021-03-02\n" +
		"Status: part-satisfied\n" +
		"Persons entitled: LENDER LTD\n" +
		SentinelNoResult

	if result := renderCharges(charges); result != expected {
		t.Errorf("renderCharges() = %q, want %q", result, expected)
	}
}

func TestRenderCharges_Empty(t *testing.T) {
	if result := renderCharges(nil); result != "" {
		t.Errorf("renderCharges(nil) = %q, want empty", result)
	}
}
