package batch

import (
	"fmt"
	"strings"

	"github.com/OdhranMac/companies-house-api/pkg/registry"
)

// Sentinel values written when a field could not be resolved. They are
// part of the output format; internal logic branches on typed absence,
// not on these strings.
const (
	SentinelNoResult     = "[No Result]"
	SentinelNoDirectors  = "[No Directors]"
	SentinelNoCharges    = "[No Charges]"
	SentinelNoInsolvency = "[No Insolvency Data]"
)

// Record is one output row. Directors, Charges and Insolvency are only
// meaningful when the corresponding option was enabled for the run.
type Record struct {
	CompanyNumber           string
	CompanyName             string
	Jurisdiction            string
	Type                    string
	RegisteredOfficeAddress string
	Directors               string
	Charges                 string
	Insolvency              string
}

// renderDirectors joins director names into a single field.
func renderDirectors(names []string) string {
	return strings.Join(names, " | ")
}

// renderCharges formats charges as numbered blocks, one labelled line
// per field, blank line between charges, trailing whitespace trimmed.
func renderCharges(charges []registry.Charge) string {
	var b strings.Builder
	for i, charge := range charges {
		fmt.Fprintf(&b, "%d:\n", i+1)
		b.WriteString("Description: " + charge.Classification + "\n")
		b.WriteString("Created: " + charge.CreatedOn + "\n")
		b.WriteString("Delivered: " + charge.DeliveredOn + "\n")
		b.WriteString("Status: " + charge.Status + "\n")
		b.WriteString("Persons entitled: " + charge.PersonEntitled + "\n")
		if charge.Particulars != "" {
			b.WriteString("Short particulars: " + charge.Particulars + "\n")
		} else {
			b.WriteString(SentinelNoResult + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
