package registry

import "strings"

// Address is a company's registered office address. Every component is
// optional; Companies House omits fields it has no data for.
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Locality     string `json:"locality,omitempty"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

// OneLine joins the present address components with ", " in the fixed
// order line1, line2, locality, region, postal code, country.
func (a Address) OneLine() string {
	components := []string{
		a.AddressLine1,
		a.AddressLine2,
		a.Locality,
		a.Region,
		a.PostalCode,
		a.Country,
	}

	present := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			present = append(present, c)
		}
	}

	return strings.Join(present, ", ")
}

// Links holds the sub-resource paths a profile exposes. Paths are
// relative to the API root. Empty string means the company has no such
// sub-resource.
type Links struct {
	Officers   string `json:"officers,omitempty"`
	Charges    string `json:"charges,omitempty"`
	Insolvency string `json:"insolvency,omitempty"`
}

// CompanyProfile is the primary record describing a company.
type CompanyProfile struct {
	CompanyNumber string  `json:"company_number"`
	CompanyName   string  `json:"company_name"`
	Jurisdiction  string  `json:"jurisdiction"`
	Type          string  `json:"type"`
	Address       Address `json:"registered_office_address"`
	Links         Links   `json:"links"`

	// HasInsolvencyHistory is nil when the profile does not carry the
	// indicator at all.
	HasInsolvencyHistory *bool `json:"has_insolvency_history,omitempty"`
}

// SearchResult is a single item from the company search endpoint.
type SearchResult struct {
	CompanyNumber string `json:"company_number"`
	Title         string `json:"title"`
	CompanyType   string `json:"company_type"`
	CompanyStatus string `json:"company_status"`
}

// Charge is one registered charge against a company, reduced to the
// fields the enrichment output reports. Only the first entitled person
// is captured even when several exist.
type Charge struct {
	Classification string
	CreatedOn      string
	DeliveredOn    string
	Status         string
	PersonEntitled string

	// Particulars is the short particulars description, truncated to
	// 100 characters with a trailing ellipsis marker. Empty when the
	// charge carries no particulars description.
	Particulars string
}

// Wire shapes for sub-resource pages. Decoded internally and reduced to
// the public types above.

type searchPage struct {
	Items []SearchResult `json:"items"`
}

type officersPage struct {
	Items []struct {
		Name        string `json:"name"`
		OfficerRole string `json:"officer_role"`
	} `json:"items"`
}

type chargesPage struct {
	Items []struct {
		Classification struct {
			Description string `json:"description"`
		} `json:"classification"`
		CreatedOn       string `json:"created_on"`
		DeliveredOn     string `json:"delivered_on"`
		Status          string `json:"status"`
		PersonsEntitled []struct {
			Name string `json:"name"`
		} `json:"persons_entitled"`
		Particulars struct {
			Description string `json:"description"`
		} `json:"particulars"`
	} `json:"items"`
}
