package models

// Contribution is one schedule A receipt as returned by the FEC API.
// Only the fields this job projects are decoded; the rest of the payload
// is ignored.
type Contribution struct {
	CommitteeID           string   `json:"committee_id"`
	ReportType            string   `json:"report_type"`
	LineNumberLabel       string   `json:"line_number_label"`
	ReceiptStep           string   `json:"contribution_receipt_step"`
	EntityType            string   `json:"entity_type"`
	ContributorName       string   `json:"contributor_name"`
	ContributorStreet1    string   `json:"contributor_street_1"`
	ContributorStreet2    string   `json:"contributor_street_2"`
	ContributorCity       string   `json:"contributor_city"`
	ContributorState      string   `json:"contributor_state"`
	ContributorZip        string   `json:"contributor_zip"`
	ContributorEmployer   string   `json:"contributor_employer"`
	ContributorOccupation string   `json:"contributor_occupation"`
	ReceiptDate           string   `json:"contribution_receipt_date"`
	ReceiptAmount         *float64 `json:"contribution_receipt_amount"`
	TransactionID         string   `json:"transaction_id"`
}

// Pagination is the paging block of the FEC response envelope.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Count   int `json:"count"`
}

// ContributionsPage is one page of the schedule A listing.
type ContributionsPage struct {
	Results    []Contribution `json:"results"`
	Pagination Pagination     `json:"pagination"`
}
