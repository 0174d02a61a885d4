package models

import "cloud.google.com/go/civil"

// ContributionRow is the projection loaded into the reporting tables.
// The bigquery tags match the fixed 15-column schema shared by the staging
// and final tables.
type ContributionRow struct {
	CmteID         string     `bigquery:"cmte_id"`
	RptTp          string     `bigquery:"ind_rpt_tp"`
	TransactionTp  string     `bigquery:"ind_transaction_tp"`
	TransactionPGI string     `bigquery:"ind_transaction_pgi"`
	EntityTp       string     `bigquery:"ind_entity_tp"`
	Name           string     `bigquery:"ind_name"`
	StreetAddress  string     `bigquery:"ind_street_address"`
	City           string     `bigquery:"ind_city"`
	State          string     `bigquery:"ind_state"`
	ZipCode        string     `bigquery:"ind_zip_code"`
	Employer       string     `bigquery:"ind_employer"`
	Occupation     string     `bigquery:"ind_occupation"`
	TransactionDt  civil.Date `bigquery:"ind_transaction_dt"`
	TransactionAmt float64    `bigquery:"ind_transaction_amt"`
	TranID         string     `bigquery:"ind_tran_id"`
}
