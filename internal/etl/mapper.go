package etl

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/campfin/fecload/pkg/models"
)

const (
	// AmountFloor excludes small-dollar receipts. The comparison is
	// inclusive: a contribution of exactly 125 is dropped.
	AmountFloor = 125

	// YearsBack bounds how far back receipts are loaded.
	YearsBack = 6
)

var (
	// ErrSkipRecord marks a record that fails a filter; the caller moves on.
	ErrSkipRecord = errors.New("record filtered out")

	// ErrBeforeCutoff marks a record older than the cutoff. Pages are sorted
	// by receipt date descending, so everything after it is older still and
	// the caller should stop paginating the period.
	ErrBeforeCutoff = errors.New("record before cutoff date")
)

// Mapper filters raw schedule A records and reshapes the survivors into
// reporting rows. The cutoff is fixed at construction; Map is a pure
// function of its input and that cutoff.
type Mapper struct {
	Cutoff civil.Date
}

func NewMapper(runStart time.Time) *Mapper {
	return &Mapper{Cutoff: civil.DateOf(runStart.AddDate(0, 0, -365*YearsBack))}
}

// Map applies the business filters in order and builds the output row.
func (m *Mapper) Map(rec models.Contribution) (*models.ContributionRow, error) {
	if rec.ReceiptDate == "" {
		return nil, ErrSkipRecord
	}
	dt, err := civil.ParseDate(receiptDay(rec.ReceiptDate))
	if err != nil {
		return nil, ErrSkipRecord
	}
	if dt.Before(m.Cutoff) {
		return nil, ErrBeforeCutoff
	}

	var amt float64
	if rec.ReceiptAmount != nil {
		amt = *rec.ReceiptAmount
	}
	if amt <= AmountFloor {
		return nil, ErrSkipRecord
	}

	street := strings.TrimSpace(rec.ContributorStreet1 + " " + rec.ContributorStreet2)

	return &models.ContributionRow{
		CmteID:         rec.CommitteeID,
		RptTp:          rec.ReportType,
		TransactionTp:  rec.LineNumberLabel,
		TransactionPGI: rec.ReceiptStep,
		EntityTp:       rec.EntityType,
		Name:           rec.ContributorName,
		StreetAddress:  street,
		City:           rec.ContributorCity,
		State:          rec.ContributorState,
		ZipCode:        rec.ContributorZip,
		Employer:       rec.ContributorEmployer,
		Occupation:     rec.ContributorOccupation,
		TransactionDt:  dt,
		TransactionAmt: amt,
		TranID:         rec.TransactionID,
	}, nil
}

// receiptDay strips any time portion the API includes on the receipt date.
func receiptDay(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
