// pkg/model/staging.go
package model

import (
	"database/sql"
	"time"
)

// StagedRow is a raw landed row from staging.raw_banking_data. Every
// attribute arrives as unvalidated text and may be NULL; only the staging
// id is trusted. Rows are immutable once landed and is_processed flips
// FALSE to TRUE exactly once.
type StagedRow struct {
	ID                int64          `db:"id"` // stable ascending identifier, becomes source_row_id downstream
	CustomerID        sql.NullString `db:"customer_id"`
	TransactionID     sql.NullString `db:"transaction_id"`
	TransactionDate   sql.NullString `db:"transaction_date"` // unparsed, any source format
	ProductType       sql.NullString `db:"product_type"`
	TransactionAmount sql.NullString `db:"transaction_amount"` // unparsed, may carry symbols and separators
	TransactionType   sql.NullString `db:"transaction_type"`
	AccountType       sql.NullString `db:"account_type"`
	AccountStatus     sql.NullString `db:"account_status"`
	CustomerName      sql.NullString `db:"customer_name"`
	CustomerEmail     sql.NullString `db:"customer_email"`
	CustomerPhone     sql.NullString `db:"customer_phone"`
	CustomerAge       sql.NullString `db:"customer_age"`
	CustomerSegment   sql.NullString `db:"customer_segment"`
	BranchID          sql.NullString `db:"branch_id"`
	BranchLocation    sql.NullString `db:"branch_location"`
}

// CleanedRow is a validated row bound for staging.cleaned_banking_data.
// Critical fields are typed and non-null; nullable attributes keep their
// NULLs. SourceRowID points back at the staging row that produced it.
type CleanedRow struct {
	SourceRowID       int64          `db:"source_row_id"`
	CustomerID        string         `db:"customer_id"`
	TransactionID     string         `db:"transaction_id"`
	TransactionDate   time.Time      `db:"transaction_date"` // date precision
	ProductType       string         `db:"product_type"`
	TransactionAmount float64        `db:"transaction_amount"` // always positive
	TransactionType   sql.NullString `db:"transaction_type"`
	AccountType       sql.NullString `db:"account_type"`
	AccountStatus     string         `db:"account_status"`
	CustomerName      string         `db:"customer_name"`
	CustomerEmail     sql.NullString `db:"customer_email"`
	CustomerPhone     sql.NullString `db:"customer_phone"`
	CustomerAge       sql.NullInt64  `db:"customer_age"`
	CustomerSegment   string         `db:"customer_segment"`
	BranchID          sql.NullString `db:"branch_id"`
	BranchLocation    string         `db:"branch_location"`
}

// DedupKey returns the natural transaction identity used for duplicate
// detection: customer, transaction and day.
func (r CleanedRow) DedupKey() string {
	return r.CustomerID + "|" + r.TransactionID + "|" + r.TransactionDate.Format("2006-01-02")
}
