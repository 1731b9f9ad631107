// pkg/model/cleaning.go
package model

import "fmt"

// DropReason identifies which cleaning pass rejected a row
type DropReason int

const (
	// Drop reasons in cleaning pass order
	DropUnparsableDate DropReason = iota
	DropInvalidAmount
	DropEmptyText
	DropMissingCritical
	DropDuplicate
)

// String returns a string representation of the drop reason
func (r DropReason) String() string {
	switch r {
	case DropUnparsableDate:
		return "UnparsableDate"
	case DropInvalidAmount:
		return "InvalidAmount"
	case DropEmptyText:
		return "EmptyText"
	case DropMissingCritical:
		return "MissingCritical"
	case DropDuplicate:
		return "Duplicate"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// DropRecord explains why a single staged row was rejected during cleaning.
// Dropped rows are counted as rejected and never retried.
type DropRecord struct {
	SourceRowID int64      // staging id of the rejected row
	Reason      DropReason // which pass rejected it
	Detail      string     // offending value or duplicate winner, free text
}

// String returns a formatted drop description
func (d DropRecord) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("row %d: %s", d.SourceRowID, d.Reason)
	}
	return fmt.Sprintf("row %d: %s (%s)", d.SourceRowID, d.Reason, d.Detail)
}
