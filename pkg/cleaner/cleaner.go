// pkg/cleaner/cleaner.go
package cleaner

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// RowCleaner turns raw staged rows into cleaned, typed rows through a
// fixed sequence of cleaning passes: dates, amounts, text fields,
// missing values, duplicates. Each pass receives the survivors of the
// previous one. Cleaning has no side effects; persistence belongs to
// the orchestrator.
type RowCleaner struct {
	logger *zap.Logger
}

// NewRowCleaner creates a new cleaner instance
func NewRowCleaner(logger *zap.Logger) *RowCleaner {
	if logger == nil {
		logger = zap.L().Named("row-cleaner")
	}

	return &RowCleaner{logger: logger}
}

// Result is the outcome of cleaning one batch. Every input row lands in
// exactly one of Rows or Dropped.
type Result struct {
	Rows    []model.CleanedRow
	Dropped []model.DropRecord
}

func (r *Result) drop(id int64, reason model.DropReason, detail string) {
	r.Dropped = append(r.Dropped, model.DropRecord{
		SourceRowID: id,
		Reason:      reason,
		Detail:      detail,
	})
}

// candidate carries a staged row through the passes while its cleaned
// form is assembled
type candidate struct {
	staged  model.StagedRow
	cleaned model.CleanedRow
}

// Clean runs all cleaning passes over one batch. The batch arrives in
// source row id order and every pass preserves that order, so the first
// occurrence kept by deduplication is the one with the smallest id.
func (c *RowCleaner) Clean(batch []model.StagedRow) Result {
	var res Result
	if len(batch) == 0 {
		return res
	}

	work := make([]candidate, 0, len(batch))
	for _, row := range batch {
		work = append(work, candidate{
			staged:  row,
			cleaned: model.CleanedRow{SourceRowID: row.ID},
		})
	}

	work = c.cleanDates(work, &res)
	work = c.cleanAmounts(work, &res)
	work = c.cleanTextFields(work, &res)
	work = c.handleMissingValues(work, &res)
	work = c.removeDuplicates(work, &res)

	res.Rows = make([]model.CleanedRow, 0, len(work))
	for _, cand := range work {
		res.Rows = append(res.Rows, cand.cleaned)
	}

	c.logger.Info("Cleaning complete",
		zap.Int("input_rows", len(batch)),
		zap.Int("cleaned_rows", len(res.Rows)),
		zap.Int("dropped_rows", len(res.Dropped)))

	return res
}

// cleanDates parses the transaction date, dropping rows no layout can
// make sense of
func (c *RowCleaner) cleanDates(work []candidate, res *Result) []candidate {
	kept := make([]candidate, 0, len(work))

	for _, cand := range work {
		parsed, err := parseTransactionDate(cand.staged.TransactionDate)
		if err != nil {
			res.drop(cand.staged.ID, model.DropUnparsableDate, err.Error())
			continue
		}

		cand.cleaned.TransactionDate = parsed
		kept = append(kept, cand)
	}

	c.logger.Debug("Date pass complete",
		zap.Int("kept", len(kept)),
		zap.Int("dropped", len(work)-len(kept)))

	return kept
}

// cleanAmounts normalizes the transaction amount to a positive number,
// dropping rows whose amount is null, zero, or unparsable
func (c *RowCleaner) cleanAmounts(work []candidate, res *Result) []candidate {
	kept := make([]candidate, 0, len(work))

	for _, cand := range work {
		amount, err := normalizeAmount(cand.staged.TransactionAmount)
		if err != nil {
			res.drop(cand.staged.ID, model.DropInvalidAmount, err.Error())
			continue
		}

		cand.cleaned.TransactionAmount = amount
		kept = append(kept, cand)
	}

	c.logger.Debug("Amount pass complete",
		zap.Int("kept", len(kept)),
		zap.Int("dropped", len(work)-len(kept)))

	return kept
}

// cleanTextFields trims and title-cases the free-text fields, dropping
// rows where one of them is empty after trimming
func (c *RowCleaner) cleanTextFields(work []candidate, res *Result) []candidate {
	kept := make([]candidate, 0, len(work))

	for _, cand := range work {
		productType := normalizeText(cand.staged.ProductType)
		if productType == "" {
			res.drop(cand.staged.ID, model.DropEmptyText, "product_type is empty")
			continue
		}

		customerName := normalizeText(cand.staged.CustomerName)
		if customerName == "" {
			res.drop(cand.staged.ID, model.DropEmptyText, "customer_name is empty")
			continue
		}

		branchLocation := normalizeText(cand.staged.BranchLocation)
		if branchLocation == "" {
			res.drop(cand.staged.ID, model.DropEmptyText, "branch_location is empty")
			continue
		}

		cand.cleaned.ProductType = productType
		cand.cleaned.CustomerName = customerName
		cand.cleaned.BranchLocation = branchLocation
		kept = append(kept, cand)
	}

	c.logger.Debug("Text pass complete",
		zap.Int("kept", len(kept)),
		zap.Int("dropped", len(work)-len(kept)))

	return kept
}

// handleMissingValues drops rows missing a critical identity field and
// fills the documented defaults for the rest. Dates and amounts are
// already guaranteed by the earlier passes.
func (c *RowCleaner) handleMissingValues(work []candidate, res *Result) []candidate {
	kept := make([]candidate, 0, len(work))

	for _, cand := range work {
		row := cand.staged

		if !row.CustomerID.Valid {
			res.drop(row.ID, model.DropMissingCritical, "customer_id is null")
			continue
		}
		if !row.TransactionID.Valid {
			res.drop(row.ID, model.DropMissingCritical, "transaction_id is null")
			continue
		}

		cand.cleaned.CustomerID = row.CustomerID.String
		cand.cleaned.TransactionID = row.TransactionID.String
		cand.cleaned.TransactionType = row.TransactionType
		cand.cleaned.AccountType = row.AccountType
		cand.cleaned.CustomerEmail = row.CustomerEmail
		cand.cleaned.CustomerPhone = row.CustomerPhone
		cand.cleaned.CustomerAge = parseAge(row.CustomerAge)
		cand.cleaned.BranchID = row.BranchID

		cand.cleaned.AccountStatus = defaultIfNull(row.AccountStatus, "UNKNOWN")
		if cand.cleaned.ProductType == "" {
			cand.cleaned.ProductType = "UNCLASSIFIED"
		}
		cand.cleaned.CustomerSegment = defaultIfNull(row.CustomerSegment, "GENERAL")

		kept = append(kept, cand)
	}

	c.logger.Debug("Missing value pass complete",
		zap.Int("kept", len(kept)),
		zap.Int("dropped", len(work)-len(kept)))

	return kept
}

// removeDuplicates keeps the first occurrence of every
// (customer_id, transaction_id, transaction_date) key
func (c *RowCleaner) removeDuplicates(work []candidate, res *Result) []candidate {
	kept := make([]candidate, 0, len(work))
	seen := make(map[string]struct{}, len(work))

	for _, cand := range work {
		key := cand.cleaned.DedupKey()
		if _, ok := seen[key]; ok {
			res.drop(cand.staged.ID, model.DropDuplicate, fmt.Sprintf("duplicate of %s", key))
			continue
		}

		seen[key] = struct{}{}
		kept = append(kept, cand)
	}

	c.logger.Debug("Duplicate pass complete",
		zap.Int("kept", len(kept)),
		zap.Int("dropped", len(work)-len(kept)))

	return kept
}
