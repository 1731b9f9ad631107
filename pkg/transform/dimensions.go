// pkg/transform/dimensions.go
package transform

import (
	"sort"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// dimensionRecords holds the distinct dimension rows derived from one
// cleaned batch, each unique on its natural key
type dimensionRecords struct {
	Customers []model.DimCustomer
	Products  []model.DimProduct
	Branches  []model.DimBranch
	Dates     []model.DimDate
}

// deriveDimensions reduces a cleaned batch to one record per natural
// key. When a key appears more than once the later row wins, so the
// freshest attributes reach the upsert. Records come out sorted by key
// for deterministic statements.
func deriveDimensions(rows []model.CleanedRow) dimensionRecords {
	customers := make(map[string]model.DimCustomer)
	products := make(map[string]model.DimProduct)
	branches := make(map[string]model.DimBranch)
	dates := make(map[string]model.DimDate)

	for _, row := range rows {
		customers[row.CustomerID] = model.DimCustomer{
			CustomerID: row.CustomerID,
			Name:       row.CustomerName,
			Email:      row.CustomerEmail,
			Phone:      row.CustomerPhone,
			Age:        row.CustomerAge,
			Segment:    row.CustomerSegment,
		}

		products[row.ProductType] = model.DimProduct{ProductType: row.ProductType}

		if row.BranchID.Valid && row.BranchID.String != "" {
			branches[row.BranchID.String] = model.DimBranch{
				BranchID: row.BranchID.String,
				Location: row.BranchLocation,
			}
		}

		date := model.NewDimDate(row.TransactionDate)
		dates[date.Date.Format("2006-01-02")] = date
	}

	var records dimensionRecords

	for _, key := range sortedKeys(customers) {
		records.Customers = append(records.Customers, customers[key])
	}
	for _, key := range sortedKeys(products) {
		records.Products = append(records.Products, products[key])
	}
	for _, key := range sortedKeys(branches) {
		records.Branches = append(records.Branches, branches[key])
	}
	for _, key := range sortedKeys(dates) {
		records.Dates = append(records.Dates, dates[key])
	}

	return records
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
