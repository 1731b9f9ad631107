// pkg/model/dimension.go
package model

import (
	"database/sql"
	"time"
)

// DimCustomer is an upsert record for banking_dw.dim_customers,
// keyed by the natural customer_id.
type DimCustomer struct {
	CustomerID string         `db:"customer_id"`
	Name       string         `db:"customer_name"`
	Email      sql.NullString `db:"customer_email"`
	Phone      sql.NullString `db:"customer_phone"`
	Age        sql.NullInt64  `db:"customer_age"`
	Segment    string         `db:"customer_segment"`
}

// DimProduct is an upsert record for banking_dw.dim_products. The product
// type doubles as id and name; category is fixed for this warehouse.
type DimProduct struct {
	ProductType string `db:"product_type"`
}

// DimBranch is an upsert record for banking_dw.dim_branches, keyed by
// branch_id. The branch id doubles as the branch name.
type DimBranch struct {
	BranchID string `db:"branch_id"`
	Location string `db:"branch_location"`
}

// DimDate is an insert record for banking_dw.dim_time. Calendar attributes
// never change, so conflicts on date are ignored.
type DimDate struct {
	Date       time.Time `db:"date"`
	Year       int       `db:"year"`
	Quarter    int       `db:"quarter"`
	Month      int       `db:"month"`
	Day        int       `db:"day"`
	DayOfWeek  int       `db:"day_of_week"` // ISO: Monday=1 .. Sunday=7
	DayName    string    `db:"day_name"`
	MonthName  string    `db:"month_name"`
	WeekOfYear int       `db:"week_of_year"` // ISO week number
	IsWeekend  bool      `db:"is_weekend"`
}

// NewDimDate derives the full calendar record for a transaction date.
func NewDimDate(t time.Time) DimDate {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	// time.Weekday is Sunday=0; the warehouse uses ISO numbering
	isoDow := int(day.Weekday())
	if isoDow == 0 {
		isoDow = 7
	}

	_, isoWeek := day.ISOWeek()

	return DimDate{
		Date:       day,
		Year:       day.Year(),
		Quarter:    (int(day.Month())-1)/3 + 1,
		Month:      int(day.Month()),
		Day:        day.Day(),
		DayOfWeek:  isoDow,
		DayName:    day.Weekday().String(),
		MonthName:  day.Month().String(),
		WeekOfYear: isoWeek,
		IsWeekend:  isoDow == 6 || isoDow == 7,
	}
}
