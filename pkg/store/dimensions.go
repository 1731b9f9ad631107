// pkg/store/dimensions.go
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hollis-data/banking-etl/pkg/model"
)

// Dimension writers. Callers pass records already unique on the natural
// key; a DO UPDATE upsert cannot touch the same key twice in one statement.

// UpsertCustomers writes customer dimension records, refreshing the
// attributes of customers seen before
func (s *Store) UpsertCustomers(ctx context.Context, customers []model.DimCustomer) error {
	if len(customers) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.dim_customers
		(customer_id, customer_name, customer_email, customer_phone, customer_age, customer_segment, is_active)
		VALUES (:customer_id, :customer_name, :customer_email, :customer_phone, :customer_age, :customer_segment, TRUE)
		ON CONFLICT (customer_id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			customer_email = EXCLUDED.customer_email,
			customer_phone = EXCLUDED.customer_phone,
			customer_age = EXCLUDED.customer_age,
			customer_segment = EXCLUDED.customer_segment,
			updated_at = CURRENT_TIMESTAMP`, s.pipe.WarehouseSchema)

	if _, err := sqlx.NamedExecContext(ctx, s.executor(ctx), query, customers); err != nil {
		return fmt.Errorf("failed to upsert customer dimension: %w", err)
	}

	return nil
}

// UpsertProducts writes product dimension records. The product type
// serves as id and name; the category is fixed for this warehouse.
func (s *Store) UpsertProducts(ctx context.Context, products []model.DimProduct) error {
	if len(products) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.dim_products
		(product_id, product_type, product_name, product_category, is_active)
		VALUES (:product_type, :product_type, :product_type, 'BANKING', TRUE)
		ON CONFLICT (product_type) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			updated_at = CURRENT_TIMESTAMP`, s.pipe.WarehouseSchema)

	if _, err := sqlx.NamedExecContext(ctx, s.executor(ctx), query, products); err != nil {
		return fmt.Errorf("failed to upsert product dimension: %w", err)
	}

	return nil
}

// UpsertBranches writes branch dimension records, keyed by branch_id
func (s *Store) UpsertBranches(ctx context.Context, branches []model.DimBranch) error {
	if len(branches) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.dim_branches
		(branch_id, branch_name, branch_location, is_active)
		VALUES (:branch_id, :branch_id, :branch_location, TRUE)
		ON CONFLICT (branch_id) DO UPDATE SET
			branch_location = EXCLUDED.branch_location,
			updated_at = CURRENT_TIMESTAMP`, s.pipe.WarehouseSchema)

	if _, err := sqlx.NamedExecContext(ctx, s.executor(ctx), query, branches); err != nil {
		return fmt.Errorf("failed to upsert branch dimension: %w", err)
	}

	return nil
}

// UpsertDates writes calendar records for transaction dates. Calendar
// attributes never change, so existing dates are left alone.
func (s *Store) UpsertDates(ctx context.Context, dates []model.DimDate) error {
	if len(dates) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.dim_time
		(date, year, quarter, month, day, day_of_week, day_name, month_name, week_of_year, is_weekend)
		VALUES (:date, :year, :quarter, :month, :day, :day_of_week, :day_name, :month_name, :week_of_year, :is_weekend)
		ON CONFLICT (date) DO NOTHING`, s.pipe.WarehouseSchema)

	if _, err := sqlx.NamedExecContext(ctx, s.executor(ctx), query, dates); err != nil {
		return fmt.Errorf("failed to upsert time dimension: %w", err)
	}

	return nil
}
