package queries

import (
	"context"
	"database/sql"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler retrieves order summaries with raw SQL.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler for order listings.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are newest first.
func (h ListOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersQuery,
) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlText := `
		SELECT
			id,
			customer_id,
			status,
			total_cents,
			driver_name,
			address,
			created_at,
			updated_at
		FROM orders
		WHERE tenant_id = ?
	`
	args := []any{query.Actor().TenantID().String()}
	if query.Actor().Role() == kernel.RoleCustomer {
		sqlText += " AND customer_id = ?"
		args = append(args, query.Actor().UserID().String())
	}
	if query.Status() != nil {
		sqlText += " AND status = ?"
		args = append(args, query.Status().String())
	}
	sqlText += " ORDER BY created_at DESC"

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]ListOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp       ListOrdersQueryResponse
			id         uuid.UUID
			customerID uuid.UUID
			driverName sql.NullString
		)

		err = rows.Scan(
			&id,
			&customerID,
			&resp.Status,
			&resp.TotalCents,
			&driverName,
			&resp.Address,
			&resp.CreatedAt,
			&resp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		resp.DriverName = driverName.String

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
