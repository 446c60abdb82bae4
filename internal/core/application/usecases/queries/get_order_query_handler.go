package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves one order read model with raw SQL.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns NotFound for orders outside the actor's
// scope so cross-tenant probing learns nothing.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	sqlText := `
		SELECT
			id,
			customer_id,
			status,
			items,
			total_cents,
			cook_id,
			driver_id,
			driver_name,
			address,
			notes,
			created_at,
			updated_at,
			assigned_at,
			history
		FROM orders
		WHERE id = ? AND tenant_id = ?
	`
	args := []any{query.OrderID().String(), query.Actor().TenantID().String()}
	if query.Actor().Role() == kernel.RoleCustomer {
		sqlText += " AND customer_id = ?"
		args = append(args, query.Actor().UserID().String())
	}

	row := h.db.WithContext(ctx).Raw(sqlText, args...).Row()

	var (
		resp       GetOrderQueryResponse
		id         uuid.UUID
		customerID uuid.UUID
		cookID     uuid.NullUUID
		driverID   uuid.NullUUID
		driverName sql.NullString
		assignedAt sql.NullTime
		itemsRaw   []byte
		historyRaw []byte
	)

	err := row.Scan(
		&id,
		&customerID,
		&resp.Status,
		&itemsRaw,
		&resp.TotalCents,
		&cookID,
		&driverID,
		&driverName,
		&resp.Address,
		&resp.Notes,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&assignedAt,
		&historyRaw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError(
				"orderId", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CookID, err = optionalUUID(cookID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.DriverID, err = optionalUUID(driverID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.DriverName = driverName.String
	if assignedAt.Valid {
		at := assignedAt.Time
		resp.AssignedAt = &at
	}

	if len(itemsRaw) > 0 {
		if err = json.Unmarshal(itemsRaw, &resp.Items); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}
	if len(historyRaw) > 0 {
		if err = json.Unmarshal(historyRaw, &resp.History); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}

	return resp, nil
}

// optionalUUID converts a nullable scanned uuid into a kernel UUID pointer.
func optionalUUID(v uuid.NullUUID) (*kernel.UUID, error) {
	if !v.Valid {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes(v.UUID[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
