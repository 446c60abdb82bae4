package queries

import (
	"context"
	"database/sql"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListWorkersQueryHandler retrieves worker capacity rows with raw SQL.
type ListWorkersQueryHandler struct {
	db *gorm.DB
}

// NewListWorkersQueryHandler creates a handler for worker listings.
func NewListWorkersQueryHandler(db *gorm.DB) ListWorkersQueryHandler {
	return ListWorkersQueryHandler{db: db}
}

// Handle executes the query. Rows come back in selection order, least loaded
// first, so the first available row is who the matcher would pick next.
func (h ListWorkersQueryHandler) Handle(
	ctx context.Context,
	query ListWorkersQuery,
) ([]ListWorkersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			name,
			role,
			vehicle_type,
			is_available,
			current_load,
			current_order_id
		FROM workers
		WHERE tenant_id = ? AND role = ?
		ORDER BY current_load, created_at
	`, query.Actor().TenantID().String(), query.Role().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]ListWorkersQueryResponse, 0)
	for rows.Next() {
		var (
			resp           ListWorkersQueryResponse
			id             uuid.UUID
			userID         uuid.UUID
			vehicleType    sql.NullString
			currentOrderID uuid.NullUUID
		)

		err = rows.Scan(
			&id,
			&userID,
			&resp.Name,
			&resp.Role,
			&vehicleType,
			&resp.IsAvailable,
			&resp.CurrentLoad,
			&currentOrderID,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		resp.VehicleType = vehicleType.String
		if resp.CurrentOrderID, err = optionalUUID(currentOrderID); err != nil {
			return nil, err
		}

		workers = append(workers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}
