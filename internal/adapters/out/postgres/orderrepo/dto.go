// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. Order lines and the audit trail are document-shaped and
// read back whole with the order, so they are stored as jsonb columns rather
// than joined tables.
package orderrepo

import (
	"encoding/json"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// tenant_id and status are indexed for the listing paths; status also backs
// the conditional status-guard writes.
type OrderDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID  `gorm:"type:uuid;index:idx_orders_tenant"`
	CustomerID uuid.UUID  `gorm:"type:uuid;index"`
	Items      []byte     `gorm:"type:jsonb"`
	TotalCents int64      `gorm:"not null"`
	Status     string     `gorm:"type:varchar(16);index"`
	CookID     *uuid.UUID `gorm:"type:uuid"`
	DriverID   *uuid.UUID `gorm:"type:uuid"`
	DriverName string
	Address    string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	AssignedAt *time.Time
	History    []byte `gorm:"type:jsonb"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// itemDTO is the jsonb shape of one order line. The field names are part of
// the stored format and shared with the read-side queries.
type itemDTO struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// statusChangeDTO is the jsonb shape of one audit trail entry.
type statusChangeDTO struct {
	Status    string    `json:"status"`
	ActorName string    `json:"actor_name"`
	ActorRole string    `json:"actor_role"`
	At        time.Time `json:"at"`
}

// fromDomain converts an order domain aggregate to its database
// representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemDTO{
			ProductID:      item.ProductID(),
			Name:           item.Name(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPriceCents(),
		})
	}
	itemsRaw, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	history := make([]statusChangeDTO, 0, len(aggregate.History()))
	for _, change := range aggregate.History() {
		history = append(history, statusChangeDTO{
			Status:    change.Status().String(),
			ActorName: change.ActorName(),
			ActorRole: change.ActorRole().String(),
			At:        change.At(),
		})
	}
	historyRaw, err := json.Marshal(history)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:         aggregate.ID().Bytes(),
		TenantID:   aggregate.TenantID().Bytes(),
		CustomerID: aggregate.CustomerID().Bytes(),
		Items:      itemsRaw,
		TotalCents: aggregate.TotalCents(),
		Status:     aggregate.Status().String(),
		CookID:     optionalBytes(aggregate.CookID()),
		DriverID:   optionalBytes(aggregate.DriverID()),
		DriverName: aggregate.DriverName(),
		Address:    aggregate.Address(),
		Notes:      aggregate.Notes(),
		CreatedAt:  aggregate.CreatedAt(),
		UpdatedAt:  aggregate.UpdatedAt(),
		AssignedAt: aggregate.AssignedAt(),
		History:    historyRaw,
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	cookID, err := optionalKernelUUID(dto.CookID)
	if err != nil {
		return nil, err
	}
	driverID, err := optionalKernelUUID(dto.DriverID)
	if err != nil {
		return nil, err
	}

	var itemDTOs []itemDTO
	if len(dto.Items) > 0 {
		if err = json.Unmarshal(dto.Items, &itemDTOs); err != nil {
			return nil, err
		}
	}
	items := make([]order.Item, 0, len(itemDTOs))
	for _, raw := range itemDTOs {
		item, itemErr := order.NewItem(raw.ProductID, raw.Name, raw.Quantity, raw.UnitPriceCents)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var historyDTOs []statusChangeDTO
	if len(dto.History) > 0 {
		if err = json.Unmarshal(dto.History, &historyDTOs); err != nil {
			return nil, err
		}
	}
	history := make([]order.StatusChange, 0, len(historyDTOs))
	for _, raw := range historyDTOs {
		role, roleErr := kernel.RoleFromString(raw.ActorRole)
		if roleErr != nil {
			return nil, roleErr
		}
		history = append(history, order.RestoreStatusChange(
			order.Status(raw.Status), raw.ActorName, role, raw.At))
	}

	return order.RestoreOrder(
		id, tenantID, customerID,
		items, dto.TotalCents,
		order.Status(dto.Status), cookID, driverID, dto.DriverName,
		dto.Address, dto.Notes,
		dto.CreatedAt, dto.UpdatedAt, dto.AssignedAt,
		history,
	)
}

func optionalBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalKernelUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
