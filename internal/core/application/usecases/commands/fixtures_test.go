package commands_test

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/worker"
)

// Fixture builders shared by the handler tests. Each panics on invalid input
// so broken test data fails loudly at setup.

func mustActor(userID, tenantID kernel.UUID, role kernel.Role) kernel.Actor {
	actor, err := kernel.NewActor(userID, tenantID, role)
	if err != nil {
		panic(err)
	}
	return actor
}

func mustItems() []order.Item {
	item, err := order.NewItem("margherita", "Margherita", 2, 1250)
	if err != nil {
		panic(err)
	}
	return []order.Item{item}
}

func mustOrder(tenantID kernel.UUID, status order.Status, cookID, driverID *kernel.UUID) *order.Order {
	now := time.Now().UTC()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), tenantID, kernel.NewUUID(),
		mustItems(), 2500,
		status, cookID, driverID, "",
		"12 Main St", "",
		now, now, nil, nil,
	)
	if err != nil {
		panic(err)
	}
	return o
}

func mustWorker(tenantID kernel.UUID, role kernel.Role, load int, available bool) *worker.Worker {
	now := time.Now().UTC()
	vehicle := ""
	if role == kernel.RoleDriver {
		vehicle = "bike"
	}
	w, err := worker.RestoreWorker(
		kernel.NewUUID(), kernel.NewUUID(), tenantID,
		role, "Test Worker", vehicle,
		available, load, nil,
		now, now,
	)
	if err != nil {
		panic(err)
	}
	return w
}
