// Package order implements the Order aggregate and its status state machine.
//
// An order moves through a fixed sequence of statuses while independent
// services (ordering, kitchen, delivery) claim, mutate, and hand it off:
//
//	CREATED -> PREPARING -> READY -> ASSIGNED -> DELIVERING -> DELIVERED
//
// CANCELLED is reachable from any non-terminal status. No backward
// transitions exist. DELIVERED and CANCELLED are terminal.
//
// The aggregate enforces every invariant the state machine carries:
// PREPARING requires an assigned cook, ASSIGNED requires an assigned driver,
// the total is fixed at creation time, and the owning tenant never changes.
// Every accepted transition appends an audit entry to the order history.
package order
