// Package kernel provides core domain primitives shared across the order
// orchestration model.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - Role: the fixed vocabulary of actor roles issued by the auth layer
//   - Actor: the authenticated {userId, tenantId, role} triple every entry
//     point receives; the core trusts it completely
//   - ConstructorGuard: a pattern to ensure objects are built via constructors
//
// These primitives are immutable and safe for concurrent use.
package kernel
