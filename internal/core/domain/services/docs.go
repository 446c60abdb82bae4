// Package services contains stateless domain services that coordinate
// multiple aggregates.
//
// TransitionPolicy decides which actor roles may drive which status
// transitions, from a static data-driven table rather than per-role
// branching. WorkerSelector picks the least-busy available worker for an
// order, with a deterministic tiebreak.
package services
