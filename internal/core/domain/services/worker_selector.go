package services

import (
	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/pkg/errs"
)

// ErrNoWorkerAvailable is returned when no worker in the candidate pool can
// take a new assignment. Callers translate this to NoCapacity and own the
// retry decision; the selector never retries.
var ErrNoWorkerAvailable = errs.ErrNoCapacity

// WorkerSelector picks the worker to assign to an order.
//
// Selection policy: among available workers, the one with the lowest current
// load wins; ties break toward the earliest provisioned worker. The tiebreak
// keeps selection stable and deterministic and prevents starvation of
// long-idle workers. This is the single canonical policy for both cook and
// driver assignment.
type WorkerSelector struct{}

// NewWorkerSelector creates a new WorkerSelector instance.
func NewWorkerSelector() WorkerSelector {
	return WorkerSelector{}
}

// Select returns the least-busy available worker from the candidates.
// Candidates that fail construction validation poison the whole call rather
// than being skipped; a half-restored aggregate means a persistence bug, not
// an unavailable worker.
func (s WorkerSelector) Select(candidates []*worker.Worker) (*worker.Worker, error) {
	var best *worker.Worker

	for _, w := range candidates {
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if !w.IsAvailable() {
			continue
		}

		if best == nil || s.better(w, best) {
			best = w
		}
	}

	if best == nil {
		return nil, ErrNoWorkerAvailable
	}
	return best, nil
}

// better reports whether a should be preferred over b.
func (s WorkerSelector) better(a, b *worker.Worker) bool {
	if a.CurrentLoad() != b.CurrentLoad() {
		return a.CurrentLoad() < b.CurrentLoad()
	}
	return a.CreatedAt().Before(b.CreatedAt())
}
