// Package async runs document extraction jobs on a background worker pool.
package async

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/propono/docbudget/internal/document"
)

// Job is the smallest useful unit. Extend as needed later (owner, trace,
// retry, etc).
type Job struct {
	ID          uuid.UUID
	File        document.FileInfo
	Options     *document.ProcessingOptions
	SubmittedAt time.Time

	// Done, when set, receives the result on the worker goroutine.
	Done func(document.ProcessingResult)
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
