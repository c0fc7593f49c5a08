package async

import (
	"context"
	"time"

	"github.com/joseph-ayodele/catalog-specs/internal/entity"
)

// Job asks for one item to be (re)extracted.
type Job struct {
	Item        entity.Item
	Force       bool
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
