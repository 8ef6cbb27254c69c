package recogniser

import (
	"context"

	"github.com/lexica-nlp/entity-recognition/lib/entity"
)

// Client is the boundary to the sequence-tagging model backend.
// Predict and PredictBatch require a successful Load first; Load is
// idempotent on the backend side and may be retried after failure.
type Client interface {
	Load(ctx context.Context) error
	Predict(ctx context.Context, text string) ([]entity.Entity, error)
	PredictBatch(ctx context.Context, texts []string, batchSize int) ([][]entity.Entity, error)
}
