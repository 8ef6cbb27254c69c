package main

import (
	"context"

	"github.com/lexica-nlp/entity-recognition/lib/entity"
	"github.com/lexica-nlp/entity-recognition/lib/extraction"
	"github.com/lexica-nlp/entity-recognition/lib/legal"
)

// controller glues the HTTP layer to the two long-lived services. Both
// services are constructed once in main and shared across requests.
type controller struct {
	extraction *extraction.Service
	legal      *legal.Classifier
}

func (c controller) Extract(ctx context.Context, text string) ([]entity.Entity, error) {
	return c.extraction.Extract(ctx, text)
}

func (c controller) ExtractBatch(ctx context.Context, texts []string) ([][]entity.Entity, error) {
	return c.extraction.ExtractBatch(ctx, texts)
}

func (c controller) ClassifyLegal(ctx context.Context, text string) ([]entity.LegalEntity, error) {
	if !c.legal.Configured() {
		return nil, ErrNotConfigured
	}
	return c.legal.Classify(ctx, text), nil
}

func (c controller) ClassifyLegalBatch(ctx context.Context, texts []string) ([][]entity.LegalEntity, error) {
	if !c.legal.Configured() {
		return nil, ErrNotConfigured
	}
	return c.legal.ClassifyBatch(ctx, texts), nil
}

func (c controller) ModelLoaded() bool {
	return c.extraction.Loaded()
}
