package translation

import (
	"context"

	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/coursetrans/coursetrans/internal/service/provider"
)

// Engine is the unit of work consumed by schedulers: translate N items
// from the source language to one target language.
type Engine interface {
	// Translate delegates to the provider client and post-processes the
	// results. Provider error codes bubble up verbatim in the result;
	// the error return carries transport faults only.
	Translate(ctx context.Context, req *model.BatchRequest) (*model.BatchResult, error)
}

// engine implements Engine
type engine struct {
	client        provider.Client
	postProcessor PostProcessor
}

// NewEngine creates a new batch translation engine
func NewEngine(client provider.Client, postProcessor PostProcessor) Engine {
	return &engine{
		client:        client,
		postProcessor: postProcessor,
	}
}

// Translate runs one provider round trip and merges post-processing
// findings into each result. No retries at this layer; retry policy
// lives in the provider client.
func (e *engine) Translate(ctx context.Context, req *model.BatchRequest) (*model.BatchResult, error) {
	result, err := e.client.Translate(ctx, req)
	if err != nil || !result.OK {
		return result, err
	}

	// Index items by composite id first, bare key as fallback, so
	// post-processing can bind results whichever echo format the
	// provider used
	byComposite := make(map[string]*model.BatchItem, len(req.Items))
	byKey := make(map[string]*model.BatchItem, len(req.Items))
	for i := range req.Items {
		item := &req.Items[i]
		byComposite[item.CompositeID()] = item
		byKey[item.Key] = item
	}

	for i := range result.Results {
		r := &result.Results[i]
		item, ok := byComposite[r.ID]
		if !ok {
			item, ok = byKey[r.Key]
		}
		if !ok {
			continue
		}
		e.postProcessor.Process(item, r, req.Glossary)
	}

	return result, nil
}
