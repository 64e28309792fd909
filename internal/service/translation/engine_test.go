package translation

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProviderClient returns canned results and records requests
type fakeProviderClient struct {
	result   *model.BatchResult
	err      error
	requests []*model.BatchRequest
}

func (f *fakeProviderClient) Translate(_ context.Context, req *model.BatchRequest) (*model.BatchResult, error) {
	f.requests = append(f.requests, req)
	return f.result, f.err
}

func TestEngine_Translate_PostProcessesMatchedResults(t *testing.T) {
	client := &fakeProviderClient{
		result: &model.BatchResult{
			OK: true,
			Results: []model.BatchItemResult{
				{ID: "course/home:title", Key: "title", Translated: "Inicio del curso"},
			},
		},
	}
	e := NewEngine(client, NewPostProcessor())

	result, err := e.Translate(context.Background(), &model.BatchRequest{
		RequestID:  "req-1",
		SourceLang: "en",
		TargetLang: "es",
		Items: []model.BatchItem{
			{ID: "course/home:title", Component: "course/home", Key: "title", SourceText: "Course home"},
		},
		Glossary: []model.GlossaryEntry{{Term: "course", Replacement: "curso"}},
	})

	require.NoError(t, err)
	require.True(t, result.OK)
	assert.Equal(t, []string{"course"}, result.Results[0].AppliedGlossaryTerms)
}

func TestEngine_Translate_BareKeyFallbackBinding(t *testing.T) {
	client := &fakeProviderClient{
		result: &model.BatchResult{
			OK: true,
			Results: []model.BatchItemResult{
				// Provider echoed the bare key instead of the composite id
				{ID: "title", Key: "title", Translated: "Titulo"},
			},
		},
	}
	e := NewEngine(client, NewPostProcessor())

	result, err := e.Translate(context.Background(), &model.BatchRequest{
		RequestID:  "req-1",
		SourceLang: "en",
		TargetLang: "es",
		Items: []model.BatchItem{
			{ID: "course/home:title", Component: "course/home", Key: "title", SourceText: "Title {$n}", Placeholders: []string{"{$n}"}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"placeholder_missing:{$n}"}, result.Results[0].Warnings)
}

func TestEngine_Translate_UnmatchedResultSkipped(t *testing.T) {
	client := &fakeProviderClient{
		result: &model.BatchResult{
			OK: true,
			Results: []model.BatchItemResult{
				{ID: "unknown:key", Key: "key", Translated: "texto"},
			},
		},
	}
	e := NewEngine(client, NewPostProcessor())

	result, err := e.Translate(context.Background(), &model.BatchRequest{
		RequestID: "req-1",
		Items: []model.BatchItem{
			{ID: "course/home:title", Component: "course/home", Key: "title", SourceText: "Title"},
		},
		Glossary: []model.GlossaryEntry{{Term: "Title", Replacement: "Titulo"}},
	})

	require.NoError(t, err)
	assert.Empty(t, result.Results[0].Warnings)
	assert.Empty(t, result.Results[0].AppliedGlossaryTerms)
}

func TestEngine_Translate_StructuredFailurePassesThrough(t *testing.T) {
	client := &fakeProviderClient{
		result: model.FailedBatch(apperrors.CodeRateLimited),
	}
	e := NewEngine(client, NewPostProcessor())

	result, err := e.Translate(context.Background(), &model.BatchRequest{RequestID: "req-1"})

	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, []string{apperrors.CodeRateLimited}, result.Errors)
}

func TestEngine_Translate_TransportErrorPassesThrough(t *testing.T) {
	wantErr := errors.New("connection refused")
	client := &fakeProviderClient{err: wantErr}
	e := NewEngine(client, NewPostProcessor())

	_, err := e.Translate(context.Background(), &model.BatchRequest{RequestID: "req-1"})

	assert.ErrorIs(t, err, wantErr)
}
