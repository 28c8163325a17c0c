package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// fakeEmbedder is a deterministic embedding service. Vectors are keyword
// occurrence counts, so texts about the same topic land close together
// and unrelated texts are orthogonal.
type fakeEmbedder struct {
	features []string
	embedErr error
	calls    int
}

func newFakeEmbedder(features ...string) *fakeEmbedder {
	if len(features) == 0 {
		features = []string{"cpap", "humidifier", "wheelchair", "deductible"}
	}
	return &fakeEmbedder{features: features}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	f.calls++
	lower := strings.ToLower(text)
	vector := make([]float32, len(f.features))
	for i, feature := range f.features {
		vector[i] = float32(strings.Count(lower, feature))
	}
	return vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vector
	}
	return result, nil
}

func (f *fakeEmbedder) Dimensions() int { return len(f.features) }

func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }

func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }

func (f *fakeEmbedder) Close() error { return nil }

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

// scriptedGenerator is a generation service that replays canned
// responses and records the messages it received.
type scriptedGenerator struct {
	responses []string
	err       error
	chats     [][]driven.ChatMessage
}

func (g *scriptedGenerator) next() string {
	if len(g.responses) == 0 {
		return ""
	}
	response := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return response
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.next(), nil
}

func (g *scriptedGenerator) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.chats = append(g.chats, messages)
	return g.next(), nil
}

func (g *scriptedGenerator) ModelName() string { return "scripted" }

func (g *scriptedGenerator) Ping(_ context.Context) error { return nil }

func (g *scriptedGenerator) Close() error { return nil }

var _ driven.GenerationService = (*scriptedGenerator)(nil)

// failingVectorIndex wraps a real index and fails selected operations.
type failingVectorIndex struct {
	driven.VectorIndex
	upsertErr error
	searchErr error
}

func (f *failingVectorIndex) Upsert(ctx context.Context, entries []driven.VectorEntry) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.VectorIndex.Upsert(ctx, entries)
}

func (f *failingVectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.VectorIndex.Search(ctx, query, k)
}
