package embedding

import (
	"context"
)

type (
	// TaskType hints the provider whether the text is a stored document or a
	// retrieval query. Providers that make no distinction ignore it.
	TaskType string

	// Embedder converts text into fixed-dimension vectors. A collection is
	// bound to exactly one embedder for its whole lifetime; mixing embedders
	// would make stored similarity scores meaningless.
	Embedder interface {
		Embed(ctx context.Context, taskType TaskType, texts ...string) ([][]float32, error)
		Dimensions() int
	}
)

const (
	TaskTypeDocument TaskType = "search_document"
	TaskTypeQuery    TaskType = "search_query"
)

func (t TaskType) String() string {
	return string(t)
}
