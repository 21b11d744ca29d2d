package contract

import (
	"context"

	"mindloop-be/internal/entity"
	"mindloop-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ThoughtRepository interface {
	Create(ctx context.Context, thought *entity.Thought) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thought, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thought, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// AppendConnections unions newChildIds into the parent's connection
	// list. Safe under concurrent callers targeting the same parent.
	AppendConnections(ctx context.Context, parentId uuid.UUID, newChildIds []uuid.UUID) error

	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error

	// DeleteAll hard-deletes every thought and reports how many rows went.
	DeleteAll(ctx context.Context) (int64, error)
}
