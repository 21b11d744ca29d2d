package implementation

import (
	"context"
	"errors"

	"mindloop-be/internal/entity"
	"mindloop-be/internal/mapper"
	"mindloop-be/internal/model"
	"mindloop-be/internal/repository/contract"
	"mindloop-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// thoughtConnLocks is process-wide: repositories are constructed per unit
// of work, so the serialization point must outlive any one instance.
var thoughtConnLocks = newConnLocks()

type ThoughtRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ThoughtMapper
}

func NewThoughtRepository(db *gorm.DB) contract.ThoughtRepository {
	return &ThoughtRepositoryImpl{
		db:     db,
		mapper: mapper.NewThoughtMapper(),
	}
}

func (r *ThoughtRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ThoughtRepositoryImpl) Create(ctx context.Context, thought *entity.Thought) error {
	m := r.mapper.ToModel(thought)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*thought = *r.mapper.ToEntity(m)
	return nil
}

func (r *ThoughtRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thought, error) {
	var m model.Thought
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ThoughtRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thought, error) {
	var models []*model.Thought
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ThoughtRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Thought{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ThoughtRepositoryImpl) AppendConnections(ctx context.Context, parentId uuid.UUID, newChildIds []uuid.UUID) error {
	if len(newChildIds) == 0 {
		return nil
	}

	// Serialize the read-merge-write per parent so concurrent appenders
	// never interleave at the read step.
	lock := thoughtConnLocks.acquire(parentId.String())
	defer lock.Unlock()

	var m model.Thought
	if err := r.db.WithContext(ctx).Select("id", "connections").First(&m, "id = ?", parentId).Error; err != nil {
		return err
	}

	merged := unionConnections(m.Connections, newChildIds)

	return r.db.WithContext(ctx).
		Model(&model.Thought{}).
		Where("id = ?", parentId).
		Update("connections", datatypes.NewJSONSlice(merged)).Error
}

// unionConnections keeps existing entries in order and appends unseen
// child ids, deduplicated.
func unionConnections(existing []string, newChildIds []uuid.UUID) []string {
	seen := make(map[string]struct{}, len(existing)+len(newChildIds))
	merged := make([]string, 0, len(existing)+len(newChildIds))
	for _, id := range existing {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range newChildIds {
		key := id.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, key)
	}
	return merged
}

func (r *ThoughtRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	return r.db.WithContext(ctx).
		Model(&model.Thought{}).
		Where("id = ?", id).
		Update("embedding", vec).Error
}

func (r *ThoughtRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Thought{})
	return res.RowsAffected, res.Error
}
