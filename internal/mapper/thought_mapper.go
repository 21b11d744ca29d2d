package mapper

import (
	"mindloop-be/internal/entity"
	"mindloop-be/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ThoughtMapper struct{}

func NewThoughtMapper() *ThoughtMapper {
	return &ThoughtMapper{}
}

func (m *ThoughtMapper) ToEntity(t *model.Thought) *entity.Thought {
	if t == nil {
		return nil
	}

	connections := make([]uuid.UUID, 0, len(t.Connections))
	for _, raw := range t.Connections {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		connections = append(connections, id)
	}

	var embedding []float32
	if t.Embedding != nil {
		embedding = t.Embedding.Slice()
	}

	return &entity.Thought{
		Id:          t.Id,
		Text:        t.Text,
		Tags:        []string(t.Tags),
		Mood:        t.Mood,
		Connections: connections,
		Embedding:   embedding,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *ThoughtMapper) ToModel(t *entity.Thought) *model.Thought {
	if t == nil {
		return nil
	}

	connections := make([]string, len(t.Connections))
	for i, id := range t.Connections {
		connections[i] = id.String()
	}

	var embedding *pgvector.Vector
	if len(t.Embedding) > 0 {
		v := pgvector.NewVector(t.Embedding)
		embedding = &v
	}

	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	return &model.Thought{
		Id:          t.Id,
		Text:        t.Text,
		Tags:        datatypes.NewJSONSlice(tags),
		Mood:        t.Mood,
		Connections: datatypes.NewJSONSlice(connections),
		Embedding:   embedding,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *ThoughtMapper) ToEntities(thoughts []*model.Thought) []*entity.Thought {
	entities := make([]*entity.Thought, len(thoughts))
	for i, t := range thoughts {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
