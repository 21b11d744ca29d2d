package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mindloop-be/internal/dto"
	"mindloop-be/internal/entity"
	"mindloop-be/internal/pkg/apperror"
	"mindloop-be/internal/repository/specification"
	"mindloop-be/internal/repository/unitofwork"
	"mindloop-be/pkg/classifier"
	"mindloop-be/pkg/moderation"

	"github.com/google/uuid"
)

const maxThoughtLength = 500
const defaultListLimit = 50

type IThoughtService interface {
	List(ctx context.Context, req *dto.ListThoughtsRequest) ([]*dto.ThoughtResponse, error)
	Create(ctx context.Context, req *dto.CreateThoughtRequest) (*dto.ThoughtResponse, error)
	Reset(ctx context.Context) (*dto.ResetResponse, error)
}

type thoughtService struct {
	uowFactory       unitofwork.RepositoryFactory
	filter           *moderation.Filter
	publisherService IPublisherService
}

func NewThoughtService(
	uowFactory unitofwork.RepositoryFactory,
	filter *moderation.Filter,
	publisherService IPublisherService,
) IThoughtService {
	return &thoughtService{
		uowFactory:       uowFactory,
		filter:           filter,
		publisherService: publisherService,
	}
}

func (s *thoughtService) List(ctx context.Context, req *dto.ListThoughtsRequest) ([]*dto.ThoughtResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Limit: limit},
	}
	if req.Mood != "" {
		specs = append(specs, specification.ByMood{Mood: req.Mood})
	}
	if req.Tag != "" {
		specs = append(specs, specification.HasTag{Tag: req.Tag})
	}
	if req.Search != "" {
		specs = append(specs, specification.TextContains{Search: req.Search})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	thoughts, err := uow.ThoughtRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Store("Failed to fetch thoughts", err)
	}

	res := make([]*dto.ThoughtResponse, len(thoughts))
	for i, t := range thoughts {
		res[i] = toThoughtResponse(t)
	}
	return res, nil
}

func (s *thoughtService) Create(ctx context.Context, req *dto.CreateThoughtRequest) (*dto.ThoughtResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.Validation("Thought text is required")
	}

	text = s.filter.Sanitize(text)
	if text == "" {
		return nil, apperror.Validation("Thought text is required")
	}

	if result := s.filter.Moderate(text); !result.IsSafe {
		return nil, apperror.Validation(result.Reason)
	}

	// Characters, not bytes: multibyte text must not hit the cap early.
	if utf8.RuneCountInString(text) > maxThoughtLength {
		return nil, apperror.Validation(fmt.Sprintf("Thought text is too long (max %d characters)", maxThoughtLength))
	}

	if req.Mood != "" && !classifier.IsValidMood(req.Mood) {
		return nil, apperror.Validation("Unknown mood value")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	thought := entity.Thought{
		Id:          uuid.New(),
		Text:        text,
		Tags:        tags,
		Mood:        req.Mood,
		Connections: []uuid.UUID{},
		Embedding:   req.Embedding,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ThoughtRepository().Create(ctx, &thought); err != nil {
		return nil, apperror.Store("Failed to create thought", err)
	}

	// Embedding arrives asynchronously unless the caller supplied one.
	if len(req.Embedding) == 0 {
		publishEmbedEvent(ctx, s.publisherService, thought.Id)
	}

	return toThoughtResponse(&thought), nil
}

func (s *thoughtService) Reset(ctx context.Context) (*dto.ResetResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ThoughtRepository()

	existing, err := repo.Count(ctx)
	if err != nil {
		return nil, apperror.Store("Failed to count thoughts before reset", err)
	}

	deleted, err := repo.DeleteAll(ctx)
	if err != nil {
		return nil, apperror.Store("Failed to reset thoughts", err)
	}

	// Zero rows removed while rows existed means the store blocked the
	// delete (access policy), which is not the same as an empty table.
	if deleted == 0 && existing > 0 {
		return nil, apperror.New(apperror.KindStorePolicy,
			"Deletion was blocked by the store's access policy; verify the database role has DELETE rights on the thoughts table")
	}

	return &dto.ResetResponse{Success: true, Deleted: deleted}, nil
}

func toThoughtResponse(t *entity.Thought) *dto.ThoughtResponse {
	connections := make([]string, len(t.Connections))
	for i, id := range t.Connections {
		connections[i] = id.String()
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.ThoughtResponse{
		Id:          t.Id,
		Text:        t.Text,
		Tags:        tags,
		Mood:        t.Mood,
		Connections: connections,
		CreatedAt:   t.CreatedAt,
	}
}

// publishEmbedEvent is best-effort: embedding is auxiliary and must never
// fail the write path.
func publishEmbedEvent(ctx context.Context, publisher IPublisherService, thoughtId uuid.UUID) {
	if publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.PublishEmbedThoughtMessage{ThoughtId: thoughtId})
	if err != nil {
		return
	}
	_ = publisher.Publish(ctx, payload)
}
