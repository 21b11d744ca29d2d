package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mindloop-be/internal/config"
	"mindloop-be/internal/dto"
	"mindloop-be/internal/entity"
	"mindloop-be/internal/pkg/apperror"
	"mindloop-be/internal/pkg/logger"
	"mindloop-be/internal/repository/unitofwork"
	"mindloop-be/pkg/classifier"
	"mindloop-be/pkg/generation"
	"mindloop-be/pkg/llm"

	"github.com/google/uuid"
)

// maxFanOutCount caps branch and expand batch sizes.
const maxFanOutCount = 5

type IGenerationService interface {
	Generate(ctx context.Context, req *dto.GenerateThoughtRequest) (*dto.GenerateThoughtResponse, error)
	Branch(ctx context.Context, req *dto.BranchThoughtsRequest) ([]*dto.ThoughtResponse, error)
	Expand(ctx context.Context, req *dto.ExpandThoughtsRequest) ([]*dto.ThoughtResponse, error)
}

type generationService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          GenerationGateway
	classifier       *classifier.Classifier
	publisherService IPublisherService
	logger           logger.ILogger
	cfg              config.GenerationConfig
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	gateway GenerationGateway,
	cls *classifier.Classifier,
	publisherService IPublisherService,
	log logger.ILogger,
	cfg config.GenerationConfig,
) IGenerationService {
	return &generationService{
		uowFactory:       uowFactory,
		gateway:          gateway,
		classifier:       cls,
		publisherService: publisherService,
		logger:           log,
		cfg:              cfg,
	}
}

func (s *generationService) Generate(ctx context.Context, req *dto.GenerateThoughtRequest) (*dto.GenerateThoughtResponse, error) {
	if !s.gateway.Configured() {
		return nil, apperror.Configuration("Generation is unavailable: no API key configured")
	}

	text, err := s.gateway.GenerateThought(ctx, req.Context, req.Mood)
	if err != nil {
		return nil, mapGenerationError(err)
	}

	mood := s.gateway.ClassifyMood(ctx, text)
	tags := s.classifier.ExtractTags(text)

	return &dto.GenerateThoughtResponse{
		Text: text,
		Mood: string(mood),
		Tags: tags,
	}, nil
}

func (s *generationService) Branch(ctx context.Context, req *dto.BranchThoughtsRequest) ([]*dto.ThoughtResponse, error) {
	if !s.gateway.Configured() {
		return nil, apperror.Configuration("Generation is unavailable: no API key configured")
	}

	parentText := strings.TrimSpace(req.ThoughtText)
	if parentText == "" {
		return nil, apperror.Validation("Thought text is required")
	}

	var parentId *uuid.UUID
	if req.ThoughtId != "" {
		id, err := uuid.Parse(req.ThoughtId)
		if err != nil {
			return nil, apperror.Validation("Invalid thought id")
		}
		parentId = &id
	}

	created, err := s.fanOut(ctx, req.Count, parentId, parentText, func(i int) string {
		return generation.BuildBranchPrompt(parentText, i)
	})
	if err != nil {
		return nil, err
	}

	// Single union append after the whole fan-out, so concurrent branch
	// calls on the same parent cannot clobber each other's links.
	if parentId != nil && len(created) > 0 {
		childIds := make([]uuid.UUID, len(created))
		for i, t := range created {
			childIds[i] = t.Id
		}
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.ThoughtRepository().AppendConnections(ctx, *parentId, childIds); err != nil {
			s.logger.Warn("generation", "Failed to append branch connections to parent", map[string]interface{}{
				"parentId": parentId.String(),
				"error":    err.Error(),
			})
		}
	}

	return created, nil
}

func (s *generationService) Expand(ctx context.Context, req *dto.ExpandThoughtsRequest) ([]*dto.ThoughtResponse, error) {
	if !s.gateway.Configured() {
		return nil, apperror.Configuration("Generation is unavailable: no API key configured")
	}

	seed := strings.TrimSpace(req.SeedThought)
	if seed == "" {
		return nil, apperror.Validation("Seed thought is required")
	}

	// Expanded thoughts are intentionally unlinked; the caller wires them
	// into the graph afterwards if it wants to.
	return s.fanOut(ctx, req.Count, nil, seed, func(int) string {
		return generation.BuildExpandPrompt(seed)
	})
}

// fanOut generates up to count thoughts one at a time, pacing calls and
// tolerating per-item failures. A rate-limited item gets exactly one
// simplified retry after a wait; anything else failing skips the item.
func (s *generationService) fanOut(
	ctx context.Context,
	count int,
	parentId *uuid.UUID,
	sourceText string,
	promptFor func(i int) string,
) ([]*dto.ThoughtResponse, error) {
	if count <= 0 || count > maxFanOutCount {
		count = maxFanOutCount
	}

	created := make([]*dto.ThoughtResponse, 0, count)
	for i := 0; i < count; i++ {
		if i > 0 {
			time.Sleep(s.cfg.BranchDelay)
		}

		text, err := s.generateWithRetry(ctx, promptFor(i), sourceText)
		if err != nil {
			if errors.Is(err, llm.ErrInvalidCredential) {
				// No later item can succeed either.
				if len(created) == 0 {
					return nil, mapGenerationError(err)
				}
				break
			}
			s.logger.Warn("generation", "Fan-out item failed, skipping", map[string]interface{}{
				"item":  i,
				"error": err.Error(),
			})
			continue
		}

		connections := []uuid.UUID{}
		if parentId != nil {
			connections = []uuid.UUID{*parentId}
		}

		thought := entity.Thought{
			Id:          uuid.New(),
			Text:        text,
			Tags:        s.classifier.ExtractTags(text),
			Mood:        string(s.classifier.DetectMood(text)),
			Connections: connections,
			CreatedAt:   time.Now(),
		}

		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.ThoughtRepository().Create(ctx, &thought); err != nil {
			s.logger.Warn("generation", "Failed to persist fan-out thought, skipping", map[string]interface{}{
				"item":  i,
				"error": err.Error(),
			})
			continue
		}
		publishEmbedEvent(ctx, s.publisherService, thought.Id)

		created = append(created, toThoughtResponse(&thought))
	}

	return created, nil
}

func (s *generationService) generateWithRetry(ctx context.Context, prompt, sourceText string) (string, error) {
	text, err := s.gateway.GeneratePrompted(ctx, prompt)
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, llm.ErrRateLimited) {
		return "", err
	}

	time.Sleep(s.cfg.BranchRetryWait)
	return s.gateway.GeneratePrompted(ctx, generation.BuildRetryPrompt(sourceText))
}

// mapGenerationError converts normalized provider errors into AppErrors
// with caller-facing messages.
func mapGenerationError(err error) error {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return apperror.Wrap(apperror.KindRateLimited, "API rate limit exceeded. Please try again later", err)
	case errors.Is(err, llm.ErrInvalidCredential):
		return apperror.Wrap(apperror.KindInvalidCredential, "Invalid or missing API key", err)
	case errors.Is(err, generation.ErrEmptyGeneration):
		return apperror.Wrap(apperror.KindEmptyGeneration, "Generated thought was empty. Please try again", err)
	case errors.Is(err, generation.ErrAllModelsExhausted):
		return apperror.Wrap(apperror.KindModelsExhausted, "All generation models are currently unavailable", err)
	default:
		return apperror.Wrap(apperror.KindGeneration, "Failed to generate thought", err)
	}
}
