package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindloop-be/internal/config"
	"mindloop-be/internal/dto"
	"mindloop-be/internal/entity"
	"mindloop-be/internal/pkg/apperror"
	"mindloop-be/internal/pkg/logger"
	"mindloop-be/internal/repository/memory"
	"mindloop-be/internal/repository/specification"
	"mindloop-be/internal/repository/unitofwork"
	"mindloop-be/pkg/classifier"
	"mindloop-be/pkg/generation"
	"mindloop-be/pkg/llm"
	"mindloop-be/pkg/store"

	"github.com/google/uuid"
)

type ISessionService interface {
	Start(ctx context.Context, req *dto.StartInfiniteRequest) (*dto.StartInfiniteResponse, error)
	Stop(ctx context.Context, sessionID string) error
	Continue(ctx context.Context, req *dto.ContinueInfiniteRequest) (*dto.ContinueInfiniteResponse, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessionRepo      *memory.SessionRepository
	gateway          GenerationGateway
	classifier       *classifier.Classifier
	publisherService IPublisherService
	logger           logger.ILogger
	cfg              config.GenerationConfig
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	gateway GenerationGateway,
	cls *classifier.Classifier,
	publisherService IPublisherService,
	log logger.ILogger,
	cfg config.GenerationConfig,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		sessionRepo:      sessionRepo,
		gateway:          gateway,
		classifier:       cls,
		publisherService: publisherService,
		logger:           log,
		cfg:              cfg,
	}
}

func (s *sessionService) Start(ctx context.Context, req *dto.StartInfiniteRequest) (*dto.StartInfiniteResponse, error) {
	if !s.gateway.Configured() {
		return nil, apperror.Configuration("Infinite generation is unavailable: no API key configured")
	}

	seedText := strings.TrimSpace(req.SeedThought)
	if seedText == "" {
		return nil, apperror.Validation("Seed thought is required")
	}

	sessionID := req.SessionId
	if sessionID == "" {
		sessionID = newSessionID()
	}

	if existing, found := s.sessionRepo.Get(sessionID); found && existing.IsRunning() {
		return nil, apperror.Validation("A generation session with this id is already running")
	}

	// Mood for the seed goes through the provider; the loop itself uses
	// the local classifier to keep per-tick cost at one call.
	mood := s.gateway.ClassifyMood(ctx, seedText)

	seed := entity.Thought{
		Id:          uuid.New(),
		Text:        seedText,
		Tags:        s.classifier.ExtractTags(seedText),
		Mood:        string(mood),
		Connections: []uuid.UUID{},
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ThoughtRepository().Create(ctx, &seed); err != nil {
		return nil, apperror.Store("Failed to persist seed thought", err)
	}
	publishEmbedEvent(ctx, s.publisherService, seed.Id)

	session := store.NewGenerationSession(sessionID, seed.Id.String(), seedText)
	s.sessionRepo.Save(session)

	go s.runLoop(sessionID)

	s.logger.Info("session", "Infinite generation started", map[string]interface{}{
		"sessionId":     sessionID,
		"seedThoughtId": seed.Id.String(),
	})

	return &dto.StartInfiniteResponse{
		SessionId:     sessionID,
		SeedThoughtId: seed.Id,
		Message:       "Infinite generation started",
	}, nil
}

func (s *sessionService) Stop(ctx context.Context, sessionID string) error {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return apperror.NotFound("No active generation session found")
	}

	// The loop holds the same pointer: flipping the state here makes any
	// in-flight tick finish its persistence and then exit without saving.
	session.SetState(store.StateStopped)
	s.sessionRepo.Delete(sessionID)

	s.logger.Info("session", "Infinite generation stopped", map[string]interface{}{
		"sessionId": sessionID,
	})
	return nil
}

// Continue performs one client-driven step of a chain: the caller owns
// the cadence and carries the context window between requests.
func (s *sessionService) Continue(ctx context.Context, req *dto.ContinueInfiniteRequest) (*dto.ContinueInfiniteResponse, error) {
	if !s.gateway.Configured() {
		return nil, apperror.Configuration("Infinite generation is unavailable: no API key configured")
	}

	lastID, err := uuid.Parse(req.LastThoughtId)
	if err != nil {
		return nil, apperror.Validation("Invalid last thought id")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ThoughtRepository()

	last, err := repo.FindOne(ctx, specification.ByID{ID: lastID})
	if err != nil {
		return nil, apperror.Store("Failed to load last thought", err)
	}
	if last == nil {
		return nil, apperror.NotFound("Last thought not found")
	}

	window := req.PreviousThoughts
	if len(window) == 0 {
		window = []string{last.Text}
	}

	text, err := s.gateway.GeneratePrompted(ctx, generation.BuildChainPrompt(window))
	if err != nil {
		return nil, mapGenerationError(err)
	}

	thought := entity.Thought{
		Id:          uuid.New(),
		Text:        text,
		Tags:        s.classifier.ExtractTags(text),
		Mood:        string(s.gateway.ClassifyMood(ctx, text)),
		Connections: []uuid.UUID{lastID},
		CreatedAt:   time.Now(),
	}
	if err := repo.Create(ctx, &thought); err != nil {
		return nil, apperror.Store("Failed to persist generated thought", err)
	}
	if err := repo.AppendConnections(ctx, lastID, []uuid.UUID{thought.Id}); err != nil {
		s.logger.Warn("session", "Failed to link new thought back to parent", map[string]interface{}{
			"parentId": lastID.String(),
			"error":    err.Error(),
		})
	}
	publishEmbedEvent(ctx, s.publisherService, thought.Id)

	window = append(window, text)
	if len(window) > store.ContextWindow {
		window = window[len(window)-store.ContextWindow:]
	}

	// Keep the server-side registry in step when the same chain also has
	// a background loop.
	if session, found := s.sessionRepo.Get(req.SessionId); found && session.IsRunning() {
		session.Advance(thought.Id.String(), text)
		s.sessionRepo.Save(session)
	}

	return &dto.ContinueInfiniteResponse{
		NewThought:       toThoughtResponse(&thought),
		LastThoughtId:    thought.Id,
		PreviousThoughts: window,
	}, nil
}

// runLoop drives one session until it leaves the RUNNING state. The
// registry is the single source of truth: state is re-read before every
// tick and re-checked before every save, so a stop taking effect
// mid-tick lets the tick's writes land but never resurrects the entry.
func (s *sessionService) runLoop(sessionID string) {
	ctx := context.Background()

	for {
		session, found := s.sessionRepo.Get(sessionID)
		if !found || !session.IsRunning() {
			return
		}

		if iteration := session.Iteration(); iteration >= s.cfg.MaxIterations {
			session.SetState(store.StateCeilingReached)
			s.sessionRepo.Delete(sessionID)
			s.logger.Info("session", "Generation ceiling reached", map[string]interface{}{
				"sessionId": sessionID,
				"iteration": iteration,
			})
			return
		}

		advanced, err := s.tick(ctx, session)
		if err != nil {
			switch {
			case errors.Is(err, llm.ErrInvalidCredential):
				session.SetState(store.StateFatalError)
				s.sessionRepo.Delete(sessionID)
				s.logger.Error("session", "Fatal credential error, session terminated", map[string]interface{}{
					"sessionId": sessionID,
					"error":     err.Error(),
				})
				return
			case errors.Is(err, llm.ErrRateLimited):
				s.logger.Warn("session", "Rate limited, backing off", map[string]interface{}{
					"sessionId": sessionID,
				})
				time.Sleep(s.cfg.RateLimitBackoff)
				continue
			case errors.Is(err, generation.ErrEmptyGeneration):
				// Skip the tick; the chain must not advance on nothing.
				time.Sleep(s.cfg.TickInterval)
				continue
			default:
				s.logger.Warn("session", "Tick failed, will retry", map[string]interface{}{
					"sessionId": sessionID,
					"error":     err.Error(),
				})
				time.Sleep(2 * s.cfg.TickInterval)
				continue
			}
		}

		if advanced {
			session.NextIteration()
			// A stop may have landed while the tick was in flight. The
			// write above is already durable; just do not re-register.
			if current, stillThere := s.sessionRepo.Get(sessionID); !stillThere || !current.IsRunning() {
				return
			}
			s.sessionRepo.Save(session)
		}

		time.Sleep(s.cfg.TickInterval)
	}
}

// tick generates and persists one chained thought, reporting whether
// the chain advanced. Session state mutates only after the new thought
// is durably stored.
func (s *sessionService) tick(ctx context.Context, session *store.GenerationSession) (bool, error) {
	text, err := s.gateway.GeneratePrompted(ctx, generation.BuildChainPrompt(session.Window()))
	if err != nil {
		return false, err
	}

	lastID := session.LastThoughtID()
	parentID, err := uuid.Parse(lastID)
	if err != nil {
		return false, fmt.Errorf("corrupt session state, bad last thought id %q: %w", lastID, err)
	}

	thought := entity.Thought{
		Id:          uuid.New(),
		Text:        text,
		Tags:        s.classifier.ExtractTags(text),
		Mood:        string(s.classifier.DetectMood(text)),
		Connections: []uuid.UUID{parentID},
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ThoughtRepository()
	if err := repo.Create(ctx, &thought); err != nil {
		return false, fmt.Errorf("persist chained thought: %w", err)
	}
	if err := repo.AppendConnections(ctx, parentID, []uuid.UUID{thought.Id}); err != nil {
		// The forward link exists on the child; losing the back-link is
		// recoverable and must not stall the chain.
		s.logger.Warn("session", "Failed to link chained thought back to parent", map[string]interface{}{
			"sessionId": session.ID(),
			"parentId":  parentID.String(),
			"error":     err.Error(),
		})
	}
	publishEmbedEvent(ctx, s.publisherService, thought.Id)

	session.Advance(thought.Id.String(), text)

	return true, nil
}

func newSessionID() string {
	return fmt.Sprintf("inf_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
