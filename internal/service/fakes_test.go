package service

import (
	"context"
	"sync"

	"mindloop-be/internal/entity"
	"mindloop-be/internal/repository/contract"
	"mindloop-be/internal/repository/specification"
	"mindloop-be/internal/repository/unitofwork"
	"mindloop-be/pkg/classifier"

	"github.com/google/uuid"
)

// gwStep is one scripted answer from the fake gateway. After the script
// runs out the last step repeats.
type gwStep struct {
	text string
	err  error
}

type fakeGateway struct {
	mu         sync.Mutex
	configured bool
	steps      []gwStep
	calls      int
	prompts    []string
	mood       classifier.Mood
}

func (g *fakeGateway) Configured() bool { return g.configured }

func (g *fakeGateway) GenerateThought(ctx context.Context, contextText, mood string) (string, error) {
	return g.next("single:" + contextText)
}

func (g *fakeGateway) GeneratePrompted(ctx context.Context, prompt string) (string, error) {
	return g.next(prompt)
}

func (g *fakeGateway) ClassifyMood(ctx context.Context, text string) classifier.Mood {
	if g.mood == "" {
		return classifier.MoodNeutral
	}
	return g.mood
}

func (g *fakeGateway) next(prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if len(g.steps) == 0 {
		return "a generated thought", nil
	}
	i := g.calls
	if i >= len(g.steps) {
		i = len(g.steps) - 1
	}
	g.calls++
	step := g.steps[i]
	return step.text, step.err
}

func (g *fakeGateway) promptLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

// memThoughtRepo is an in-memory contract.ThoughtRepository. Specs are
// recorded rather than interpreted, except ByID which FindOne honors.
type memThoughtRepo struct {
	mu            sync.Mutex
	thoughts      map[uuid.UUID]*entity.Thought
	order         []uuid.UUID
	lastFindSpecs []specification.Specification
	createErr     error
	appendErr     error
	deleteBlocked bool
}

func newMemThoughtRepo() *memThoughtRepo {
	return &memThoughtRepo{thoughts: map[uuid.UUID]*entity.Thought{}}
}

func (r *memThoughtRepo) Create(ctx context.Context, thought *entity.Thought) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *thought
	r.thoughts[thought.Id] = &cp
	r.order = append(r.order, thought.Id)
	return nil
}

func (r *memThoughtRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thought, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sp := range specs {
		if byID, ok := sp.(specification.ByID); ok {
			if t, found := r.thoughts[byID.ID]; found {
				cp := *t
				return &cp, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *memThoughtRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thought, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFindSpecs = specs
	res := make([]*entity.Thought, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.thoughts[id]
		res = append(res, &cp)
	}
	return res, nil
}

func (r *memThoughtRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.thoughts)), nil
}

func (r *memThoughtRepo) AppendConnections(ctx context.Context, parentId uuid.UUID, newChildIds []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	parent, found := r.thoughts[parentId]
	if !found {
		return nil
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range parent.Connections {
		seen[id] = true
	}
	for _, id := range newChildIds {
		if !seen[id] {
			parent.Connections = append(parent.Connections, id)
			seen[id] = true
		}
	}
	return nil
}

func (r *memThoughtRepo) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, found := r.thoughts[id]; found {
		t.Embedding = embedding
	}
	return nil
}

func (r *memThoughtRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteBlocked {
		return 0, nil
	}
	n := int64(len(r.thoughts))
	r.thoughts = map[uuid.UUID]*entity.Thought{}
	r.order = nil
	return n, nil
}

func (r *memThoughtRepo) get(id uuid.UUID) (*entity.Thought, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, found := r.thoughts[id]
	if !found {
		return nil, false
	}
	cp := *t
	return &cp, true
}

func (r *memThoughtRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.thoughts)
}

func (r *memThoughtRepo) all() []*entity.Thought {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*entity.Thought, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.thoughts[id]
		res = append(res, &cp)
	}
	return res
}

type fakeUnitOfWork struct {
	repo contract.ThoughtRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }
func (u *fakeUnitOfWork) ThoughtRepository() contract.ThoughtRepository {
	return u.repo
}

type fakeFactory struct {
	repo contract.ThoughtRepository
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{repo: f.repo}
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}
