package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mindloop-be/internal/config"
	"mindloop-be/internal/dto"
	"mindloop-be/internal/entity"
	"mindloop-be/internal/pkg/apperror"
	"mindloop-be/pkg/classifier"
	"mindloop-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastGenerationConfig() config.GenerationConfig {
	return config.GenerationConfig{
		TickInterval:     time.Millisecond,
		RateLimitBackoff: time.Millisecond,
		BranchDelay:      0,
		BranchRetryWait:  0,
		MaxIterations:    10000,
	}
}

func newGenerationServiceForTest(repo *memThoughtRepo, gw *fakeGateway) (IGenerationService, *capturePublisher) {
	publisher := &capturePublisher{}
	svc := NewGenerationService(
		&fakeFactory{repo: repo},
		gw,
		classifier.NewDefault(),
		publisher,
		nopLogger{},
		fastGenerationConfig(),
	)
	return svc, publisher
}

func TestGenerate_RequiresConfiguration(t *testing.T) {
	svc, _ := newGenerationServiceForTest(newMemThoughtRepo(), &fakeGateway{configured: false})

	_, err := svc.Generate(context.Background(), &dto.GenerateThoughtRequest{})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))
}

func TestGenerate_ReturnsMoodAndTags(t *testing.T) {
	gw := &fakeGateway{
		configured: true,
		steps:      []gwStep{{text: "I fear the future"}},
		mood:       classifier.MoodWeird,
	}
	svc, _ := newGenerationServiceForTest(newMemThoughtRepo(), gw)

	res, err := svc.Generate(context.Background(), &dto.GenerateThoughtRequest{Context: "time"})
	require.NoError(t, err)
	assert.Equal(t, "I fear the future", res.Text)
	assert.Equal(t, "weird", res.Mood)
	assert.Equal(t, []string{"fear", "future"}, res.Tags)
}

func TestGenerate_MapsRateLimit(t *testing.T) {
	gw := &fakeGateway{
		configured: true,
		steps:      []gwStep{{err: llm.ErrRateLimited}},
	}
	svc, _ := newGenerationServiceForTest(newMemThoughtRepo(), gw)

	_, err := svc.Generate(context.Background(), &dto.GenerateThoughtRequest{})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindRateLimited))
}

func TestBranch_CapsCountAtFive(t *testing.T) {
	repo := newMemThoughtRepo()
	svc, publisher := newGenerationServiceForTest(repo, &fakeGateway{configured: true})

	created, err := svc.Branch(context.Background(), &dto.BranchThoughtsRequest{
		ThoughtText: "parent thought",
		Count:       10,
	})
	require.NoError(t, err)
	assert.Len(t, created, 5)
	assert.Equal(t, 5, repo.count())
	assert.Equal(t, 5, publisher.count())
}

func TestBranch_LinksChildrenAndUnionsParent(t *testing.T) {
	repo := newMemThoughtRepo()
	existingChild := uuid.New()
	parent := entity.Thought{
		Id:          uuid.New(),
		Text:        "parent thought",
		Connections: []uuid.UUID{existingChild},
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), &parent))

	svc, _ := newGenerationServiceForTest(repo, &fakeGateway{configured: true})

	created, err := svc.Branch(context.Background(), &dto.BranchThoughtsRequest{
		ThoughtId:   parent.Id.String(),
		ThoughtText: parent.Text,
		Count:       2,
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, child := range created {
		stored, found := repo.get(child.Id)
		require.True(t, found)
		assert.Equal(t, []uuid.UUID{parent.Id}, stored.Connections)
	}

	updated, found := repo.get(parent.Id)
	require.True(t, found)
	require.Len(t, updated.Connections, 3)
	assert.Equal(t, existingChild, updated.Connections[0], "existing connections must survive the append")
}

func TestBranch_PartialFailureSkipsItem(t *testing.T) {
	repo := newMemThoughtRepo()
	gw := &fakeGateway{
		configured: true,
		steps: []gwStep{
			{text: "first branch"},
			{err: errors.New("upstream hiccup")},
			{text: "third branch"},
		},
	}
	svc, _ := newGenerationServiceForTest(repo, gw)

	created, err := svc.Branch(context.Background(), &dto.BranchThoughtsRequest{
		ThoughtText: "parent thought",
		Count:       3,
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestBranch_RateLimitedItemRetriesOnce(t *testing.T) {
	repo := newMemThoughtRepo()
	gw := &fakeGateway{
		configured: true,
		steps: []gwStep{
			{err: llm.ErrRateLimited},
			{text: "retried branch"},
		},
	}
	svc, _ := newGenerationServiceForTest(repo, gw)

	created, err := svc.Branch(context.Background(), &dto.BranchThoughtsRequest{
		ThoughtText: "parent thought",
		Count:       1,
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "retried branch", created[0].Text)

	prompts := gw.promptLog()
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[1], "Keep it short", "retry must use the simplified prompt")
}

func TestBranch_InvalidCredentialAborts(t *testing.T) {
	repo := newMemThoughtRepo()
	gw := &fakeGateway{
		configured: true,
		steps:      []gwStep{{err: llm.ErrInvalidCredential}},
	}
	svc, _ := newGenerationServiceForTest(repo, gw)

	_, err := svc.Branch(context.Background(), &dto.BranchThoughtsRequest{
		ThoughtText: "parent thought",
		Count:       3,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidCredential))
	assert.Equal(t, 0, repo.count())
}

func TestBranch_RequiresText(t *testing.T) {
	svc, _ := newGenerationServiceForTest(newMemThoughtRepo(), &fakeGateway{configured: true})

	_, err := svc.Branch(context.Background(), &dto.BranchThoughtsRequest{ThoughtText: "   "})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestExpand_CreatesUnlinkedThoughts(t *testing.T) {
	repo := newMemThoughtRepo()
	svc, _ := newGenerationServiceForTest(repo, &fakeGateway{configured: true})

	created, err := svc.Expand(context.Background(), &dto.ExpandThoughtsRequest{
		SeedThought: "a seed idea",
		Count:       3,
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	for _, item := range created {
		stored, found := repo.get(item.Id)
		require.True(t, found)
		assert.Empty(t, stored.Connections)
	}
}
