package main

import (
	"context"
	"os"
	"time"

	"mindloop-be/internal/entity"
	"mindloop-be/internal/repository/unitofwork"
	"mindloop-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type seedThought struct {
	text string
	mood string
	tags []string
}

// A small starter graph: a chain of three plus two standalone thoughts.
var seeds = []seedThought{
	{
		text: "What if memories are just stories we keep retelling ourselves until they feel true?",
		mood: "existential",
		tags: []string{"memory", "reality"},
	},
	{
		text: "Then every version of the past is a draft nobody proofread.",
		mood: "existential",
		tags: []string{"past", "memory"},
	},
	{
		text: "And the future is fan fiction about a character who doesn't exist yet.",
		mood: "weird",
		tags: []string{"future", "identity"},
	},
	{
		text: "Somewhere a spider considers your bathroom its forever home.",
		mood: "funny",
		tags: []string{},
	},
	{
		text: "The dream you forgot this morning is still running somewhere without you.",
		mood: "weird",
		tags: []string{"dream", "time"},
	},
}

// chainLength is how many leading seeds form a connected chain.
const chainLength = 3

func main() {
	if err := godotenv.Load(); err != nil {
		color.Yellow("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	repo := uow.ThoughtRepository()

	color.Cyan("Seeding %d thoughts...", len(seeds))

	var prevID uuid.UUID
	for i, s := range seeds {
		thought := entity.Thought{
			Id:          uuid.New(),
			Text:        s.text,
			Tags:        s.tags,
			Mood:        s.mood,
			Connections: []uuid.UUID{},
			CreatedAt:   time.Now(),
		}
		if i > 0 && i < chainLength {
			thought.Connections = []uuid.UUID{prevID}
		}

		if err := repo.Create(ctx, &thought); err != nil {
			color.Red("Failed to create thought %d: %v", i, err)
			os.Exit(1)
		}

		if i > 0 && i < chainLength {
			if err := repo.AppendConnections(ctx, prevID, []uuid.UUID{thought.Id}); err != nil {
				color.Red("Failed to link thought %d to its parent: %v", i, err)
				os.Exit(1)
			}
		}
		prevID = thought.Id

		color.Green("  [%s] %s", s.mood, s.text)
	}

	color.Cyan("Done.")
}
