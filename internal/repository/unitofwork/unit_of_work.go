package unitofwork

import (
	"context"

	"mindloop-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ThoughtRepository() contract.ThoughtRepository
}
