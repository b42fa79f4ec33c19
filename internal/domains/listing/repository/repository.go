package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"stayledger/infras/otel"
	"stayledger/infras/postgres"
	"stayledger/internal/domains/listing/model"
	"stayledger/shared"
	gDto "stayledger/shared/dto"
	gRepo "stayledger/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Listing interface {
	Insert(ctx context.Context, model model.Listing) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Listing, error)
	GetForShareTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Listing, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Listing, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Listing]
}

func New(db *postgres.Connection, otel otel.Otel) Listing {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Listing](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// GetForShareTx reads a listing and keeps its price fixed until tx ends.
// A zero Listing is returned when the id does not exist.
func (r *repositoryImpl) GetForShareTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Listing, error) {
	return r.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName), gRepo.LockShare)
}
