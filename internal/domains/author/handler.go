package author

import (
	"bookstore-api/internal/shared/crud"
	"bookstore-api/internal/shared/repository"
)

type Repository = repository.Repository[Author]

type Handler = crud.Controller[Author, *Author, AuthorDTO, CreateAuthorRequest, UpdateAuthorRequest]

func NewRepository(db repository.DB) *repository.Postgres[Author, *Author] {
	return repository.NewPostgres[Author, *Author](db)
}

// NewHandler serves /api/authors.
func NewHandler(repo Repository) *Handler {
	return crud.NewController[Author, *Author](repo, crud.Resource[Author, AuthorDTO, CreateAuthorRequest, UpdateAuthorRequest]{
		Name:       "Authors",
		Noun:       "author",
		ToDTO:      ToDTO,
		ToDTOs:     ToDTOs,
		FromCreate: FromCreate,
		FromUpdate: FromUpdate,
	})
}
