package book

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookstore-api/internal/shared/crud"
	"bookstore-api/internal/shared/repository"
)

var ErrUnknownAuthor = errors.New("author does not exist")

type Repository = repository.Repository[Book]

type Handler = crud.Controller[Book, *Book, BookDTO, CreateBookRequest, UpdateBookRequest]

// AuthorLookup is satisfied by the author repository.
type AuthorLookup interface {
	IsExists(ctx context.Context, id int64) (bool, error)
}

func NewRepository(db repository.DB) *repository.Postgres[Book, *Book] {
	return repository.NewPostgres[Book, *Book](db)
}

// NewHandler serves /api/books. Writes referencing a missing author are
// rejected as validation errors before reaching storage.
func NewHandler(repo Repository, authors AuthorLookup) *Handler {
	return crud.NewController[Book, *Book](repo, crud.Resource[Book, BookDTO, CreateBookRequest, UpdateBookRequest]{
		Name:        "Books",
		Noun:        "book",
		ToDTO:       ToDTO,
		ToDTOs:      ToDTOs,
		FromCreate:  FromCreate,
		FromUpdate:  FromUpdate,
		BeforeWrite: authorMustExist(authors),
	})
}

func authorMustExist(authors AuthorLookup) func(context.Context, *Book) error {
	return func(ctx context.Context, b *Book) error {
		ok, err := authors.IsExists(ctx, b.AuthorID)
		if err != nil {
			return fmt.Errorf("check author %d: %w", b.AuthorID, err)
		}
		if !ok {
			return validation.Errors{"authorId": ErrUnknownAuthor}
		}
		return nil
	}
}
