package book

import (
	"github.com/shopspring/decimal"
)

// Book is a catalog entry. AuthorID must reference an existing author.
type Book struct {
	ID       int64           `db:"id"`
	Title    string          `db:"title"`
	Year     int             `db:"year"`
	ISBN     string          `db:"isbn"`
	Summary  string          `db:"summary"`
	Image    string          `db:"image"`
	Price    decimal.Decimal `db:"price"`
	AuthorID int64           `db:"author_id"`
}

func (Book) Table() string { return "books" }

func (Book) Columns() []string {
	return []string{"title", "year", "isbn", "summary", "image", "price", "author_id"}
}

func (b *Book) Values() []any {
	return []any{b.Title, b.Year, b.ISBN, b.Summary, b.Image, b.Price, b.AuthorID}
}

func (b *Book) Fields() []any {
	return []any{&b.ID, &b.Title, &b.Year, &b.ISBN, &b.Summary, &b.Image, &b.Price, &b.AuthorID}
}

func (b *Book) Identifier() int64 { return b.ID }
