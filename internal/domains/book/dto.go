package book

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

const (
	maxTitleLength   = 200
	maxSummaryLength = 500
	minYear          = 1000
	maxYear          = 2100
)

var isbnPattern = regexp.MustCompile(`^[0-9X-]{10,17}$`)

// ========================================
// BOOK DTOs
// ========================================

// BookDTO is the read model returned by the API.
type BookDTO struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Year     int             `json:"year"`
	ISBN     string          `json:"isbn"`
	Summary  string          `json:"summary"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	AuthorID int64           `json:"authorId"`
}

type CreateBookRequest struct {
	Title    string          `json:"title"`
	Year     int             `json:"year"`
	ISBN     string          `json:"isbn"`
	Summary  string          `json:"summary"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	AuthorID int64           `json:"authorId"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Year, yearRule()),
		validation.Field(&r.ISBN, isbnRules()...),
		validation.Field(&r.Summary, validation.Length(0, maxSummaryLength)),
		validation.Field(&r.Image, is.URL),
		validation.Field(&r.Price, validation.By(nonNegative)),
		validation.Field(&r.AuthorID, validation.Required, validation.Min(int64(1))),
	)
}

type UpdateBookRequest struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Year     int             `json:"year"`
	ISBN     string          `json:"isbn"`
	Summary  string          `json:"summary"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	AuthorID int64           `json:"authorId"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Year, yearRule()),
		validation.Field(&r.ISBN, isbnRules()...),
		validation.Field(&r.Summary, validation.Length(0, maxSummaryLength)),
		validation.Field(&r.Image, is.URL),
		validation.Field(&r.Price, validation.By(nonNegative)),
		validation.Field(&r.AuthorID, validation.Required, validation.Min(int64(1))),
	)
}

// Key is the id the update targets.
func (r UpdateBookRequest) Key() int64 { return r.ID }

// yearRule accepts 0 for an unknown year.
func yearRule() validation.Rule {
	return validation.By(func(value any) error {
		year, _ := value.(int)
		if year == 0 || (year >= minYear && year <= maxYear) {
			return nil
		}
		return validation.NewError("validation_year_range", "must be 0 or between 1000 and 2100")
	})
}

func isbnRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Match(isbnPattern).Error("must be 10 to 17 digits, dashes or X"),
	}
}

func nonNegative(value any) error {
	price, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal")
	}
	if price.IsNegative() {
		return validation.NewError("validation_price_negative", "must not be negative")
	}
	return nil
}
