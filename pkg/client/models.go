package client

import "github.com/shopspring/decimal"

type Author struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Book struct {
	ID       int64           `json:"id,omitempty"`
	Title    string          `json:"title"`
	Year     int             `json:"year,omitempty"`
	ISBN     string          `json:"isbn"`
	Summary  string          `json:"summary,omitempty"`
	Image    string          `json:"image,omitempty"`
	Price    decimal.Decimal `json:"price"`
	AuthorID int64           `json:"authorId"`
}
