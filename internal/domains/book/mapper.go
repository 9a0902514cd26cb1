package book

func FromCreate(r CreateBookRequest) *Book {
	return &Book{
		Title:    r.Title,
		Year:     r.Year,
		ISBN:     r.ISBN,
		Summary:  r.Summary,
		Image:    r.Image,
		Price:    r.Price,
		AuthorID: r.AuthorID,
	}
}

func FromUpdate(r UpdateBookRequest) *Book {
	return &Book{
		ID:       r.ID,
		Title:    r.Title,
		Year:     r.Year,
		ISBN:     r.ISBN,
		Summary:  r.Summary,
		Image:    r.Image,
		Price:    r.Price,
		AuthorID: r.AuthorID,
	}
}

func ToDTO(b *Book) BookDTO {
	return BookDTO{
		ID:       b.ID,
		Title:    b.Title,
		Year:     b.Year,
		ISBN:     b.ISBN,
		Summary:  b.Summary,
		Image:    b.Image,
		Price:    b.Price,
		AuthorID: b.AuthorID,
	}
}

func ToDTOs(books []Book) []BookDTO {
	out := make([]BookDTO, 0, len(books))
	for i := range books {
		out = append(out, ToDTO(&books[i]))
	}
	return out
}
