package author

func FromCreate(r CreateAuthorRequest) *Author {
	return &Author{
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

func FromUpdate(r UpdateAuthorRequest) *Author {
	return &Author{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

func ToDTO(a *Author) AuthorDTO {
	return AuthorDTO{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

func ToDTOs(authors []Author) []AuthorDTO {
	out := make([]AuthorDTO, 0, len(authors))
	for i := range authors {
		out = append(out, ToDTO(&authors[i]))
	}
	return out
}
