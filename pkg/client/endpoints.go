package client

// Endpoints are relative to the client's base URL.
const (
	AuthorsEndpoint  = "api/authors/"
	BooksEndpoint    = "api/books/"
	RegisterEndpoint = "api/users/register/"
	LoginEndpoint    = "api/users/login/"
	MeEndpoint       = "api/users/me"
)
