package book

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/shared/repository/repositorytest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAuthors struct {
	mock.Mock
}

func (m *mockAuthors) IsExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func passThrough(c *gin.Context) { c.Next() }

func newRouter(repo Repository, authors AuthorLookup) *gin.Engine {
	r := gin.New()
	NewHandler(repo, authors).Register(r.Group("/api/books"), passThrough)
	return r
}

func send(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validCreate() CreateBookRequest {
	return CreateBookRequest{
		Title:    "The Dispossessed",
		Year:     1974,
		ISBN:     "978-0-06-051275-0",
		Summary:  "An ambiguous utopia.",
		Image:    "https://covers.example.com/dispossessed.jpg",
		Price:    decimal.RequireFromString("12.99"),
		AuthorID: 1,
	}
}

func TestBooks_CreateRoundTrip(t *testing.T) {
	authors := new(mockAuthors)
	authors.On("IsExists", mock.Anything, int64(1)).Return(true, nil)
	repo := repositorytest.NewMemory[Book, *Book]()
	r := newRouter(repo, authors)

	w := send(r, http.MethodPost, "/api/books", validCreate())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/books/1", w.Header().Get("Location"))

	w = send(r, http.MethodGet, "/api/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got BookDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "The Dispossessed", got.Title)
	assert.Equal(t, 1974, got.Year)
	assert.Equal(t, "978-0-06-051275-0", got.ISBN)
	assert.True(t, decimal.RequireFromString("12.99").Equal(got.Price))
	assert.Equal(t, int64(1), got.AuthorID)

	authors.AssertExpectations(t)
}

func TestBooks_UnknownAuthorIsValidationError(t *testing.T) {
	authors := new(mockAuthors)
	authors.On("IsExists", mock.Anything, int64(7)).Return(false, nil)
	repo := repositorytest.NewMemory[Book, *Book]()
	r := newRouter(repo, authors)

	req := validCreate()
	req.AuthorID = 7
	w := send(r, http.MethodPost, "/api/books", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"authorId":"author does not exist"`)
	assert.Zero(t, repo.Writes)
}

func TestBooks_AuthorLookupFailureIs500(t *testing.T) {
	authors := new(mockAuthors)
	authors.On("IsExists", mock.Anything, int64(1)).Return(false, errors.New("connection reset"))
	repo := repositorytest.NewMemory[Book, *Book]()
	r := newRouter(repo, authors)

	w := send(r, http.MethodPost, "/api/books", validCreate())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestBooks_StoreRejectionIs500(t *testing.T) {
	authors := new(mockAuthors)
	authors.On("IsExists", mock.Anything, int64(1)).Return(true, nil)
	repo := repositorytest.NewMemory[Book, *Book]()
	repo.Reject = func(*Book) bool { return true }
	r := newRouter(repo, authors)

	w := send(r, http.MethodPost, "/api/books", validCreate())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, repo.Len())
}

func TestBooks_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateBookRequest)
		field  string
	}{
		{"blank title", func(r *CreateBookRequest) { r.Title = "" }, "title"},
		{"short isbn", func(r *CreateBookRequest) { r.ISBN = "12345" }, "isbn"},
		{"isbn letters", func(r *CreateBookRequest) { r.ISBN = "978-ABC-123-4" }, "isbn"},
		{"year out of range", func(r *CreateBookRequest) { r.Year = 999 }, "year"},
		{"bad image url", func(r *CreateBookRequest) { r.Image = "not a url" }, "image"},
		{"negative price", func(r *CreateBookRequest) { r.Price = decimal.NewFromInt(-1) }, "price"},
		{"missing author", func(r *CreateBookRequest) { r.AuthorID = 0 }, "authorId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestBooks_ValidationAcceptsUnknownYearAndNoImage(t *testing.T) {
	req := validCreate()
	req.Year = 0
	req.Image = ""
	req.Summary = ""

	assert.NoError(t, req.Validate())
}

func TestBooks_UpdateAndDelete(t *testing.T) {
	authors := new(mockAuthors)
	authors.On("IsExists", mock.Anything, int64(1)).Return(true, nil)
	seed := FromCreate(validCreate())
	repo := repositorytest.NewMemory[Book, *Book](*seed)
	r := newRouter(repo, authors)

	upd := UpdateBookRequest{
		ID:       1,
		Title:    "The Dispossessed (reissue)",
		Year:     1994,
		ISBN:     "0-06-105488-2",
		Price:    decimal.RequireFromString("9.50"),
		AuthorID: 1,
	}
	w := send(r, http.MethodPut, "/api/books/1", upd)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	stored, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "The Dispossessed (reissue)", stored.Title)
	assert.Empty(t, stored.Summary)

	upd.ID = 2
	w = send(r, http.MethodPut, "/api/books/1", upd)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodDelete, "/api/books/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = send(r, http.MethodDelete, "/api/books/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_ListStorageError(t *testing.T) {
	repo := repositorytest.NewMemory[Book, *Book]()
	repo.Err = errors.New("pool closed")
	r := newRouter(repo, new(mockAuthors))

	w := send(r, http.MethodGet, "/api/books", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_SERVER_ERROR","message":"internal server error"}}`, w.Body.String())
}
