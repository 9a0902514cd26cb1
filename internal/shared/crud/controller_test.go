package crud

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/shared/repository/repositorytest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type widget struct {
	ID   int64
	Name string
}

func (widget) Table() string        { return "widgets" }
func (widget) Columns() []string    { return []string{"name"} }
func (w *widget) Values() []any     { return []any{w.Name} }
func (w *widget) Fields() []any     { return []any{&w.ID, &w.Name} }
func (w *widget) Identifier() int64 { return w.ID }

type widgetDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type createWidget struct {
	Name string `json:"name"`
}

func (r createWidget) Validate() error {
	return validation.ValidateStruct(&r, validation.Field(&r.Name, validation.Required))
}

type updateWidget struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (r updateWidget) Validate() error {
	return validation.ValidateStruct(&r, validation.Field(&r.Name, validation.Required))
}

func (r updateWidget) Key() int64 { return r.ID }

type widgetStore = repositorytest.Memory[widget, *widget]

// vanishing claims every row exists, then loses it on write.
type vanishing struct {
	*widgetStore
}

func (vanishing) IsExists(context.Context, int64) (bool, error) { return true, nil }

func toWidgetDTO(w *widget) widgetDTO { return widgetDTO{ID: w.ID, Name: w.Name} }

func widgetResource(hook func(context.Context, *widget) error) Resource[widget, widgetDTO, createWidget, updateWidget] {
	return Resource[widget, widgetDTO, createWidget, updateWidget]{
		Name:        "Widgets",
		Noun:        "widget",
		ToDTO:       toWidgetDTO,
		ToDTOs: func(ws []widget) []widgetDTO {
			out := make([]widgetDTO, 0, len(ws))
			for i := range ws {
				out = append(out, toWidgetDTO(&ws[i]))
			}
			return out
		},
		FromCreate:  func(r createWidget) *widget { return &widget{Name: r.Name} },
		FromUpdate:  func(r updateWidget) *widget { return &widget{ID: r.ID, Name: r.Name} },
		BeforeWrite: hook,
	}
}

func serve(ctl *Controller[widget, *widget, widgetDTO, createWidget, updateWidget], method, path, body string) *httptest.ResponseRecorder {
	r := gin.New()
	ctl.Register(r.Group("/api/widgets"), func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestCreate_LocationHeader(t *testing.T) {
	store := repositorytest.NewMemory[widget, *widget](widget{Name: "a"})
	ctl := NewController[widget, *widget](store, widgetResource(nil))

	w := serve(ctl, http.MethodPost, "/api/widgets", `{"name":"sprocket"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/widgets/2", w.Header().Get("Location"))
	assert.JSONEq(t, `{"id":2,"name":"sprocket"}`, w.Body.String())
}

func TestCreate_HookErrors(t *testing.T) {
	tests := []struct {
		name       string
		hookErr    error
		wantStatus int
	}{
		{"validation error is a client error", validation.Errors{"name": errors.New("taken")}, http.StatusBadRequest},
		{"other errors are server errors", errors.New("lookup failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repositorytest.NewMemory[widget, *widget]()
			hook := func(context.Context, *widget) error { return tt.hookErr }
			ctl := NewController[widget, *widget](store, widgetResource(hook))

			w := serve(ctl, http.MethodPost, "/api/widgets", `{"name":"sprocket"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Zero(t, store.Writes)
		})
	}
}

func TestCreate_RejectedWriteIsLogged(t *testing.T) {
	logs := captureLog(t)
	store := repositorytest.NewMemory[widget, *widget]()
	store.Reject = func(*widget) bool { return true }
	ctl := NewController[widget, *widget](store, widgetResource(nil))

	w := serve(ctl, http.MethodPost, "/api/widgets", `{"name":"sprocket"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_SERVER_ERROR","message":"internal server error"}}`, w.Body.String())
	assert.Contains(t, logs.String(), `"location":"Widgets - Create"`)
	assert.Contains(t, logs.String(), "no rows affected")
}

func TestStorageErrorsDoNotLeak(t *testing.T) {
	logs := captureLog(t)
	store := repositorytest.NewMemory[widget, *widget]()
	store.Err = errors.New("dial tcp 10.0.0.5:5432: connection refused")
	ctl := NewController[widget, *widget](store, widgetResource(nil))

	for _, path := range []string{"/api/widgets", "/api/widgets/1"} {
		w := serve(ctl, http.MethodGet, path, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	}
	assert.Contains(t, logs.String(), `"location":"Widgets - List"`)
	assert.Contains(t, logs.String(), `"location":"Widgets - Get"`)
}

func TestUpdate_RowVanished(t *testing.T) {
	ctl := NewController[widget, *widget](vanishing{repositorytest.NewMemory[widget, *widget]()}, widgetResource(nil))

	w := serve(ctl, http.MethodPut, "/api/widgets/9", `{"id":9,"name":"sprocket"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_InvalidBody(t *testing.T) {
	store := repositorytest.NewMemory[widget, *widget](widget{Name: "a"})
	ctl := NewController[widget, *widget](store, widgetResource(nil))

	tests := []struct {
		name string
		path string
		body string
	}{
		{"zero id", "/api/widgets/0", `{"id":0,"name":"x"}`},
		{"malformed json", "/api/widgets/1", `{"id":`},
		{"blank name", "/api/widgets/1", `{"id":1,"name":""}`},
		{"id mismatch", "/api/widgets/1", `{"id":2,"name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(ctl, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Zero(t, store.Writes)
}

func TestDelete_BadID(t *testing.T) {
	store := repositorytest.NewMemory[widget, *widget](widget{Name: "a"})
	ctl := NewController[widget, *widget](store, widgetResource(nil))

	w := serve(ctl, http.MethodDelete, "/api/widgets/-1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, store.Len())
}
