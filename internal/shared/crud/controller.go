// Package crud serves the uniform list/get/create/update/delete endpoints
// every catalog resource exposes.
package crud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"bookstore-api/internal/shared/middleware"
	"bookstore-api/internal/shared/repository"
	"bookstore-api/internal/shared/response"
)

// Validatable is implemented by request DTOs.
type Validatable interface {
	Validate() error
}

// Keyed is an update DTO carrying the id it targets.
type Keyed interface {
	Validatable
	Key() int64
}

// Resource describes one entity type to the controller.
type Resource[T any, R any, C Validatable, U Keyed] struct {
	// Name is the plural name used in log locations, e.g. "Authors".
	Name string
	// Noun is used in client-facing messages, e.g. "author".
	Noun string

	ToDTO      func(*T) R
	ToDTOs     func([]T) []R
	FromCreate func(C) *T
	FromUpdate func(U) *T

	// BeforeWrite runs after validation on create and update. Returning
	// validation.Errors yields a 400 with details.
	BeforeWrite func(ctx context.Context, entity *T) error
}

type Controller[T any, PT repository.RecordPtr[T], R any, C Validatable, U Keyed] struct {
	repo repository.Repository[T]
	res  Resource[T, R, C, U]
}

func NewController[T any, PT repository.RecordPtr[T], R any, C Validatable, U Keyed](
	repo repository.Repository[T],
	res Resource[T, R, C, U],
) *Controller[T, PT, R, C, U] {
	return &Controller[T, PT, R, C, U]{repo: repo, res: res}
}

// Register mounts the routes on rg. Mutating routes run behind auth.
func (ctl *Controller[T, PT, R, C, U]) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("", ctl.List)
	rg.GET("/:id", ctl.Get)
	rg.POST("", auth, ctl.Create)
	rg.PUT("/:id", auth, ctl.Update)
	rg.DELETE("/:id", auth, ctl.Delete)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/<resource>
// ════════════════════════════════════════════════════════════════

func (ctl *Controller[T, PT, R, C, U]) List(c *gin.Context) {
	items, err := ctl.repo.FindAll(c.Request.Context())
	if err != nil {
		ctl.fail(c, "List", err)
		return
	}

	c.JSON(http.StatusOK, ctl.res.ToDTOs(items))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/<resource>/:id
// ════════════════════════════════════════════════════════════════

func (ctl *Controller[T, PT, R, C, U]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		ctl.notFound(c)
		return
	}

	item, err := ctl.repo.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		ctl.notFound(c)
		return
	}
	if err != nil {
		ctl.fail(c, "Get", err)
		return
	}

	c.JSON(http.StatusOK, ctl.res.ToDTO(item))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/<resource>
// ════════════════════════════════════════════════════════════════

func (ctl *Controller[T, PT, R, C, U]) Create(c *gin.Context) {
	var req C
	if !bindAndValidate(c, &req) {
		return
	}

	entity := ctl.res.FromCreate(req)
	if !ctl.beforeWrite(c, "Create", entity) {
		return
	}

	ok, err := ctl.repo.Create(c.Request.Context(), entity)
	if err != nil {
		ctl.fail(c, "Create", err)
		return
	}
	if !ok {
		ctl.fail(c, "Create", errors.New("no rows affected"))
		return
	}

	location := fmt.Sprintf("%s/%d", strings.TrimSuffix(c.Request.URL.Path, "/"), PT(entity).Identifier())
	c.Header("Location", location)
	c.JSON(http.StatusCreated, ctl.res.ToDTO(entity))
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /api/<resource>/:id
// ════════════════════════════════════════════════════════════════

func (ctl *Controller[T, PT, R, C, U]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}

	var req U
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Key() != id {
		response.BadRequest(c, "id in body does not match route")
		return
	}

	ctx := c.Request.Context()
	exists, err := ctl.repo.IsExists(ctx, id)
	if err != nil {
		ctl.fail(c, "Update", err)
		return
	}
	if !exists {
		ctl.notFound(c)
		return
	}

	entity := ctl.res.FromUpdate(req)
	if !ctl.beforeWrite(c, "Update", entity) {
		return
	}

	ok, err = ctl.repo.Update(ctx, entity)
	if errors.Is(err, repository.ErrNotFound) {
		ctl.notFound(c)
		return
	}
	if err != nil {
		ctl.fail(c, "Update", err)
		return
	}
	if !ok {
		ctl.fail(c, "Update", errors.New("no rows affected"))
		return
	}

	c.Status(http.StatusNoContent)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /api/<resource>/:id
// ════════════════════════════════════════════════════════════════

func (ctl *Controller[T, PT, R, C, U]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}

	ctx := c.Request.Context()
	entity, err := ctl.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		ctl.notFound(c)
		return
	}
	if err != nil {
		ctl.fail(c, "Delete", err)
		return
	}

	ok, err = ctl.repo.Delete(ctx, entity)
	if errors.Is(err, repository.ErrNotFound) {
		ctl.notFound(c)
		return
	}
	if err != nil {
		ctl.fail(c, "Delete", err)
		return
	}
	if !ok {
		ctl.fail(c, "Delete", errors.New("no rows affected"))
		return
	}

	c.Status(http.StatusNoContent)
}

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

func (ctl *Controller[T, PT, R, C, U]) beforeWrite(c *gin.Context, action string, entity *T) bool {
	if ctl.res.BeforeWrite == nil {
		return true
	}

	err := ctl.res.BeforeWrite(c.Request.Context(), entity)
	if err == nil {
		return true
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationError(c, verrs)
		return false
	}
	ctl.fail(c, action, err)
	return false
}

func (ctl *Controller[T, PT, R, C, U]) notFound(c *gin.Context) {
	response.NotFound(c, ctl.res.Noun+" not found")
}

// fail logs err under "<Resource> - <Action>" and answers with a generic 500.
func (ctl *Controller[T, PT, R, C, U]) fail(c *gin.Context, action string, err error) {
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("location", ctl.res.Name+" - "+action).
		Msg("request failed")
	response.InternalServerError(c, "internal server error")
}

// parseID reads the :id route parameter. Ids start at 1.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func bindAndValidate[D Validatable](c *gin.Context, req *D) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "invalid request body")
		return false
	}
	if err := (*req).Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ValidationError(c, verrs)
		} else {
			response.ValidationError(c, err.Error())
		}
		return false
	}
	return true
}
