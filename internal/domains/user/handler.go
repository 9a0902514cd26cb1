package user

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"bookstore-api/internal/shared/middleware"
	"bookstore-api/internal/shared/response"
)

// Handler serves /api/users.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("/register", h.RegisterUser)
	rg.POST("/login", h.Login)
	rg.GET("/me", auth, h.Me)
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// RegisterUser handles POST /api/users/register.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		validationFailed(c, err)
		return
	}

	if err := h.service.Register(c.Request.Context(), req); err != nil {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("location", "Users - Register").
			Msg("request failed")
		response.InternalServerError(c, "registration failed")
		return
	}

	c.JSON(http.StatusOK, RegisterResponse{Succeeded: true})
}

// Login handles POST /api/users/login.
func (h *Handler) Login(c *gin.Context) {
	var req Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.ValidateLogin(); err != nil {
		validationFailed(c, err)
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.loginFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (h *Handler) loginFailed(c *gin.Context, err error) {
	var lockout *LockoutError
	switch {
	case errors.As(err, &lockout):
		seconds := int(math.Ceil(lockout.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(seconds))
		response.TooManyRequests(c, ErrTooManyAttempts.Error())
	case ToHTTPStatus(err) == http.StatusUnauthorized:
		response.Unauthorized(c, ErrInvalidCredentials.Error())
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("location", "Users - Login").
			Msg("request failed")
		response.InternalServerError(c, "internal server error")
	}
}

// Me handles GET /api/users/me.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Unauthorized(c, "invalid token")
		return
	}

	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}
	c.JSON(http.StatusOK, MeResponse{
		Email:    claims.Subject,
		UserID:   claims.UserID,
		UserName: claims.UserName,
		Roles:    roles,
	})
}

func validationFailed(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationError(c, verrs)
		return
	}
	response.ValidationError(c, err.Error())
}
