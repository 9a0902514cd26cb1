package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the TokenStore key the session token is kept under.
const TokenKey = "authToken"

// AuthState is the client's view of the session.
type AuthState int

const (
	Anonymous AuthState = iota
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

type RegistrationModel struct {
	EmailAddress    string `json:"emailAddress"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

func (m RegistrationModel) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.EmailAddress, validation.Required, is.EmailFormat),
		validation.Field(&m.Password, validation.Required, validation.Length(5, 10)),
		validation.Field(&m.ConfirmPassword, validation.Required, validation.In(m.Password).Error("passwords don't match")),
	)
}

type LoginModel struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

func (m LoginModel) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.EmailAddress, validation.Required, is.EmailFormat),
		validation.Field(&m.Password, validation.Required),
	)
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Me is the identity behind the current token.
type Me struct {
	Email    string   `json:"email"`
	UserID   string   `json:"userId"`
	UserName string   `json:"userName"`
	Roles    []string `json:"roles"`
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, m RegistrationModel) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}
	return outcome(c.do(ctx, http.MethodPost, c.collectionURL(RegisterEndpoint), m, nil))
}

// Login exchanges credentials for a token, persists it and switches the
// client to Authenticated.
func (c *Client) Login(ctx context.Context, m LoginModel) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, c.collectionURL(LoginEndpoint), m, &resp); err != nil {
		return false, err
	}
	if resp.Token == "" {
		return false, errors.New("login response carried no token")
	}

	if err := c.store.Set(ctx, TokenKey, resp.Token); err != nil {
		return false, fmt.Errorf("failed to store token: %w", err)
	}
	c.setSession(resp.Token)
	return true, nil
}

// Logout forgets the token and switches the client to Anonymous.
func (c *Client) Logout(ctx context.Context) error {
	err := c.store.Remove(ctx, TokenKey)
	c.setSession("")
	if err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// Restore resumes a session from the token store. An expired or
// unreadable token is discarded.
func (c *Client) Restore(ctx context.Context) (AuthState, error) {
	token, err := c.store.Get(ctx, TokenKey)
	if err != nil {
		return Anonymous, fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		c.setSession("")
		return Anonymous, nil
	}

	if expired(token, time.Now()) {
		return Anonymous, c.Logout(ctx)
	}

	c.setSession(token)
	return Authenticated, nil
}

// Me asks the API who the current token belongs to.
func (c *Client) Me(ctx context.Context) (*Me, error) {
	var me Me
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/"+MeEndpoint, nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Token returns the bearer token of the current session, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// State returns the current auth state.
func (c *Client) State() AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe returns a channel that receives every auth state change.
// Slow readers only ever see the latest state.
func (c *Client) Subscribe() <-chan AuthState {
	ch := make(chan AuthState, 1)
	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
func (c *Client) Unsubscribe(ch <-chan AuthState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for sub := range c.subscribers {
		if sub == ch {
			delete(c.subscribers, sub)
			close(sub)
			return
		}
	}
}

func (c *Client) setSession(token string) {
	state := Anonymous
	if token != "" {
		state = Authenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	if c.state == state {
		return
	}
	c.state = state
	for sub := range c.subscribers {
		select {
		case <-sub:
		default:
		}
		sub <- state
	}
}

// expired inspects exp without verifying the signature; only the server
// can do that.
func expired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	return claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time)
}
