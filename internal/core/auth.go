package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/newsly/newsly/internal/personalize"
	"github.com/newsly/newsly/internal/store"
	"github.com/newsly/newsly/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// Auth-level sentinel errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid registration input")
)

// AuthResponse is returned on successful register/login.
type AuthResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

// AuthCore handles registration and login.
type AuthCore struct {
	store  store.Store
	tokens *token.Manager
}

// NewAuthCore creates a new AuthCore instance
func NewAuthCore(st store.Store, tm *token.Manager) *AuthCore {
	return &AuthCore{store: st, tokens: tm}
}

// Register creates an account with a bcrypt-hashed password and the
// default category preferences, then issues a token.
func (c *AuthCore) Register(ctx context.Context, email, name, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if !strings.Contains(email, "@") || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := c.store.CreateUser(ctx, email, name, string(hash), personalize.DefaultCategories)
	if err != nil {
		return nil, err
	}

	log.Printf("[AuthCore] Registered user %s", user.ID)
	return c.respond(user)
}

// Login verifies credentials and issues a token.
func (c *AuthCore) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := c.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return c.respond(user)
}

func (c *AuthCore) respond(user *store.User) (*AuthResponse, error) {
	tok, err := c.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	resp := &AuthResponse{Token: tok}
	resp.User.ID = user.ID
	resp.User.Email = user.Email
	resp.User.Name = user.Name
	return resp, nil
}
