package store

import (
	"context"
	"errors"
	"time"

	"github.com/newsly/newsly/internal/news"
)

// Store-level sentinel errors.
var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

// User is an account row.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

type Store interface {
	// Users
	CreateUser(ctx context.Context, email, name, passwordHash string, defaultCategories []string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)

	// Preferences
	GetPreferences(ctx context.Context, userID string) ([]string, error)
	UpdatePreferences(ctx context.Context, userID string, categories []string) error

	// Saved articles
	SaveArticle(ctx context.Context, userID string, article *news.Article) error
	GetSavedArticles(ctx context.Context, userID string) ([]news.Article, error)
	DeleteSavedArticle(ctx context.Context, userID, articleID string) error

	// General
	Close()
}
