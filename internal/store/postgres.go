package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/newsly/newsly/internal/news"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// CreateUser inserts the user row and the default preference rows in one
// transaction so a failed preference insert rolls the account back.
func (s *PostgresStore) CreateUser(ctx context.Context, email, name, passwordHash string, defaultCategories []string) (*User, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO users (email, name, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, email, name, password_hash, is_admin, created_at;
    `
	var user User
	err = tx.QueryRow(ctx, query, email, name, passwordHash).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	for _, category := range defaultCategories {
		_, err = tx.Exec(ctx,
			`INSERT INTO preferences (user_id, category) VALUES ($1, $2)`,
			user.ID, category)
		if err != nil {
			return nil, fmt.Errorf("failed to create default preferences: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit user creation: %w", err)
	}
	log.Printf("[Store.CreateUser] User created: %s", user.ID)
	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, name, password_hash, is_admin, created_at FROM users WHERE email = $1`
	return s.scanUser(s.db.QueryRow(ctx, query, email))
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, email, name, password_hash, is_admin, created_at FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRow(ctx, query, id))
}

func (s *PostgresStore) scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) GetPreferences(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT category FROM preferences WHERE user_id = $1 ORDER BY category`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdatePreferences replaces the user's category set atomically.
func (s *PostgresStore) UpdatePreferences(ctx context.Context, userID string, categories []string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	for _, category := range categories {
		_, err := tx.Exec(ctx,
			`INSERT INTO preferences (user_id, category) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, category)
		if err != nil {
			return fmt.Errorf("failed to insert preference: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) SaveArticle(ctx context.Context, userID string, a *news.Article) error {
	query := `
        INSERT INTO saved_articles (user_id, article_id, title, url, image_url, published_at, category, source)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id, article_id) DO NOTHING;
    `
	_, err := s.db.Exec(ctx, query, userID, a.ID, a.Title, a.URL, a.ImageURL, a.PublishedAt, a.Category, a.Source)
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSavedArticles(ctx context.Context, userID string) ([]news.Article, error) {
	query := `
        SELECT article_id, title, url, image_url, published_at, category, source
        FROM saved_articles WHERE user_id = $1 ORDER BY saved_at DESC;
    `
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved articles: %w", err)
	}
	defer rows.Close()

	var articles []news.Article
	for rows.Next() {
		var a news.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &a.ImageURL, &a.PublishedAt, &a.Category, &a.Source); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *PostgresStore) DeleteSavedArticle(ctx context.Context, userID, articleID string) error {
	result, err := s.db.Exec(ctx,
		`DELETE FROM saved_articles WHERE user_id = $1 AND article_id = $2`, userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete saved article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
