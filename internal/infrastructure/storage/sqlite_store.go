// Package storage persists articles in SQLite keyed by canonical link.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	link       TEXT NOT NULL UNIQUE,
	published  TEXT,
	source     TEXT NOT NULL,
	raw_text   TEXT,
	summary    TEXT,
	keywords   TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published);
CREATE TABLE IF NOT EXISTS favorites (
	article_id INTEGER PRIMARY KEY REFERENCES articles(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL
);
`

// SQLiteStore implements ports.ArticleStore on a local SQLite file.
// The UNIQUE constraint on articles.link is the enforcement point for
// concurrent upserts of the same canonical link.
type SQLiteStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.ArticleStore = (*SQLiteStore)(nil)

// Open opens (or creates) the database at dsn and ensures the schema.
// Use ":memory:" for tests.
func Open(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Exists reports whether an article with the given canonical link is
// already stored.
func (s *SQLiteStore) Exists(ctx context.Context, link string) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM articles WHERE link = ?`, link).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check link: %w", err)
	}
	return true, nil
}

// Upsert inserts the article, or updates the mutable fields of the
// existing row with the same link. Identity (id, created_at) never
// changes on update.
func (s *SQLiteStore) Upsert(ctx context.Context, article domain.Article) (domain.Outcome, error) {
	keywords, err := json.Marshal(article.Keywords)
	if err != nil {
		return domain.OutcomeSkipped, fmt.Errorf("encode keywords: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	published := ""
	if !article.Published.IsZero() {
		published = article.Published.UTC().Format(time.RFC3339)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO articles (title, link, published, source, raw_text, summary, keywords, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.Title, article.Link, published, article.Source,
		article.RawText, article.Summary, string(keywords), now, now,
	)
	if err == nil {
		return domain.OutcomeInserted, nil
	}
	if !isUniqueViolation(err) {
		return domain.OutcomeSkipped, fmt.Errorf("insert article: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE articles
		 SET title = ?, published = ?, source = ?, raw_text = ?, summary = ?, keywords = ?, updated_at = ?
		 WHERE link = ?`,
		article.Title, published, article.Source,
		article.RawText, article.Summary, string(keywords), now,
		article.Link,
	)
	if err != nil {
		return domain.OutcomeSkipped, fmt.Errorf("update article: %w", err)
	}
	return domain.OutcomeUpdated, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

// Query returns articles matching the filters, newest first.
func (s *SQLiteStore) Query(ctx context.Context, filters ports.QueryFilters) ([]domain.Article, error) {
	q := s.sb.
		Select("a.id", "a.title", "a.link", "a.published", "a.source",
			"a.raw_text", "a.summary", "a.keywords", "a.created_at", "a.updated_at").
		From("articles a").
		OrderBy("a.published DESC", "a.id DESC")

	if filters.Source != "" {
		q = q.Where(sq.Eq{"a.source": filters.Source})
	}
	if !filters.From.IsZero() {
		q = q.Where(sq.GtOrEq{"a.published": filters.From.UTC().Format(time.RFC3339)})
	}
	if !filters.To.IsZero() {
		q = q.Where(sq.LtOrEq{"a.published": filters.To.UTC().Format(time.RFC3339)})
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		q = q.Where(sq.Or{
			sq.Like{"a.title": pattern},
			sq.Like{"a.summary": pattern},
			sq.Like{"a.keywords": pattern},
		})
	}
	if filters.FavoriteOnly {
		q = q.Join("favorites f ON f.article_id = a.id")
	}
	if filters.Limit > 0 {
		q = q.Limit(uint64(filters.Limit))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}

func scanArticle(rows *sql.Rows) (domain.Article, error) {
	var (
		article              domain.Article
		published, keywords  string
		createdAt, updatedAt string
	)
	if err := rows.Scan(&article.ID, &article.Title, &article.Link, &published,
		&article.Source, &article.RawText, &article.Summary, &keywords,
		&createdAt, &updatedAt); err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	if published != "" {
		if ts, err := time.Parse(time.RFC3339, published); err == nil {
			article.Published = ts
		}
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		article.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		article.UpdatedAt = ts
	}
	if err := json.Unmarshal([]byte(keywords), &article.Keywords); err != nil {
		return domain.Article{}, fmt.Errorf("decode keywords: %w", err)
	}
	return article, nil
}

// ToggleFavorite flips the favorite mark and returns the new state.
func (s *SQLiteStore) ToggleFavorite(ctx context.Context, articleID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE article_id = ?`, articleID)
	if err != nil {
		return false, fmt.Errorf("clear favorite: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favorites (article_id, created_at) VALUES (?, ?)`,
		articleID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("mark favorite: %w", err)
	}
	return true, nil
}

// Sources returns the distinct source names present in storage,
// alphabetically.
func (s *SQLiteStore) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT source FROM articles ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return sources, nil
}
