package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/ports"
)

// DefaultDSN keeps the article set in memory for the lifetime of the process.
const DefaultDSN = ":memory:"

const articlesTable = "articles"

const schema = `CREATE TABLE IF NOT EXISTS articles (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  journal TEXT NOT NULL,
  authors TEXT NOT NULL,
  pub_date TEXT NOT NULL,
  abstract TEXT NOT NULL,
  doi_link TEXT NOT NULL,
  is_trial INTEGER NOT NULL,
  summary TEXT
)`

var articleColumns = []string{
	"id", "title", "journal", "authors", "pub_date", "abstract", "doi_link", "is_trial", "summary",
}

// SQLiteRepository keeps the current article set in SQLite.
type SQLiteRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.ArticleStore = (*SQLiteRepository)(nil)

// OpenSQLite opens the database at dsn and creates the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection: SQLite serializes writers and an in-memory database
	// lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return NewSQLiteRepository(db), nil
}

// NewSQLiteRepository wires an already opened sql.DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Close releases the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Replace deletes the previous set and inserts the new one in one transaction.
func (r *SQLiteRepository) Replace(ctx context.Context, articles []domain.Article) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := r.sb.Delete(articlesTable).RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}

	if len(articles) > 0 {
		insert := r.sb.Insert(articlesTable).
			Columns("id", "position", "title", "journal", "authors", "pub_date", "abstract", "doi_link", "is_trial", "summary")
		for i, a := range articles {
			authors, err := json.Marshal(a.Authors)
			if err != nil {
				return fmt.Errorf("marshal authors %s: %w", a.ID, err)
			}
			summary, err := marshalSummary(a.CachedSummary)
			if err != nil {
				return fmt.Errorf("marshal summary %s: %w", a.ID, err)
			}
			insert = insert.Values(a.ID, i, a.Title, a.Journal, string(authors), a.PubDate, a.Abstract, a.DOILink, a.IsTrial, summary)
		}
		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert articles: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// List returns the set in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]domain.Article, error) {
	rows, err := r.sb.Select(articleColumns...).
		From(articlesTable).
		OrderBy("position").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	articles := make([]domain.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		articles = append(articles, article)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return articles, nil
}

// Get returns one article or domain.ErrArticleNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (domain.Article, error) {
	row := r.sb.Select(articleColumns...).
		From(articlesTable).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		QueryRowContext(ctx)

	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, fmt.Errorf("%w: %s", domain.ErrArticleNotFound, id)
	}
	return article, err
}

// SetSummary writes the synopsis only if the slot is still empty.
func (r *SQLiteRepository) SetSummary(ctx context.Context, id string, summary domain.AISummary) (bool, error) {
	payload, err := marshalSummary(&summary)
	if err != nil {
		return false, fmt.Errorf("marshal summary %s: %w", id, err)
	}

	res, err := r.sb.Update(articlesTable).
		Set("summary", payload).
		Where(sq.Eq{"id": id, "summary": nil}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("update summary %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		a       domain.Article
		authors string
		summary sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Journal, &authors, &a.PubDate, &a.Abstract, &a.DOILink, &a.IsTrial, &summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Article{}, err
		}
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	if err := json.Unmarshal([]byte(authors), &a.Authors); err != nil {
		return domain.Article{}, fmt.Errorf("decode authors %s: %w", a.ID, err)
	}
	if summary.Valid {
		var s domain.AISummary
		if err := json.Unmarshal([]byte(summary.String), &s); err != nil {
			return domain.Article{}, fmt.Errorf("decode summary %s: %w", a.ID, err)
		}
		a.CachedSummary = &s
	}
	return a, nil
}

func marshalSummary(s *domain.AISummary) (any, error) {
	if s == nil {
		return nil, nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
