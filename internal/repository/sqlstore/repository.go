package sqlstore

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// ErrMalformedRow marks a stored context/ips blob (or date column) that
// could not be decoded.
var ErrMalformedRow = errors.New("malformed post row")

type Post interface {
	Insert(ctx context.Context, post *model.Post) error
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	Update(ctx context.Context, slug string, update PostUpdate) error
	UpdateContext(ctx context.Context, slug string, context model.PostContext) error
	Delete(ctx context.Context, slug string) error
}

type Views interface {
	CountBySlug(ctx context.Context, slug string) (int64, error)
	HasViewed(ctx context.Context, slug string, viewerID string) (bool, error)
	Insert(ctx context.Context, slug string, viewerID string) error
	DeleteBySlug(ctx context.Context, slug string) error
}

type Repository struct {
	Post
	Views

	db  *sqlx.DB
	cfg *config.Config
}

func New(db *sqlx.DB, cfg *config.Config) *Repository {
	sb := sq.StatementBuilder.PlaceholderFormat(placeholderFormat(db.DriverName()))

	return &Repository{
		Post:  newPostRepo(db, sb, cfg.TablePosts),
		Views: newViewsRepo(db, sb, cfg.TableViews),
		db:    db,
		cfg:   cfg,
	}
}

// DB connects to the configured engine: postgres through the pgx stdlib
// driver, or sqlite through mattn/go-sqlite3.
func DB(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlx.ConnectContext(ctx, "sqlite3", cfg.SQLitePath)
	case "", "postgres":
		return sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}

func placeholderFormat(driver string) sq.PlaceholderFormat {
	if driver == "sqlite3" {
		return sq.Question
	}
	return sq.Dollar
}

// Init creates the posts table and, only under the authenticated_once view
// mode, the view-log table. Column types are all TEXT; dates are stored as
// stringified epoch milliseconds.
func (r *Repository) Init(ctx context.Context) error {
	t := r.cfg.TablePosts
	createPosts := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (
			%q TEXT,
			%q TEXT,
			%q TEXT,
			%q TEXT,
			%q TEXT,
			%q TEXT,
			%q TEXT,
			%q TEXT
		)`,
		t.TableName,
		t.ID, t.Slug, t.Password, t.Content, t.DatePublished, t.DateEdited, t.Context, t.IPs,
	)
	if _, err := r.db.ExecContext(ctx, createPosts); err != nil {
		return err
	}

	if r.cfg.ViewMode != model.ViewModeAuthenticatedOnce {
		return nil
	}

	createViews := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (
			slug TEXT,
			id   TEXT
		)`,
		r.cfg.TableViews.TableName,
	)
	_, err := r.db.ExecContext(ctx, createViews)
	return err
}
