package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/trisuaso/beambin/internal/config"
)

// The view-log table has fixed physical columns (slug, id); only its table
// name is remappable. Rows carry no uniqueness constraint, deduplication is
// a query-time concern.
type viewsRepo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
	t  config.ViewsTable
}

func newViewsRepo(db *sqlx.DB, sb sq.StatementBuilderType, t config.ViewsTable) Views {
	return &viewsRepo{
		db: db,
		sb: sb,
		t:  t,
	}
}

func (r *viewsRepo) CountBySlug(ctx context.Context, slug string) (int64, error) {
	query, args, err := r.sb.
		Select("COUNT(*)").
		From(r.t.TableName).
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *viewsRepo) HasViewed(ctx context.Context, slug string, viewerID string) (bool, error) {
	query, args, err := r.sb.
		Select("COUNT(*)").
		From(r.t.TableName).
		Where(sq.Eq{"slug": slug, "id": viewerID}).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *viewsRepo) Insert(ctx context.Context, slug string, viewerID string) error {
	query, args, err := r.sb.
		Insert(r.t.TableName).
		Columns("slug", "id").
		Values(slug, viewerID).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *viewsRepo) DeleteBySlug(ctx context.Context, slug string) error {
	query, args, err := r.sb.
		Delete(r.t.TableName).
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
