package sqlstore

import (
	"context"
	"encoding/json"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/model"
)

type postRepo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
	t  config.PostsTable
}

func newPostRepo(db *sqlx.DB, sb sq.StatementBuilderType, t config.PostsTable) Post {
	return &postRepo{
		db: db,
		sb: sb,
		t:  t,
	}
}

func (r *postRepo) Insert(ctx context.Context, post *model.Post) error {
	contextJSON, err := json.Marshal(post.Context)
	if err != nil {
		return ErrMalformedRow
	}
	ipsJSON, err := json.Marshal(post.IPs)
	if err != nil {
		return ErrMalformedRow
	}

	query, args, err := r.sb.
		Insert(r.t.TableName).
		Columns(r.t.ID, r.t.Slug, r.t.Password, r.t.Content, r.t.DatePublished, r.t.DateEdited, r.t.Context, r.t.IPs).
		Values(
			post.ID,
			post.Slug,
			post.Password,
			post.Content,
			strconv.FormatInt(post.DatePublished, 10),
			strconv.FormatInt(post.DateEdited, 10),
			string(contextJSON),
			string(ipsJSON),
		).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *postRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	query, args, err := r.sb.
		Select(r.t.ID, r.t.Slug, r.t.Password, r.t.Content, r.t.DatePublished, r.t.DateEdited, r.t.Context, r.t.IPs).
		From(r.t.TableName).
		Where(sq.Eq{r.t.Slug: slug}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		post          model.Post
		datePublished string
		dateEdited    string
		contextJSON   string
		ipsJSON       string
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&post.ID,
		&post.Slug,
		&post.Password,
		&post.Content,
		&datePublished,
		&dateEdited,
		&contextJSON,
		&ipsJSON,
	); err != nil {
		return nil, err
	}

	if post.DatePublished, err = strconv.ParseInt(datePublished, 10, 64); err != nil {
		return nil, ErrMalformedRow
	}
	if post.DateEdited, err = strconv.ParseInt(dateEdited, 10, 64); err != nil {
		return nil, ErrMalformedRow
	}
	if err := json.Unmarshal([]byte(contextJSON), &post.Context); err != nil {
		return nil, ErrMalformedRow
	}
	if err := json.Unmarshal([]byte(ipsJSON), &post.IPs); err != nil {
		return nil, ErrMalformedRow
	}

	return &post, nil
}

// PostUpdate is everything Edit rewrites in a single statement.
type PostUpdate struct {
	Content    string
	Password   string
	Slug       string
	DateEdited int64
	IPs        []model.IPLog
}

func (r *postRepo) Update(ctx context.Context, slug string, update PostUpdate) error {
	ipsJSON, err := json.Marshal(update.IPs)
	if err != nil {
		return ErrMalformedRow
	}

	query, args, err := r.sb.
		Update(r.t.TableName).
		Set(r.t.Content, update.Content).
		Set(r.t.Password, update.Password).
		Set(r.t.Slug, update.Slug).
		Set(r.t.DateEdited, strconv.FormatInt(update.DateEdited, 10)).
		Set(r.t.IPs, string(ipsJSON)).
		Where(sq.Eq{r.t.Slug: slug}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *postRepo) UpdateContext(ctx context.Context, slug string, context model.PostContext) error {
	contextJSON, err := json.Marshal(context)
	if err != nil {
		return ErrMalformedRow
	}

	query, args, err := r.sb.
		Update(r.t.TableName).
		Set(r.t.Context, string(contextJSON)).
		Where(sq.Eq{r.t.Slug: slug}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *postRepo) Delete(ctx context.Context, slug string) error {
	query, args, err := r.sb.
		Delete(r.t.TableName).
		Where(sq.Eq{r.t.Slug: slug}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
