package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/identity"
	"github.com/trisuaso/beambin/internal/model"
	"github.com/trisuaso/beambin/internal/repository"
	"github.com/trisuaso/beambin/internal/repository/redisrepo"
	"github.com/trisuaso/beambin/internal/repository/sqlstore"
	"github.com/trisuaso/beambin/pkg/utils"
	"go.uber.org/zap"
)

const (
	MIN_SLUG_LEN    = 3
	MAX_SLUG_LEN    = 250
	MIN_CONTENT_LEN = 1
	MAX_CONTENT_LEN = 200_000

	GENERATED_ID_LEN = 10

	MAX_IP_LOG = 10
)

// word characters, "_-.!" and pictographic symbols
var slugPattern = regexp.MustCompile(`^[\w\p{L}\p{N}\p{So}\-.!]+$`)

type postService struct {
	logger   *zap.Logger
	cfg      *config.Config
	repo     *repository.Repository
	identity identity.Service
	views    viewCounter
}

func newPostService(logger *zap.Logger, cfg *config.Config, repo *repository.Repository, identity identity.Service) Post {
	s := &postService{
		logger:   logger,
		cfg:      cfg,
		repo:     repo,
		identity: identity,
	}

	// the counting strategy is fixed at construction; view operations never
	// branch on the mode anywhere else
	if cfg.ViewMode == model.ViewModeAuthenticatedOnce {
		s.views = newDurableViews(logger, cfg, repo)
	} else {
		s.views = newEphemeralViews(logger, cfg, repo)
	}

	return s
}

func validSlug(slug string) bool {
	if len(slug) < MIN_SLUG_LEN || len(slug) > MAX_SLUG_LEN {
		return false
	}
	return slugPattern.MatchString(slug)
}

func (s *postService) Create(ctx context.Context, slug string, content string, password string, ip string) (string, *model.Post, error) {
	normalized, err := utils.NormalizeSlug(slug)
	if err != nil {
		return "", nil, ErrValue
	}

	// make sure the post doesn't already exist
	if _, err := s.Get(ctx, normalized); err == nil {
		return "", nil, ErrAlreadyExists
	}

	if normalized == "" {
		normalized = utils.ShortID(GENERATED_ID_LEN)
	}
	if password == "" {
		password = utils.ShortID(GENERATED_ID_LEN)
	}

	if !validSlug(normalized) {
		return "", nil, ErrValue
	}
	if len(content) < MIN_CONTENT_LEN || len(content) > MAX_CONTENT_LEN {
		return "", nil, ErrValue
	}

	now := utils.EpochMilli()
	post := &model.Post{
		ID:            utils.RandomID(),
		Slug:          normalized,
		Content:       content,
		Password:      utils.Hash(password),
		DatePublished: now,
		DateEdited:    now,
		Context:       model.PostContext{},
		IPs:           []model.IPLog{{Timestamp: now, IP: ip}},
	}

	if err := s.repo.SQL.Post.Insert(ctx, post); err != nil {
		if errors.Is(err, sqlstore.ErrMalformedRow) {
			return "", nil, ErrValue
		}
		s.logger.Sugar().Errorf("failed to insert post(%s): %s", post.Slug, err.Error())
		return "", nil, ErrOther
	}

	// the plaintext password is surfaced here exactly once
	return password, post, nil
}

func (s *postService) Clone(ctx context.Context, source string, slug string, password string, ip string) (string, *model.Post, error) {
	normalized, err := utils.NormalizeSlug(slug)
	if err != nil {
		return "", nil, ErrValue
	}

	if _, err := s.Get(ctx, normalized); err == nil {
		return "", nil, ErrAlreadyExists
	}

	sourcePost, err := s.Get(ctx, source)
	if err != nil {
		return "", nil, err
	}

	if normalized == "" {
		normalized = utils.ShortID(GENERATED_ID_LEN)
	}
	if password == "" {
		password = utils.ShortID(GENERATED_ID_LEN)
	}

	if !validSlug(normalized) {
		return "", nil, ErrValue
	}

	now := utils.EpochMilli()
	post := &model.Post{
		ID:            utils.RandomID(),
		Slug:          normalized,
		Content:       sourcePost.Content,
		Password:      utils.Hash(password),
		DatePublished: now,
		DateEdited:    now,
		Context:       model.TemplateContext(sourcePost),
		IPs:           []model.IPLog{{Timestamp: now, IP: ip}},
	}

	if err := s.repo.SQL.Post.Insert(ctx, post); err != nil {
		if errors.Is(err, sqlstore.ErrMalformedRow) {
			return "", nil, ErrValue
		}
		s.logger.Sugar().Errorf("failed to insert post(%s) cloned from(%s): %s", post.Slug, sourcePost.Slug, err.Error())
		return "", nil, ErrOther
	}

	return password, post, nil
}

func (s *postService) Get(ctx context.Context, slug string) (*model.Post, error) {
	normalized, err := utils.NormalizeSlug(slug)
	if err != nil {
		return nil, ErrValue
	}

	key := redisrepo.PostKey(s.cfg.TablePosts.Prefix, normalized)
	cached, err := redisrepo.Get[model.Post](s.repo.Redis.Default, ctx, key)
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%s) from cache: %s", normalized, err.Error())
		return nil, ErrOther
	}

	post, err := s.repo.SQL.Post.FindBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, sqlstore.ErrMalformedRow) {
			return nil, ErrValue
		}
		s.logger.Sugar().Errorf("failed to find post(%s): %s", normalized, err.Error())
		return nil, ErrOther
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, post, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%s) in cache: %s", normalized, err.Error())
		return nil, ErrOther
	}

	return post, nil
}

func (s *postService) Edit(ctx context.Context, slug string, ip string, password string, newContent string, newSlug string, newPassword string, actor *model.Profile) error {
	normalized, err := utils.NormalizeSlug(slug)
	if err != nil {
		return ErrValue
	}

	existing, err := s.Get(ctx, normalized)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, existing, password, actor, "Edited a post"); err != nil {
		return err
	}

	passwordHash := existing.Password
	if newPassword != "" {
		passwordHash = utils.Hash(newPassword)
	}

	if newSlug == "" {
		newSlug = existing.Slug
	}
	newSlug, err = utils.NormalizeSlug(newSlug)
	if err != nil {
		return ErrValue
	}

	ips := append(existing.IPs, model.IPLog{Timestamp: utils.EpochMilli(), IP: ip})
	if len(ips) > MAX_IP_LOG {
		ips = ips[len(ips)-MAX_IP_LOG:]
	}

	update := sqlstore.PostUpdate{
		Content:    newContent,
		Password:   passwordHash,
		Slug:       newSlug,
		DateEdited: utils.EpochMilli(),
		IPs:        ips,
	}
	if err := s.repo.SQL.Post.Update(ctx, normalized, update); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%s): %s", normalized, err.Error())
		return ErrOther
	}

	// only the old key is dropped; a renamed post is a fresh miss under its
	// new slug
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(s.cfg.TablePosts.Prefix, normalized)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%s) in cache: %s", normalized, err.Error())
		return ErrOther
	}

	return nil
}

func (s *postService) EditContext(ctx context.Context, slug string, password string, context model.PostContext, actor *model.Profile) error {
	normalized, err := utils.NormalizeSlug(slug)
	if err != nil {
		return ErrValue
	}

	existing, err := s.Get(ctx, normalized)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, existing, password, actor, "Edited a post's context"); err != nil {
		return err
	}

	if err := s.repo.SQL.Post.UpdateContext(ctx, normalized, context); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%s) context: %s", normalized, err.Error())
		return ErrOther
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(s.cfg.TablePosts.Prefix, normalized)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%s) in cache: %s", normalized, err.Error())
		return ErrOther
	}

	return nil
}

func (s *postService) Delete(ctx context.Context, slug string, password string, actor *model.Profile) error {
	normalized, err := utils.NormalizeSlug(slug)
	if err != nil {
		return ErrValue
	}

	existing, err := s.Get(ctx, normalized)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, existing, password, actor, "Deleted a post"); err != nil {
		return err
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.ViewsKey(s.cfg.TableViews.Prefix, normalized)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to remove post(%s) view counter: %s", normalized, err.Error())
		return ErrOther
	}

	if err := s.repo.SQL.Post.Delete(ctx, normalized); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", normalized, err.Error())
		return ErrOther
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(s.cfg.TablePosts.Prefix, normalized)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to remove post(%s) from cache: %s", normalized, err.Error())
		return ErrOther
	}

	// the primary row is already gone if this fails; the caller has to treat
	// the error as needing reconciliation
	if err := s.views.Purge(ctx, normalized); err != nil {
		return ErrOther
	}

	return nil
}

func (s *postService) ViewCount(ctx context.Context, slug string) (int64, error) {
	normalized, err := utils.NormalizeSlug(slug)
	if err != nil {
		return 0, ErrValue
	}

	return s.views.Count(ctx, normalized)
}

func (s *postService) RecordView(ctx context.Context, slug string, viewerID string) error {
	normalized, err := utils.NormalizeSlug(slug)
	if err != nil {
		return ErrValue
	}

	return s.views.Record(ctx, normalized, viewerID)
}
