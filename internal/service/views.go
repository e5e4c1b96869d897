package service

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/repository"
	"github.com/trisuaso/beambin/internal/repository/redisrepo"
	"go.uber.org/zap"
)

// viewCounter is the pluggable counting strategy. The cached counter key is
// shared by both variants; Purge only has to clean up durable backing, the
// engine owns the cache keys.
type viewCounter interface {
	Count(ctx context.Context, slug string) (int64, error)
	Record(ctx context.Context, slug string, viewerID string) error
	Purge(ctx context.Context, slug string) error
}

// ephemeralViews counts anybody any number of times. Counters live only in
// the cache layer and reset with it; that loss is the mode's contract, not
// a bug.
type ephemeralViews struct {
	logger *zap.Logger
	cfg    *config.Config
	repo   *repository.Repository
}

func newEphemeralViews(logger *zap.Logger, cfg *config.Config, repo *repository.Repository) viewCounter {
	return &ephemeralViews{
		logger: logger,
		cfg:    cfg,
		repo:   repo,
	}
}

func (v *ephemeralViews) Count(ctx context.Context, slug string) (int64, error) {
	count, err := redisrepo.GetInt64(v.repo.Redis.Default, ctx, redisrepo.ViewsKey(v.cfg.TableViews.Prefix, slug))
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		v.logger.Sugar().Errorf("failed to get view counter for post(%s): %s", slug, err.Error())
		return 0, ErrOther
	}

	return count, nil
}

func (v *ephemeralViews) Record(ctx context.Context, slug string, viewerID string) error {
	if err := v.repo.Redis.Default.Incr(ctx, redisrepo.ViewsKey(v.cfg.TableViews.Prefix, slug)).Err(); err != nil {
		v.logger.Sugar().Errorf("failed to increment view counter for post(%s): %s", slug, err.Error())
		return ErrOther
	}

	return nil
}

func (v *ephemeralViews) Purge(ctx context.Context, slug string) error {
	return nil
}

// durableViews counts each viewer once, backed by the view-log table; the
// cached counter is only a memo over the row count.
type durableViews struct {
	logger *zap.Logger
	cfg    *config.Config
	repo   *repository.Repository
}

func newDurableViews(logger *zap.Logger, cfg *config.Config, repo *repository.Repository) viewCounter {
	return &durableViews{
		logger: logger,
		cfg:    cfg,
		repo:   repo,
	}
}

func (v *durableViews) Count(ctx context.Context, slug string) (int64, error) {
	key := redisrepo.ViewsKey(v.cfg.TableViews.Prefix, slug)

	count, err := redisrepo.GetInt64(v.repo.Redis.Default, ctx, key)
	if err == nil {
		return count, nil
	}
	if err != redis.Nil {
		v.logger.Sugar().Errorf("failed to get view counter for post(%s): %s", slug, err.Error())
		return 0, ErrOther
	}

	count, err = v.repo.SQL.Views.CountBySlug(ctx, slug)
	if err != nil {
		v.logger.Sugar().Errorf("failed to count views for post(%s): %s", slug, err.Error())
		return 0, ErrOther
	}

	if err := v.repo.Redis.Default.Set(ctx, key, strconv.FormatInt(count, 10), 0); err != nil {
		v.logger.Sugar().Errorf("failed to cache view count for post(%s): %s", slug, err.Error())
		return 0, ErrOther
	}

	return count, nil
}

func (v *durableViews) Record(ctx context.Context, slug string, viewerID string) error {
	// anonymous viewers never count in this mode
	if viewerID == "" {
		return nil
	}

	viewed, err := v.repo.SQL.Views.HasViewed(ctx, slug, viewerID)
	if err != nil {
		v.logger.Sugar().Errorf("failed to check view log for post(%s): %s", slug, err.Error())
		return ErrOther
	}
	if viewed {
		return nil
	}

	if err := v.repo.SQL.Views.Insert(ctx, slug, viewerID); err != nil {
		v.logger.Sugar().Errorf("failed to record view for post(%s): %s", slug, err.Error())
		return ErrOther
	}

	// drop the memo so the next count reads the log
	if err := v.repo.Redis.Default.Del(ctx, redisrepo.ViewsKey(v.cfg.TableViews.Prefix, slug)).Err(); err != nil {
		v.logger.Sugar().Errorf("failed to invalidate view counter for post(%s): %s", slug, err.Error())
		return ErrOther
	}

	return nil
}

func (v *durableViews) Purge(ctx context.Context, slug string) error {
	if err := v.repo.SQL.Views.DeleteBySlug(ctx, slug); err != nil {
		v.logger.Sugar().Errorf("failed to delete view log for post(%s): %s", slug, err.Error())
		return err
	}

	return nil
}
