package service

import (
	"context"

	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/identity"
	"github.com/trisuaso/beambin/internal/model"
	"github.com/trisuaso/beambin/internal/repository"
	"go.uber.org/zap"
)

type Post interface {
	Create(ctx context.Context, slug string, content string, password string, ip string) (string, *model.Post, error)
	Clone(ctx context.Context, source string, slug string, password string, ip string) (string, *model.Post, error)
	Get(ctx context.Context, slug string) (*model.Post, error)
	Edit(ctx context.Context, slug string, ip string, password string, newContent string, newSlug string, newPassword string, actor *model.Profile) error
	EditContext(ctx context.Context, slug string, password string, context model.PostContext, actor *model.Profile) error
	Delete(ctx context.Context, slug string, password string, actor *model.Profile) error
	ViewCount(ctx context.Context, slug string) (int64, error)
	RecordView(ctx context.Context, slug string, viewerID string) error
}

type Service struct {
	Post
}

func New(logger *zap.Logger, cfg *config.Config, repo *repository.Repository, identity identity.Service) *Service {
	return &Service{
		Post: newPostService(logger, cfg, repo, identity),
	}
}
