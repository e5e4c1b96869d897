package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/repository/redisrepo"
	"github.com/trisuaso/beambin/internal/repository/sqlstore"
)

type Repository struct {
	SQL   *sqlstore.Repository
	Redis *redisrepo.Repository
}

func New(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *Repository {
	return &Repository{
		SQL:   sqlstore.New(db, cfg),
		Redis: redisrepo.New(rdb),
	}
}
