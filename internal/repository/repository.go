package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/millbrook-pd/roster/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) txCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}
