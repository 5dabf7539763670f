package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"worksync/internal/auth"
	"worksync/internal/config"
)

// Seed provisions the bootstrap admin account. Idempotent: an existing
// account with the same email is left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if !cfg.RunSeed || cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	passwordHash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (uid, name, email, password_hash, role, status, is_verified)
    VALUES ('admin', 'Administrator', $1, $2, 'admin', 'active', true)
    ON CONFLICT (email) DO NOTHING
  `, cfg.SeedAdminEmail, passwordHash)
	return err
}
