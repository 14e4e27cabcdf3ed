package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pontaj/internal/domain/auth"
	"pontaj/internal/platform/config"
)

// Seed is idempotent: it creates the admin user once and leaves existing
// rows alone.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", cfg.SeedAdminEmail).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, name, role, password_hash, is_active)
    VALUES ($1, 'Administrator', $2, $3, true)
  `, cfg.SeedAdminEmail, auth.RoleAdmin, hash)
	return err
}
