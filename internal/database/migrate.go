package database

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/config"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate runs embedded goose migrations against the configured database.
// goose wants database/sql, so a short-lived stdlib connection is used.
func Migrate(cfg config.Config) error {
	db, err := sql.Open("pgx", cfg.DBURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
