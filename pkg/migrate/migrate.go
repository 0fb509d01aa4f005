package migrate

import (
	"context"
	"embed"
	"fmt"
	"recommendationService/pkg/logger"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"

	dir = "migrations"
)

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Debug(fmt.Sprintf(format, v...))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Fatal(fmt.Sprintf(format, v...))
}

// Up applies every embedded migration that has not run yet.
func Up(ctx context.Context, db *gorm.DB, dialect string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	return nil
}
