//go:build integration || e2e

// Package dbtest starts a throwaway postgres for integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"housing-coop-go/internal/config"
	"housing-coop-go/internal/db"
	"housing-coop-go/pkg/logger"
)

// Open returns a migrated, empty database. TEST_DB_DSN reuses an existing server instead of starting a container.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("coop"),
			postgres.WithUsername("coop"),
			postgres.WithPassword("coop"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			t.Fatalf("start postgres container: %v", err)
		}
		t.Cleanup(func() {
			if err := container.Terminate(context.Background()); err != nil {
				t.Logf("terminate container: %v", err)
			}
		})

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("connection string: %v", err)
		}
	}

	log := logger.Discard()
	dbConn, err := db.NewPostgres(config.DBConfig{DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetime: time.Minute}, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(dbConn) })

	if err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Truncate(dbConn); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return dbConn
}

func Truncate(dbConn *gorm.DB) error {
	return dbConn.Exec(`TRUNCATE TABLE bids, bidding_rounds, schedules, change_logs, transactions, funds, expenses,
		room_tenants, rooms, people, people_categories, households CASCADE`).Error
}
