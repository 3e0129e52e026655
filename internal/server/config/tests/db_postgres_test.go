package tests

import (
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/logger"
)

// Настройки пула переносятся в *sql.DB
func TestApplyPool_SetsLimits(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	config.ApplyPool(db, config.DBConfig{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: time.Minute,
	})

	require.Equal(t, 7, db.Stats().MaxOpenConnections)
}

// Интеграционный тест с настоящей DB
func TestInit_WithDSN(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping integration test")
	}

	err := config.Init(
		config.DBConfig{DSN: dsn},
		config.MigrationsConfig{Enabled: false},
		logger.Nop(),
	)
	require.NoError(t, err)

	db := config.GetDB()
	require.NotNil(t, db)
	t.Cleanup(func() { db.Close() })

	var x int
	err = db.QueryRow("SELECT 1").Scan(&x)
	require.NoError(t, err)
	require.Equal(t, 1, x)
}
