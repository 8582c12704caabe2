package test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"featuredflags/entity"
	"featuredflags/migrations"
	"featuredflags/pkg/logger"
	"featuredflags/repository"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const containerStartupTimeout = 60 * time.Second

// TestDB wraps a test database connection
type TestDB struct {
	DB *sqlx.DB
}

// SetupTestDB starts a Postgres container and runs migrations
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	if os.Getenv("TESTCONTAINERS_RYUK_DISABLED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	}

	container, err := postgresmodule.Run(ctx, "postgres:15-alpine",
		postgresmodule.WithDatabase("featuredflags_test"),
		postgresmodule.WithUsername("featuredflags"),
		postgresmodule.WithPassword("featuredflags"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(containerStartupTimeout),
		),
	)
	require.NoError(t, err, "Failed to start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get postgres connection string")

	db, err := sqlx.Connect("postgres", connStr)
	require.NoError(t, err, "Failed to connect to test database")

	err = migrations.RunMigrations(db.DB, migrationsDir())
	require.NoError(t, err, "Failed to run test migrations")

	return &TestDB{DB: db}
}

// SetupTestRedis starts a Redis container and returns a connected client
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := redismodule.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "Failed to start redis container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get redis uri")

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err, "Failed to parse redis uri")

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(pingCtx).Err(), "Failed to ping redis")

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

// Close closes the test database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// CleanTables removes all data from tables (for test isolation)
func (tdb *TestDB) CleanTables(t *testing.T) {
	_, err := tdb.DB.Exec("TRUNCATE TABLE " + repository.TableName + " RESTART IDENTITY")
	require.NoError(t, err, "Failed to clean test tables")
}

// InsertRule writes a rule row and returns it with its id
func (tdb *TestDB) InsertRule(t *testing.T, rule entity.Rule) entity.Rule {
	query := `INSERT INTO ` + repository.TableName + ` (name, status, start_date, end_date, params, return_params)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := tdb.DB.QueryRowContext(context.Background(), query,
		rule.Name, rule.Status, rule.StartDate, rule.EndDate, rule.Params, rule.ReturnParams,
	).Scan(&rule.ID)
	require.NoError(t, err, "Failed to insert test rule")
	return rule
}

// SeedFixtures inserts FixtureRules in order
func (tdb *TestDB) SeedFixtures(t *testing.T) {
	for _, rule := range FixtureRules() {
		tdb.InsertRule(t, rule)
	}
}

// GetTestLogger creates a test logger
func GetTestLogger() *logger.Logger {
	log, err := logger.New("debug", "development")
	if err != nil {
		panic(fmt.Sprintf("Failed to create test logger: %v", err))
	}
	return log
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "migrations")
}
