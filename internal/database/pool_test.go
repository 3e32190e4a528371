package database

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/TaskArena_Go/internal/testing/leaktest"
)

var testDBConnString string

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = setupContainer(context.Background())
	}

	code := m.Run()
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

// setupContainer starts postgres. Without Docker it returns an empty
// connection string and the integration tests skip.
func setupContainer(ctx context.Context) (string, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("taskarena_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}
}

func TestPool_ConcurrentAccessReleasesConnections(t *testing.T) {
	requireDB(t)
	ctx := t.Context()

	pool, err := NewPool(ctx, testDBConnString, 10, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	checker := leaktest.NewGoroutineChecker(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var got int
			if err := pool.QueryRow(ctx, "SELECT $1::int", id).Scan(&got); err != nil {
				t.Errorf("worker %d: %v", id, err)
				return
			}
			if got != id {
				t.Errorf("worker %d read %d", id, got)
			}
		}(i)
	}
	wg.Wait()

	_, err = pool.Exec(ctx, "SELECT * FROM nonexistent_table_xyz")
	assert.Error(t, err)

	assert.Equal(t, int32(0), pool.Stat().AcquiredConns(), "failed queries release their connection too")
	checker.Check(2)
}

func TestPool_MinConnsCappedByMax(t *testing.T) {
	requireDB(t)

	pool, err := NewPool(t.Context(), testDBConnString, 1, time.Minute, time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	assert.Equal(t, int32(1), pool.Config().MinConns)
	assert.Equal(t, int32(1), pool.Config().MaxConns)

	var app string
	require.NoError(t, pool.QueryRow(t.Context(), "SELECT current_setting('application_name')").Scan(&app))
	assert.Equal(t, ApplicationName, app)
}

func TestPoolHelpers(t *testing.T) {
	assert.Equal(t, int32(1), clampConns(0))
	assert.Equal(t, int32(7), clampConns(7))
	assert.Equal(t, int32(math.MaxInt32), clampConns(math.MaxInt32+1))

	assert.Equal(t, DefaultMaxConnIdleTime, orDefault(0, DefaultMaxConnIdleTime))
	assert.Equal(t, time.Second, orDefault(time.Second, DefaultMaxConnIdleTime))
}

// TestMigrate_Idempotent verifies the embedded migrations can be applied twice
func TestMigrate_Idempotent(t *testing.T) {
	requireDB(t)
	ctx := t.Context()

	require.NoError(t, Migrate(ctx, testDBConnString))
	require.NoError(t, Migrate(ctx, testDBConnString))

	pool, err := NewPool(ctx, testDBConnString, 2, time.Minute, time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	var count int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM information_schema.tables WHERE table_name IN ('characters', 'duels', 'raids')`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNewPool_InvalidConnString(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz", 2, time.Minute, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToParseConnString)
}
