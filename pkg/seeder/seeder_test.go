package seeder

import (
	"context"
	"math/rand"
	"os"
	"sync"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var migrateOnce sync.Once

func getTestLogger(t *testing.T) ectologger.Logger {
	t.Helper()
	zapLogger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=dahlia_test sslmode=disable"
	}

	sqlxDB, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)

	logger := getTestLogger(t)
	db := database.NewDatabaseInstance(sqlxDB, logger)

	migrateOnce.Do(func() {
		driver, err := postgres.WithInstance(db.Unsafe().DB, &postgres.Config{})
		require.NoError(t, err)

		migrationService := database.NewMigrationService(logger, &database.MigrationConfig{
			MigrationFolderPath: "../../db/pg",
		})
		require.NoError(t, migrationService.Migrate("dahlia_test", driver))
	})

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func count(t *testing.T, db database.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestSeederSeed(t *testing.T) {
	db := getTestDB(t)
	s := NewSeeder(db, getTestLogger(t), Config{
		ChunkSize:   2,
		MaxAttempts: 50,
		Rand:        rand.New(rand.NewSource(42)),
	})
	ctx := context.Background()

	stylistsBefore := count(t, db, "stylists")
	celebritiesBefore := count(t, db, "celebrities")
	linksBefore := count(t, db, "stylist_celebrity")

	linkTarget := linksBefore + 4

	result, err := s.Seed(ctx, SeedRequest{Stylists: 5, Celebrities: 3, Links: linkTarget})
	require.NoError(t, err)

	assert.Equal(t, 5, result.StylistsCreated)
	assert.Equal(t, 3, result.CelebritiesCreated)
	assert.Equal(t, 5, count(t, db, "stylists")-stylistsBefore)
	assert.Equal(t, 3, count(t, db, "celebrities")-celebritiesBefore)

	linksAfter := count(t, db, "stylist_celebrity")
	assert.Equal(t, result.LinksCreated, linksAfter-linksBefore)
	// batches oversubscribe so the target can overshoot by at most one batch
	assert.LessOrEqual(t, linksAfter, linkTarget+1)
	assert.LessOrEqual(t, result.LinkAttempts, 50)

	// a second run against a met target adds nothing
	again, err := s.Seed(ctx, SeedRequest{Links: linksAfter})
	require.NoError(t, err)
	assert.Equal(t, 0, again.LinksCreated)
	assert.Equal(t, linksAfter, count(t, db, "stylist_celebrity"))
}

func TestSeederTerminatesWhenPairsExhausted(t *testing.T) {
	db := getTestDB(t)
	s := NewSeeder(db, getTestLogger(t), Config{
		ChunkSize:   10,
		MaxAttempts: 5,
		Rand:        rand.New(rand.NewSource(7)),
	})
	ctx := context.Background()

	stylists := count(t, db, "stylists")
	celebrities := count(t, db, "celebrities")
	if stylists == 0 || celebrities == 0 {
		_, err := s.Seed(ctx, SeedRequest{Stylists: 2, Celebrities: 2})
		require.NoError(t, err)
		stylists = count(t, db, "stylists")
		celebrities = count(t, db, "celebrities")
	}

	// ask for more links than unique pairs exist; the attempt budget must
	// stop the run without an error
	result, err := s.Seed(ctx, SeedRequest{Links: stylists*celebrities + 1000})
	require.NoError(t, err)
	assert.LessOrEqual(t, result.LinkAttempts, 5)
	assert.LessOrEqual(t, count(t, db, "stylist_celebrity"), stylists*celebrities)
}

func TestSeederDefaults(t *testing.T) {
	s := NewSeeder(nil, nil, Config{})
	assert.Equal(t, defaultChunkSize, s.chunkSize)
	assert.Equal(t, defaultMaxAttempts, s.maxAttempts)
	assert.NotNil(t, s.rng)
}
