package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/models"
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

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}

func cleanupStylist(t *testing.T, db database.DB, id int64) {
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = db.ExecContext(ctx, "DELETE FROM stylist_celebrity WHERE stylist_id = $1", id)
		_, _ = db.ExecContext(ctx, "DELETE FROM stylist_reps WHERE stylist_id = $1", id)
		_, _ = db.ExecContext(ctx, "DELETE FROM stylists WHERE id = $1", id)
	})
}

func cleanupCelebrity(t *testing.T, db database.DB, id int64) {
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = db.ExecContext(ctx, "DELETE FROM stylist_celebrity WHERE celebrity_id = $1", id)
		_, _ = db.ExecContext(ctx, "DELETE FROM celebrities WHERE id = $1", id)
	})
}

func createTestStylist(t *testing.T, db database.DB, repo *StylistRepository, name string) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), models.CreateStylistRequest{FullName: name})
	require.NoError(t, err)
	cleanupStylist(t, db, id)
	return id
}

func TestStylistRepositoryListPagination(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))
	ctx := context.Background()

	prefix := uniqueName("Paging Stylist")
	ids := make([]int64, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, createTestStylist(t, db, repo, fmt.Sprintf("%s %d", prefix, i)))
	}

	page1, err := repo.List(ctx, ListStylistsParams{
		Page:      1,
		PerPage:   2,
		Search:    prefix,
		SortBy:    "id",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, page1.Meta.Total)
	assert.Equal(t, 3, page1.Meta.TotalPages)
	require.Len(t, page1.Items, 2)
	assert.Equal(t, ids[0], page1.Items[0].ID)
	assert.Equal(t, ids[1], page1.Items[1].ID)

	page3, err := repo.List(ctx, ListStylistsParams{
		Page:      3,
		PerPage:   2,
		Search:    prefix,
		SortBy:    "id",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.Equal(t, ids[4], page3.Items[0].ID)

	empty, err := repo.List(ctx, ListStylistsParams{
		Page:    1,
		PerPage: 10,
		Search:  uniqueName("No Such Stylist"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Meta.Total)
	assert.Equal(t, 0, empty.Meta.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestStylistRepositoryListSearchEscapesWildcards(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))
	ctx := context.Background()

	marker := fmt.Sprintf("%d", time.Now().UnixNano())
	createTestStylist(t, db, repo, "Escape 100% Legit "+marker)
	createTestStylist(t, db, repo, "Escape Wildcard Bait "+marker)

	result, err := repo.List(ctx, ListStylistsParams{Page: 1, PerPage: 10, Search: "100% legit " + marker})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Meta.Total)

	// a literal % in the needle must not act as a wildcard
	result, err = repo.List(ctx, ListStylistsParams{Page: 1, PerPage: 10, Search: "escape %" + marker})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Meta.Total)
}

func TestStylistRepositoryCelebrityFilter(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))
	ctx := context.Background()

	prefix := uniqueName("Filter Stylist")
	linked := createTestStylist(t, db, repo, prefix+" linked")
	createTestStylist(t, db, repo, prefix+" unlinked")

	// two celebrities sharing a name needle, both linked to the same stylist
	needle := uniqueName("Filter Needle")
	nameOne := needle + " one"
	nameTwo := needle + " two"
	celebOne, err := repo.AttachCelebrity(ctx, linked, models.AttachCelebrityRequest{CelebrityName: &nameOne})
	require.NoError(t, err)
	cleanupCelebrity(t, db, celebOne)
	celebTwo, err := repo.AttachCelebrity(ctx, linked, models.AttachCelebrityRequest{CelebrityName: &nameTwo})
	require.NoError(t, err)
	cleanupCelebrity(t, db, celebTwo)

	// numeric filter matches by celebrity id
	byID, err := repo.List(ctx, ListStylistsParams{
		Page:            1,
		PerPage:         10,
		Search:          prefix,
		CelebrityFilter: fmt.Sprintf("%d", celebOne),
	})
	require.NoError(t, err)
	require.Equal(t, 1, byID.Meta.Total)
	assert.Equal(t, linked, byID.Items[0].ID)
	assert.Equal(t, 2, byID.Items[0].CelebrityCount)

	// text filter matching both linked celebrities must not double-count
	// the stylist
	byName, err := repo.List(ctx, ListStylistsParams{
		Page:            1,
		PerPage:         10,
		Search:          prefix,
		CelebrityFilter: needle,
	})
	require.NoError(t, err)
	require.Equal(t, 1, byName.Meta.Total)
	require.Len(t, byName.Items, 1)
	assert.Equal(t, linked, byName.Items[0].ID)
	assert.Equal(t, 2, byName.Items[0].CelebrityCount)
}

func TestStylistRepositoryListSearchMatchesNameOnly(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))
	ctx := context.Background()

	marker := fmt.Sprintf("%d", time.Now().UnixNano())
	email := fmt.Sprintf("needle-%s@example.com", marker)
	id, err := repo.Create(ctx, models.CreateStylistRequest{
		FullName: "Name Only Stylist " + marker,
		Email:    &email,
	})
	require.NoError(t, err)
	cleanupStylist(t, db, id)

	// the needle appears only in the email, so the search must not match
	result, err := repo.List(ctx, ListStylistsParams{Page: 1, PerPage: 10, Search: "needle-" + marker})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Meta.Total)

	result, err = repo.List(ctx, ListStylistsParams{Page: 1, PerPage: 10, Search: "name only stylist " + marker})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Meta.Total)
}

func TestStylistRepositoryGet(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))
	reps := NewRepRepository(db, getTestLogger(t))
	ctx := context.Background()

	name := uniqueName("Detail Stylist")
	id := createTestStylist(t, db, repo, name)

	celebName := uniqueName("Detail Celebrity")
	notes := "met at fashion week"
	celebID, err := repo.AttachCelebrity(ctx, id, models.AttachCelebrityRequest{CelebrityName: &celebName, Notes: &notes})
	require.NoError(t, err)
	cleanupCelebrity(t, db, celebID)

	_, err = reps.Add(ctx, id, models.CreateRepRequest{RepName: "Zed Agent"})
	require.NoError(t, err)
	_, err = reps.Add(ctx, id, models.CreateRepRequest{RepName: "Amy Agent"})
	require.NoError(t, err)

	detail, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, name, detail.FullName)

	require.Len(t, detail.Celebrities, 1)
	assert.Equal(t, celebID, detail.Celebrities[0].ID)
	require.NotNil(t, detail.Celebrities[0].Notes)
	assert.Equal(t, notes, *detail.Celebrities[0].Notes)

	// reps come back ordered by name
	require.Len(t, detail.Reps, 2)
	assert.Equal(t, "Amy Agent", detail.Reps[0].RepName)
	assert.Equal(t, "Zed Agent", detail.Reps[1].RepName)
}

func TestStylistRepositoryGetAbsent(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))

	detail, err := repo.Get(context.Background(), 1<<60)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestStylistRepositoryUpdate(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))
	ctx := context.Background()

	id := createTestStylist(t, db, repo, uniqueName("Update Stylist"))

	before, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, before)

	// empty update is rejected and leaves updated_at alone
	_, err = repo.Update(ctx, id, models.UpdateStylistRequest{})
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))

	unchanged, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, unchanged.UpdatedAt.Equal(before.UpdatedAt))

	email := "updated@example.com"
	ok, err := repo.Update(ctx, id, models.UpdateStylistRequest{Email: &email})
	require.NoError(t, err)
	assert.True(t, ok)

	after, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, after.Email)
	assert.Equal(t, email, *after.Email)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	// update against a missing id reports no match
	ok, err = repo.Update(ctx, 1<<60, models.UpdateStylistRequest{Email: &email})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStylistRepositoryAttachDetach(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))
	ctx := context.Background()

	id := createTestStylist(t, db, repo, uniqueName("Attach Stylist"))

	name := uniqueName("Attach Celebrity")
	celebID, err := repo.AttachCelebrity(ctx, id, models.AttachCelebrityRequest{CelebrityName: &name})
	require.NoError(t, err)
	require.NotZero(t, celebID)
	cleanupCelebrity(t, db, celebID)

	// attaching the same name again reuses the celebrity and the link
	again, err := repo.AttachCelebrity(ctx, id, models.AttachCelebrityRequest{CelebrityName: &name})
	require.NoError(t, err)
	assert.Equal(t, celebID, again)

	var linkCount int
	require.NoError(t, db.GetContext(ctx, &linkCount,
		"SELECT COUNT(*) FROM stylist_celebrity WHERE stylist_id = $1 AND celebrity_id = $2", id, celebID))
	assert.Equal(t, 1, linkCount)

	// attach by id with an unknown celebrity is a 404
	_, err = repo.AttachCelebrity(ctx, id, models.AttachCelebrityRequest{CelebrityID: ptr(int64(1 << 60))})
	require.Error(t, err)
	assert.Equal(t, 404, httperror.GetStatusCode(err))

	// neither id nor name is a validation failure
	_, err = repo.AttachCelebrity(ctx, id, models.AttachCelebrityRequest{})
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))

	ok, err := repo.DetachCelebrity(ctx, id, celebID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DetachCelebrity(ctx, id, celebID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStylistRepositoryExists(t *testing.T) {
	db := getTestDB(t)
	repo := NewStylistRepository(db, getTestLogger(t))
	ctx := context.Background()

	id := createTestStylist(t, db, repo, uniqueName("Exists Stylist"))

	exists, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, 1<<60)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCelebrityRepositoryListAndGet(t *testing.T) {
	db := getTestDB(t)
	stylists := NewStylistRepository(db, getTestLogger(t))
	celebrities := NewCelebrityRepository(db, getTestLogger(t))
	ctx := context.Background()

	stylistName := uniqueName("Linked Stylist")
	stylistID := createTestStylist(t, db, stylists, stylistName)

	celebName := uniqueName("Listed Celebrity")
	celebID, err := stylists.AttachCelebrity(ctx, stylistID, models.AttachCelebrityRequest{CelebrityName: &celebName})
	require.NoError(t, err)
	cleanupCelebrity(t, db, celebID)

	list, err := celebrities.List(ctx, ListCelebritiesParams{Page: 1, PerPage: 10, Search: celebName})
	require.NoError(t, err)
	require.Equal(t, 1, list.Meta.Total)
	assert.Equal(t, celebID, list.Items[0].ID)
	assert.Equal(t, 1, list.Items[0].StylistCount)

	detail, err := celebrities.Get(ctx, celebID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, celebName, detail.FullName)
	require.Len(t, detail.Stylists, 1)
	assert.Equal(t, stylistID, detail.Stylists[0].ID)

	absent, err := celebrities.Get(ctx, 1<<60)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestCelebrityRepositoryListCelebrityIDFilter(t *testing.T) {
	db := getTestDB(t)
	stylists := NewStylistRepository(db, getTestLogger(t))
	celebrities := NewCelebrityRepository(db, getTestLogger(t))
	ctx := context.Background()

	stylistID := createTestStylist(t, db, stylists, uniqueName("ID Filter Owner"))

	needle := uniqueName("ID Filter Celebrity")
	nameOne := needle + " one"
	nameTwo := needle + " two"
	celebOne, err := stylists.AttachCelebrity(ctx, stylistID, models.AttachCelebrityRequest{CelebrityName: &nameOne})
	require.NoError(t, err)
	cleanupCelebrity(t, db, celebOne)
	celebTwo, err := stylists.AttachCelebrity(ctx, stylistID, models.AttachCelebrityRequest{CelebrityName: &nameTwo})
	require.NoError(t, err)
	cleanupCelebrity(t, db, celebTwo)

	// the id filter narrows the needle match to a single celebrity
	result, err := celebrities.List(ctx, ListCelebritiesParams{
		Page:        1,
		PerPage:     10,
		Search:      needle,
		CelebrityID: &celebTwo,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Meta.Total)
	assert.Equal(t, celebTwo, result.Items[0].ID)

	// an id matching nothing yields an empty page
	missing := int64(1 << 60)
	result, err = celebrities.List(ctx, ListCelebritiesParams{Page: 1, PerPage: 10, CelebrityID: &missing})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Meta.Total)
	assert.Empty(t, result.Items)
}

func TestCelebrityRepositoryUpdate(t *testing.T) {
	db := getTestDB(t)
	stylists := NewStylistRepository(db, getTestLogger(t))
	celebrities := NewCelebrityRepository(db, getTestLogger(t))
	ctx := context.Background()

	stylistID := createTestStylist(t, db, stylists, uniqueName("Update Celebrity Owner"))

	celebName := uniqueName("Updatable Celebrity")
	celebID, err := stylists.AttachCelebrity(ctx, stylistID, models.AttachCelebrityRequest{CelebrityName: &celebName})
	require.NoError(t, err)
	cleanupCelebrity(t, db, celebID)

	_, err = celebrities.Update(ctx, celebID, models.UpdateCelebrityRequest{})
	require.Error(t, err)
	assert.Equal(t, 400, httperror.GetStatusCode(err))

	industry := "Music"
	ok, err := celebrities.Update(ctx, celebID, models.UpdateCelebrityRequest{Industry: &industry})
	require.NoError(t, err)
	assert.True(t, ok)

	detail, err := celebrities.Get(ctx, celebID)
	require.NoError(t, err)
	require.NotNil(t, detail.Industry)
	assert.Equal(t, industry, *detail.Industry)
}

func TestCelebrityRepositoryOptions(t *testing.T) {
	db := getTestDB(t)
	stylists := NewStylistRepository(db, getTestLogger(t))
	celebrities := NewCelebrityRepository(db, getTestLogger(t))
	ctx := context.Background()

	stylistID := createTestStylist(t, db, stylists, uniqueName("Options Owner"))

	celebName := uniqueName("Options Celebrity")
	celebID, err := stylists.AttachCelebrity(ctx, stylistID, models.AttachCelebrityRequest{CelebrityName: &celebName})
	require.NoError(t, err)
	cleanupCelebrity(t, db, celebID)

	options, err := celebrities.Options(ctx, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(options), DefaultOptionsLimit)

	options, err = celebrities.Options(ctx, MaxOptionsLimit*5)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(options), MaxOptionsLimit)
}

func TestRepRepositoryAddDelete(t *testing.T) {
	db := getTestDB(t)
	stylists := NewStylistRepository(db, getTestLogger(t))
	reps := NewRepRepository(db, getTestLogger(t))
	ctx := context.Background()

	stylistID := createTestStylist(t, db, stylists, uniqueName("Rep Owner"))

	company := "Big Agency"
	repID, err := reps.Add(ctx, stylistID, models.CreateRepRequest{RepName: "First Agent", Company: &company})
	require.NoError(t, err)
	require.NotZero(t, repID)

	ok, err := reps.Delete(ctx, repID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reps.Delete(ctx, repID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func ptr[T any](v T) *T {
	return &v
}
