package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

const (
	defaultChunkSize   = 500
	defaultMaxAttempts = 200
)

var industries = []string{"Music", "Film/TV", "Sports", "Fashion"}

// SeedRequest asks for a number of synthetic stylists, celebrities and links
type SeedRequest struct {
	Stylists    int `json:"stylists" validate:"min=0"`
	Celebrities int `json:"celebrities" validate:"min=0"`
	Links       int `json:"links" validate:"min=0"`
}

// SeedResult reports what the seeder actually inserted. LinksCreated can be
// lower than requested when the attempt budget runs out before enough unique
// pairs are found.
type SeedResult struct {
	StylistsCreated    int   `json:"stylists_created"`
	CelebritiesCreated int   `json:"celebrities_created"`
	LinksCreated       int   `json:"links_created"`
	LinkAttempts       int   `json:"link_attempts"`
	DurationMS         int64 `json:"duration_ms"`
}

// Config tunes the seeder. The zero value gets the defaults; Rand is
// injectable for deterministic tests.
type Config struct {
	ChunkSize   int
	MaxAttempts int
	Rand        *rand.Rand
}

// Seeder bulk-inserts synthetic directory data. It only ever adds rows.
type Seeder struct {
	db          database.DB
	logger      ectologger.Logger
	rng         *rand.Rand
	chunkSize   int
	maxAttempts int
}

func NewSeeder(db database.DB, logger ectologger.Logger, cfg Config) *Seeder {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Seeder{
		db:          db,
		logger:      logger,
		rng:         cfg.Rand,
		chunkSize:   cfg.ChunkSize,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Seed inserts the requested synthetic rows. Stylists and celebrities are
// numbered after the current row count so repeated runs keep producing fresh
// names. The link count is treated as a target for the total number of link
// rows in the table.
func (s *Seeder) Seed(ctx context.Context, req SeedRequest) (*SeedResult, error) {
	ctx, span := tracing.StartSpan(ctx, "Seeder.Seed")
	defer span.End()

	start := time.Now()
	result := &SeedResult{}

	if req.Stylists > 0 {
		created, err := s.seedStylists(ctx, req.Stylists)
		if err != nil {
			return nil, err
		}
		result.StylistsCreated = created
	}

	if req.Celebrities > 0 {
		created, err := s.seedCelebrities(ctx, req.Celebrities)
		if err != nil {
			return nil, err
		}
		result.CelebritiesCreated = created
	}

	if req.Links > 0 {
		created, attempts, err := s.seedLinks(ctx, req.Links)
		if err != nil {
			return nil, err
		}
		result.LinksCreated = created
		result.LinkAttempts = attempts
	}

	result.DurationMS = time.Since(start).Milliseconds()

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"stylists_created":    result.StylistsCreated,
		"celebrities_created": result.CelebritiesCreated,
		"links_created":       result.LinksCreated,
		"link_attempts":       result.LinkAttempts,
		"duration_ms":         result.DurationMS,
	}).Info("Seed run complete")

	return result, nil
}

func (s *Seeder) seedStylists(ctx context.Context, count int) (int, error) {
	base, err := s.tableCount(ctx, "stylists")
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	created := 0
	for created < count {
		chunk := min(s.chunkSize, count-created)

		ib := database.NewInsertBuilder()
		ib.InsertInto("stylists")
		ib.Cols("full_name", "email", "phone", "instagram", "website", "created_at", "updated_at")
		for i := 0; i < chunk; i++ {
			n := base + created + i + 1
			ib.Values(
				fmt.Sprintf("Stylist %d", n),
				fmt.Sprintf("stylist%d@example.com", n),
				fmt.Sprintf("+1-555-%04d", n%10000),
				fmt.Sprintf("@stylist_%d", n),
				fmt.Sprintf("https://stylist%d.example.com", n),
				now,
				now,
			)
		}

		query, args := ib.Build()
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Failed to seed stylists")
			return created, httperror.WrapError(http.StatusInternalServerError, err)
		}

		created += chunk
		metrics.SeededRows.WithLabelValues("stylists").Add(float64(chunk))
	}

	return created, nil
}

func (s *Seeder) seedCelebrities(ctx context.Context, count int) (int, error) {
	base, err := s.tableCount(ctx, "celebrities")
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	created := 0
	for created < count {
		chunk := min(s.chunkSize, count-created)

		ib := database.NewInsertBuilder()
		ib.InsertInto("celebrities")
		ib.Cols("full_name", "industry", "created_at", "updated_at")
		for i := 0; i < chunk; i++ {
			n := base + created + i + 1
			ib.Values(
				fmt.Sprintf("Celebrity %d", n),
				industries[s.rng.Intn(len(industries))],
				now,
				now,
			)
		}

		query, args := ib.Build()
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Failed to seed celebrities")
			return created, httperror.WrapError(http.StatusInternalServerError, err)
		}

		created += chunk
		metrics.SeededRows.WithLabelValues("celebrities").Add(float64(chunk))
	}

	return created, nil
}

// seedLinks tops the link table up to the requested total with random unique
// (stylist, celebrity) pairs. Batches oversubscribe the remaining target a
// little since ON CONFLICT DO NOTHING drops duplicate pairs silently.
func (s *Seeder) seedLinks(ctx context.Context, target int) (int, int, error) {
	existing, err := s.tableCount(ctx, "stylist_celebrity")
	if err != nil {
		return 0, 0, err
	}

	remaining := target - existing
	if remaining <= 0 {
		return 0, 0, nil
	}

	stylistIDs, err := s.tableIDs(ctx, "stylists")
	if err != nil {
		return 0, 0, err
	}
	celebrityIDs, err := s.tableIDs(ctx, "celebrities")
	if err != nil {
		return 0, 0, err
	}
	if len(stylistIDs) == 0 || len(celebrityIDs) == 0 {
		s.logger.WithContext(ctx).Warn("No stylists or celebrities to link, skipping link seeding")
		return 0, 0, nil
	}

	created := 0
	attempts := 0
	noteNumber := existing
	for created < remaining && attempts < s.maxAttempts {
		attempts++
		metrics.SeedLinkBatches.Inc()

		batch := min(s.chunkSize, remaining-created+100)

		ib := database.NewInsertBuilder()
		ib.InsertInto("stylist_celebrity")
		ib.Cols("stylist_id", "celebrity_id", "notes")
		for i := 0; i < batch; i++ {
			noteNumber++
			ib.Values(
				stylistIDs[s.rng.Intn(len(stylistIDs))],
				celebrityIDs[s.rng.Intn(len(celebrityIDs))],
				fmt.Sprintf("Sample collaboration %d", noteNumber),
			)
		}
		ib.OnConflictDoNothing()

		query, args := ib.Build()
		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Failed to seed links")
			return created, attempts, httperror.WrapError(http.StatusInternalServerError, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return created, attempts, httperror.WrapError(http.StatusInternalServerError, err)
		}

		created += int(rows)
		metrics.SeededRows.WithLabelValues("links").Add(float64(rows))
	}

	if created < remaining {
		s.logger.WithContext(ctx).Warnf("Link seeding stopped after %d attempts with %d of %d links created", attempts, created, remaining)
	}

	return created, attempts, nil
}

func (s *Seeder) tableCount(ctx context.Context, table string) (int, error) {
	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(table)

	query, args := sb.Build()

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		s.logger.WithContext(ctx).WithError(err).Errorf("Failed to count rows in %s", table)
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return count, nil
}

func (s *Seeder) tableIDs(ctx context.Context, table string) ([]int64, error) {
	sb := database.NewSelectBuilder()
	sb.Select("id")
	sb.From(table)

	query, args := sb.Build()

	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, query, args...); err != nil {
		s.logger.WithContext(ctx).WithError(err).Errorf("Failed to list ids in %s", table)
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return ids, nil
}
