package repositories

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"
)

// CelebrityRepository provides access to celebrities and their stylist links
type CelebrityRepository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewCelebrityRepository(db database.DB, logger ectologger.Logger) *CelebrityRepository {
	return &CelebrityRepository{
		db:     db,
		logger: logger,
	}
}

// List returns one page of celebrity summaries plus pagination metadata
func (r *CelebrityRepository) List(ctx context.Context, params ListCelebritiesParams) (*models.CelebrityListResult, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.List")
	defer span.End()
	defer metrics.ObserveQuery("celebrities", "list", time.Now())

	params.normalize()

	countBuilder := database.NewSelectBuilder()
	countBuilder.Select("COUNT(DISTINCT c.id)")
	countBuilder.From("celebrities c")
	applyCelebrityFilters(countBuilder.SelectBuilder, params)

	countQuery, countArgs := countBuilder.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count celebrities")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	items := []models.CelebritySummary{}
	if total > 0 {
		sb := database.NewSelectBuilder()
		sb.Select(
			"c.id",
			"c.full_name",
			"c.industry",
			"c.updated_at",
			"COUNT(DISTINCT l.stylist_id) AS stylist_count",
		)
		sb.From("celebrities c")
		sb.JoinWithOption(sqlbuilder.LeftJoin, "stylist_celebrity l", "l.celebrity_id = c.id")
		applyCelebrityFilters(sb.SelectBuilder, params)
		sb.GroupBy("c.id")

		column, desc := resolveSort(celebritySortColumns, params.SortBy, params.SortOrder)
		sb.OrderBy(column)
		if desc {
			sb.Desc()
		} else {
			sb.Asc()
		}
		sb.Limit(params.PerPage)
		sb.Offset((params.Page - 1) * params.PerPage)

		query, args := sb.Build()
		if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("Failed to list celebrities")
			return nil, httperror.WrapError(http.StatusInternalServerError, err)
		}
	}

	return &models.CelebrityListResult{
		Items: items,
		Meta:  models.NewListMeta(params.Page, params.PerPage, total),
	}, nil
}

func applyCelebrityFilters(sb *sqlbuilder.SelectBuilder, params ListCelebritiesParams) {
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + database.EscapeLike(strings.ToLower(search)) + "%"
		sb.Where(sb.Like("LOWER(c.full_name)", pattern))
	}

	if params.CelebrityID != nil {
		sb.Where(sb.Equal("c.id", *params.CelebrityID))
	}

	if industry := strings.TrimSpace(params.Industry); industry != "" {
		sb.Where(sb.Equal("c.industry", industry))
	}
}

// Get returns the full celebrity record with its linked stylists.
// Returns (nil, nil) when the celebrity does not exist.
func (r *CelebrityRepository) Get(ctx context.Context, id int64) (*models.CelebrityDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.Get")
	defer span.End()
	defer metrics.ObserveQuery("celebrities", "get", time.Now())

	sb := database.NewStruct(new(models.Celebrity)).SelectFrom("celebrities")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var celebrity models.Celebrity
	if err := r.db.GetContext(ctx, &celebrity, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("celebrity_id", id).Error("Failed to get celebrity")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	stylists, err := r.listLinkedStylists(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.CelebrityDetail{
		Celebrity: celebrity,
		Stylists:  stylists,
	}, nil
}

func (r *CelebrityRepository) listLinkedStylists(ctx context.Context, celebrityID int64) ([]models.LinkedStylist, error) {
	sb := database.NewSelectBuilder()
	sb.Select("s.id", "s.full_name", "s.email", "s.phone", "l.notes")
	sb.From("stylist_celebrity l")
	sb.JoinWithOption(sqlbuilder.InnerJoin, "stylists s", "s.id = l.stylist_id")
	sb.Where(sb.Equal("l.celebrity_id", celebrityID))
	sb.OrderBy("s.full_name").Asc()

	query, args := sb.Build()

	stylists := []models.LinkedStylist{}
	if err := r.db.SelectContext(ctx, &stylists, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("celebrity_id", celebrityID).Error("Failed to list linked stylists")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return stylists, nil
}

// Update applies the non-nil fields of req to the celebrity and stamps
// updated_at. An empty field set is rejected. Returns false when no celebrity
// matched the id.
func (r *CelebrityRepository) Update(ctx context.Context, id int64, req models.UpdateCelebrityRequest) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.Update")
	defer span.End()
	defer metrics.ObserveQuery("celebrities", "update", time.Now())

	if req.IsEmpty() {
		return false, httperror.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	ub := database.NewUpdateBuilder()
	ub.Update("celebrities")

	assignments := []string{}
	if req.FullName != nil {
		assignments = append(assignments, ub.Assign("full_name", *req.FullName))
	}
	if req.Industry != nil {
		assignments = append(assignments, ub.Assign("industry", *req.Industry))
	}
	assignments = append(assignments, ub.Assign("updated_at", time.Now().UTC()))

	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("celebrity_id", id).Error("Failed to update celebrity")
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return rows > 0, nil
}

// Exists reports whether a celebrity with the given id exists
func (r *CelebrityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.Exists")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("1")
	sb.From("celebrities")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("celebrity_id", id).Error("Failed to check celebrity existence")
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return true, nil
}

// Options returns (id, full_name) pairs ordered by name for selection
// widgets. The limit is clamped to [1, 1000] and defaults to 200.
func (r *CelebrityRepository) Options(ctx context.Context, limit int) ([]models.CelebrityOption, error) {
	ctx, span := tracing.StartSpan(ctx, "CelebrityRepository.Options")
	defer span.End()
	defer metrics.ObserveQuery("celebrities", "options", time.Now())

	if limit <= 0 {
		limit = DefaultOptionsLimit
	}
	if limit > MaxOptionsLimit {
		limit = MaxOptionsLimit
	}

	sb := database.NewSelectBuilder()
	sb.Select("id", "full_name")
	sb.From("celebrities")
	sb.OrderBy("full_name").Asc()
	sb.Limit(limit)

	query, args := sb.Build()

	options := []models.CelebrityOption{}
	if err := r.db.SelectContext(ctx, &options, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list celebrity options")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return options, nil
}
