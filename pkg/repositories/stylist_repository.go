package repositories

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
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

// StylistRepository provides access to stylists, their celebrity links and
// their rep contacts.
type StylistRepository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewStylistRepository(db database.DB, logger ectologger.Logger) *StylistRepository {
	return &StylistRepository{
		db:     db,
		logger: logger,
	}
}

// List returns one page of stylist summaries plus pagination metadata. The
// count query and the page query share the same joins and filters so the
// total always matches the rows.
func (r *StylistRepository) List(ctx context.Context, params ListStylistsParams) (*models.StylistListResult, error) {
	ctx, span := tracing.StartSpan(ctx, "StylistRepository.List")
	defer span.End()
	defer metrics.ObserveQuery("stylists", "list", time.Now())

	params.normalize()

	countBuilder := database.NewSelectBuilder()
	countBuilder.Select("COUNT(DISTINCT s.id)")
	countBuilder.From("stylists s")
	applyStylistFilters(countBuilder.SelectBuilder, params)

	countQuery, countArgs := countBuilder.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count stylists")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	items := []models.StylistSummary{}
	if total > 0 {
		sb := database.NewSelectBuilder()
		sb.Select(
			"s.id",
			"s.full_name",
			"s.email",
			"s.phone",
			"s.updated_at",
			"COUNT(DISTINCT l.celebrity_id) AS celebrity_count",
		)
		sb.From("stylists s")
		sb.JoinWithOption(sqlbuilder.LeftJoin, "stylist_celebrity l", "l.stylist_id = s.id")
		applyStylistFilters(sb.SelectBuilder, params)
		sb.GroupBy("s.id")

		column, desc := resolveSort(stylistSortColumns, params.SortBy, params.SortOrder)
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
			r.logger.WithContext(ctx).WithError(err).Error("Failed to list stylists")
			return nil, httperror.WrapError(http.StatusInternalServerError, err)
		}
	}

	return &models.StylistListResult{
		Items: items,
		Meta:  models.NewListMeta(params.Page, params.PerPage, total),
	}, nil
}

// applyStylistFilters adds the shared joins and conditions for stylist
// listings. The celebrity filter joins under its own aliases so it never
// collides with the aggregate join.
func applyStylistFilters(sb *sqlbuilder.SelectBuilder, params ListStylistsParams) {
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + database.EscapeLike(strings.ToLower(search)) + "%"
		sb.Where(sb.Like("LOWER(s.full_name)", pattern))
	}

	if params.StylistID != nil {
		sb.Where(sb.Equal("s.id", *params.StylistID))
	}

	if filter := strings.TrimSpace(params.CelebrityFilter); filter != "" {
		if celebrityID, err := strconv.ParseInt(filter, 10, 64); err == nil {
			sb.JoinWithOption(sqlbuilder.InnerJoin, "stylist_celebrity fl", "fl.stylist_id = s.id")
			sb.Where(sb.Equal("fl.celebrity_id", celebrityID))
		} else {
			pattern := "%" + database.EscapeLike(strings.ToLower(filter)) + "%"
			sb.JoinWithOption(sqlbuilder.InnerJoin, "stylist_celebrity fl", "fl.stylist_id = s.id")
			sb.JoinWithOption(sqlbuilder.InnerJoin, "celebrities fc", "fc.id = fl.celebrity_id")
			sb.Where(sb.Like("LOWER(fc.full_name)", pattern))
		}
	}
}

// Get returns the full stylist record with its reps and attached celebrities.
// Returns (nil, nil) when the stylist does not exist.
func (r *StylistRepository) Get(ctx context.Context, id int64) (*models.StylistDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "StylistRepository.Get")
	defer span.End()
	defer metrics.ObserveQuery("stylists", "get", time.Now())

	sb := database.NewStruct(new(models.Stylist)).SelectFrom("stylists")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var stylist models.Stylist
	if err := r.db.GetContext(ctx, &stylist, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("stylist_id", id).Error("Failed to get stylist")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	reps, err := r.listReps(ctx, id)
	if err != nil {
		return nil, err
	}

	celebrities, err := r.listAttachedCelebrities(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.StylistDetail{
		Stylist:     stylist,
		Reps:        reps,
		Celebrities: celebrities,
	}, nil
}

func (r *StylistRepository) listReps(ctx context.Context, stylistID int64) ([]models.Rep, error) {
	sb := database.NewStruct(new(models.Rep)).SelectFrom("stylist_reps")
	sb.Where(sb.Equal("stylist_id", stylistID))
	sb.OrderBy("rep_name").Asc()

	query, args := sb.Build()

	reps := []models.Rep{}
	if err := r.db.SelectContext(ctx, &reps, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("stylist_id", stylistID).Error("Failed to list stylist reps")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return reps, nil
}

func (r *StylistRepository) listAttachedCelebrities(ctx context.Context, stylistID int64) ([]models.LinkedCelebrity, error) {
	sb := database.NewSelectBuilder()
	sb.Select("c.id", "c.full_name", "c.industry", "l.notes")
	sb.From("stylist_celebrity l")
	sb.JoinWithOption(sqlbuilder.InnerJoin, "celebrities c", "c.id = l.celebrity_id")
	sb.Where(sb.Equal("l.stylist_id", stylistID))
	sb.OrderBy("c.full_name").Asc()

	query, args := sb.Build()

	celebrities := []models.LinkedCelebrity{}
	if err := r.db.SelectContext(ctx, &celebrities, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("stylist_id", stylistID).Error("Failed to list attached celebrities")
		return nil, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return celebrities, nil
}

// Create inserts a new stylist and returns its id
func (r *StylistRepository) Create(ctx context.Context, req models.CreateStylistRequest) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "StylistRepository.Create")
	defer span.End()
	defer metrics.ObserveQuery("stylists", "create", time.Now())

	now := time.Now().UTC()

	ib := database.NewInsertBuilder()
	ib.InsertInto("stylists")
	ib.Cols("full_name", "email", "phone", "instagram", "website", "created_at", "updated_at")
	ib.Values(req.FullName, req.Email, req.Phone, req.Instagram, req.Website, now, now)
	ib.Returning("id")

	query, args := ib.Build()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create stylist")
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return id, nil
}

// Update applies the non-nil fields of req to the stylist and stamps
// updated_at. An empty field set is rejected. Returns false when no stylist
// matched the id.
func (r *StylistRepository) Update(ctx context.Context, id int64, req models.UpdateStylistRequest) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "StylistRepository.Update")
	defer span.End()
	defer metrics.ObserveQuery("stylists", "update", time.Now())

	if req.IsEmpty() {
		return false, httperror.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	ub := database.NewUpdateBuilder()
	ub.Update("stylists")

	assignments := []string{}
	if req.FullName != nil {
		assignments = append(assignments, ub.Assign("full_name", *req.FullName))
	}
	if req.Email != nil {
		assignments = append(assignments, ub.Assign("email", *req.Email))
	}
	if req.Phone != nil {
		assignments = append(assignments, ub.Assign("phone", *req.Phone))
	}
	if req.Instagram != nil {
		assignments = append(assignments, ub.Assign("instagram", *req.Instagram))
	}
	if req.Website != nil {
		assignments = append(assignments, ub.Assign("website", *req.Website))
	}
	assignments = append(assignments, ub.Assign("updated_at", time.Now().UTC()))

	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("stylist_id", id).Error("Failed to update stylist")
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return rows > 0, nil
}

// Exists reports whether a stylist with the given id exists
func (r *StylistRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "StylistRepository.Exists")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("1")
	sb.From("stylists")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("stylist_id", id).Error("Failed to check stylist existence")
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return true, nil
}

// AttachCelebrity links a celebrity to a stylist and returns the resolved
// celebrity id. The celebrity is resolved by id, or by exact name with
// find-or-create. Attaching an already linked pair is a no-op success.
func (r *StylistRepository) AttachCelebrity(ctx context.Context, stylistID int64, req models.AttachCelebrityRequest) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "StylistRepository.AttachCelebrity")
	defer span.End()
	defer metrics.ObserveQuery("stylists", "attach_celebrity", time.Now())

	name := ""
	if req.CelebrityName != nil {
		name = strings.TrimSpace(*req.CelebrityName)
	}
	if req.CelebrityID == nil && name == "" {
		return 0, httperror.NewHTTPError(http.StatusBadRequest, "celebrity_id or celebrity_name is required")
	}

	txCtx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var celebrityID int64
	if req.CelebrityID != nil {
		celebrityID = *req.CelebrityID

		sb := database.NewSelectBuilder()
		sb.Select("id")
		sb.From("celebrities")
		sb.Where(sb.Equal("id", celebrityID))

		query, args := sb.Build()
		if err := tx.GetContext(txCtx, &celebrityID, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, httperror.NewHTTPErrorf(http.StatusNotFound, "celebrity %d not found", *req.CelebrityID)
			}
			r.logger.WithContext(ctx).WithError(err).Error("Failed to resolve celebrity by id")
			return 0, httperror.WrapError(http.StatusInternalServerError, err)
		}
	} else {
		celebrityID, err = r.findOrCreateCelebrity(txCtx, tx, name)
		if err != nil {
			return 0, err
		}
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto("stylist_celebrity")
	ib.Cols("stylist_id", "celebrity_id", "notes")
	ib.Values(stylistID, celebrityID, req.Notes)
	ib.OnConflictDoNothing()

	query, args := ib.Build()
	if _, err := tx.ExecContext(txCtx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("stylist_id", stylistID).Error("Failed to attach celebrity")
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return celebrityID, nil
}

// findOrCreateCelebrity resolves a celebrity by exact name, creating it with
// a NULL industry when absent. Names are not unique so a concurrent create
// with the same name can still produce a second row.
func (r *StylistRepository) findOrCreateCelebrity(ctx context.Context, tx database.Tx, name string) (int64, error) {
	sb := database.NewSelectBuilder()
	sb.Select("id")
	sb.From("celebrities")
	sb.Where(sb.Equal("full_name", name))
	sb.OrderBy("id").Asc()
	sb.Limit(1)

	query, args := sb.Build()

	var celebrityID int64
	err := tx.GetContext(ctx, &celebrityID, query, args...)
	if err == nil {
		return celebrityID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to resolve celebrity by name")
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	now := time.Now().UTC()

	ib := database.NewInsertBuilder()
	ib.InsertInto("celebrities")
	ib.Cols("full_name", "industry", "created_at", "updated_at")
	ib.Values(name, nil, now, now)
	ib.Returning("id")

	query, args = ib.Build()
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&celebrityID); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create celebrity")
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return celebrityID, nil
}

// DetachCelebrity removes the link between a stylist and a celebrity.
// Returns true iff a link row was deleted.
func (r *StylistRepository) DetachCelebrity(ctx context.Context, stylistID, celebrityID int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "StylistRepository.DetachCelebrity")
	defer span.End()
	defer metrics.ObserveQuery("stylists", "detach_celebrity", time.Now())

	delb := database.NewDeleteBuilder()
	delb.DeleteFrom("stylist_celebrity")
	delb.Where(
		delb.Equal("stylist_id", stylistID),
		delb.Equal("celebrity_id", celebrityID),
	)

	query, args := delb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("stylist_id", stylistID).Error("Failed to detach celebrity")
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return rows > 0, nil
}
