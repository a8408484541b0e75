package repositories

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/metrics"
	"github.com/Ramsey-B/dahlia/pkg/models"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
)

// RepRepository manages rep contacts owned by stylists
type RepRepository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepRepository(db database.DB, logger ectologger.Logger) *RepRepository {
	return &RepRepository{
		db:     db,
		logger: logger,
	}
}

// Add inserts a rep contact for the stylist and returns its id
func (r *RepRepository) Add(ctx context.Context, stylistID int64, req models.CreateRepRequest) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "RepRepository.Add")
	defer span.End()
	defer metrics.ObserveQuery("reps", "add", time.Now())

	now := time.Now().UTC()

	ib := database.NewInsertBuilder()
	ib.InsertInto("stylist_reps")
	ib.Cols("stylist_id", "rep_name", "company", "rep_email", "rep_phone", "territory", "created_at", "updated_at")
	ib.Values(stylistID, req.RepName, req.Company, req.RepEmail, req.RepPhone, req.Territory, now, now)
	ib.Returning("id")

	query, args := ib.Build()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("stylist_id", stylistID).Error("Failed to add rep")
		return 0, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return id, nil
}

// Delete removes a rep contact. Returns true iff a row was deleted.
func (r *RepRepository) Delete(ctx context.Context, repID int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "RepRepository.Delete")
	defer span.End()
	defer metrics.ObserveQuery("reps", "delete", time.Now())

	delb := database.NewDeleteBuilder()
	delb.DeleteFrom("stylist_reps")
	delb.Where(delb.Equal("id", repID))

	query, args := delb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("rep_id", repID).Error("Failed to delete rep")
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, httperror.WrapError(http.StatusInternalServerError, err)
	}

	return rows > 0, nil
}
