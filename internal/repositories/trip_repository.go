package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "github.com/fedeciancaglini/trip-ai/internal/models/db_models"
)

// TripRepository scopes every query to the owning user. A trip that exists
// but belongs to someone else is indistinguishable from a missing one.
type TripRepository interface {
	Create(ctx context.Context, trip *dbm.SavedTrip) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]dbm.SavedTrip, int64, error)
	GetByID(ctx context.Context, userID, tripID uuid.UUID) (*dbm.SavedTrip, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) (bool, error)
	SetFavorite(ctx context.Context, userID, tripID uuid.UUID, favorite bool) (bool, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *dbm.SavedTrip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *tripRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]dbm.SavedTrip, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&dbm.SavedTrip{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trips []dbm.SavedTrip
	err := q.
		Select("id", "user_id", "destination", "start_date", "end_date", "budget_usd", "days_count", "is_favorite", "created_at", "updated_at").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *tripRepository) GetByID(ctx context.Context, userID, tripID uuid.UUID) (*dbm.SavedTrip, error) {
	var trip dbm.SavedTrip
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tripID, userID).
		First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) Delete(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tripID, userID).
		Delete(&dbm.SavedTrip{})
	return res.RowsAffected > 0, res.Error
}

// SetFavorite writes is_favorite only; the rest of a saved trip is immutable.
func (r *tripRepository) SetFavorite(ctx context.Context, userID, tripID uuid.UUID, favorite bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.SavedTrip{}).
		Where("id = ? AND user_id = ?", tripID, userID).
		Update("is_favorite", favorite)
	return res.RowsAffected > 0, res.Error
}
