package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/booking"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Booking (create / read)
// --------------------------------------------------

func (r *BookingGormRepository) Create(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

// UpdateStatusFrom só grava se o status no banco ainda for `from`; zero
// linhas afetadas significa que outra transição venceu
func (r *BookingGormRepository) UpdateStatusFrom(
	ctx context.Context,
	b *models.Booking,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(from)).
		Updates(map[string]interface{}{
			"status":                 b.Status,
			"payment_status":         b.PaymentStatus,
			"caregiver_acknowledged": b.CaregiverAcknowledged,
			"family_acknowledged":    b.FamilyAcknowledged,
			"accepted_at":            b.AcceptedAt,
			"started_at":             b.StartedAt,
			"completed_at":           b.CompletedAt,
			"canceled_at":            b.CanceledAt,
			"canceled_by_role":       b.CanceledByRole,
			"rejection_reason":       b.RejectionReason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusinessMsg("invalid_state", "booking was changed by a concurrent request")
	}
	return nil
}

func (r *BookingGormRepository) UpdateNotes(
	ctx context.Context,
	id uint,
	familyID uint,
	notes string,
) (*models.Booking, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND family_id = ?", id, familyID).
		Update("notes", notes)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	return r.GetByID(ctx, id)
}

// --------------------------------------------------
// Listagens
// --------------------------------------------------

func (r *BookingGormRepository) ListForFamily(
	ctx context.Context,
	familyID uint,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {
	return r.list(ctx, "family_id", familyID, f)
}

func (r *BookingGormRepository) ListForCaregiver(
	ctx context.Context,
	caregiverID uint,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {
	return r.list(ctx, "caregiver_id", caregiverID, f)
}

func (r *BookingGormRepository) list(
	ctx context.Context,
	column string,
	userID uint,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(column+" = ?", userID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var bookings []models.Booking
	if err := q.
		Preload("Family").
		Preload("Caregiver").
		Order("schedule_date DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *BookingGormRepository) StatsByStatus(
	ctx context.Context,
	role string,
	userID uint,
) ([]domain.StatusCount, error) {

	column := "family_id"
	if role == domain.RoleCaregiver {
		column = "caregiver_id"
	}

	var stats []domain.StatusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(duration_hours), 0) AS hours, COALESCE(SUM(total_amount), 0) AS total").
		Where(column+" = ?", userID).
		Group("status").
		Scan(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// --------------------------------------------------
// Colaboradores
// --------------------------------------------------

func (r *BookingGormRepository) JobPostExists(
	ctx context.Context,
	id uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JobPost{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingGormRepository) CaregiverExists(
	ctx context.Context,
	id uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Caregiver{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
