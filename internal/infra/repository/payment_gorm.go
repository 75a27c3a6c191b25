package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/payments"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

// --------------------------------------------------
// Payment (create / read)
// --------------------------------------------------

func (r *PaymentGormRepository) ExistsForTriple(
	ctx context.Context,
	jobPostID uint,
	caregiverID uint,
	familyID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where(
			"job_post_id = ? AND caregiver_id = ? AND family_id = ?",
			jobPostID, caregiverID, familyID,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PaymentGormRepository) Create(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentGormRepository) GetByIntentID(
	ctx context.Context,
	intentID string,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("intent_id = ?", intentID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("payment_not_found")
		}
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Reconciliação (escritas condicionais)
// --------------------------------------------------

// MarkCompleted grava COMPLETED/PAID apenas se ainda não estiver; zero
// linhas afetadas com o payment existente significa replay (applied=false)
func (r *PaymentGormRepository) MarkCompleted(
	ctx context.Context,
	intentID string,
) (*models.Payment, bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("intent_id = ? AND payment_status <> ?", intentID, string(domain.PaymentCompleted)).
		Updates(map[string]interface{}{
			"payment_status":  string(domain.PaymentCompleted),
			"transfer_status": string(domain.TransferPaid),
		})
	if res.Error != nil {
		return nil, false, res.Error
	}

	p, err := r.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, false, err
	}
	return p, res.RowsAffected > 0, nil
}

func (r *PaymentGormRepository) MarkRejected(
	ctx context.Context,
	intentID string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("intent_id = ? AND payment_status = ?", intentID, string(domain.PaymentPending)).
		Update("payment_status", string(domain.PaymentRejected))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// distingue replay de intent desconhecido
		if _, err := r.GetByIntentID(ctx, intentID); err != nil {
			return false, err
		}
	}
	return res.RowsAffected > 0, nil
}

// AttachTransfer anexa o transferId ao payment pendente mais recente
// daquela conta de destino
func (r *PaymentGormRepository) AttachTransfer(
	ctx context.Context,
	destinationAccount string,
	transferID string,
) error {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("connect_account_id = ? AND (transfer_id = '' OR transfer_id IS NULL)", destinationAccount).
		Order("created_at DESC").
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("payment_not_found")
		}
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"transfer_id":     transferID,
			"transfer_status": string(domain.TransferPaid),
		}).Error
}

func (r *PaymentGormRepository) MarkTransferFailed(
	ctx context.Context,
	transferID string,
	destinationAccount string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("transfer_id = ?", transferID).
		Update("transfer_status", string(domain.TransferFailed))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// evento chegou antes do transfer.created; cai para a conta de destino
	res = r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where(
			"connect_account_id = ? AND transfer_status = ?",
			destinationAccount, string(domain.TransferPending),
		).
		Update("transfer_status", string(domain.TransferFailed))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("payment_not_found")
	}
	return nil
}

// --------------------------------------------------
// Listagens
// --------------------------------------------------

func (r *PaymentGormRepository) ListForFamily(
	ctx context.Context,
	familyID uint,
	f domain.ListFilter,
) ([]models.Payment, int64, error) {
	return r.list(ctx, "family_id", familyID, f)
}

func (r *PaymentGormRepository) ListForCaregiver(
	ctx context.Context,
	caregiverID uint,
	f domain.ListFilter,
) ([]models.Payment, int64, error) {
	return r.list(ctx, "caregiver_id", caregiverID, f)
}

func (r *PaymentGormRepository) list(
	ctx context.Context,
	column string,
	userID uint,
	f domain.ListFilter,
) ([]models.Payment, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where(column+" = ?", userID)

	if f.Status != "" {
		q = q.Where("payment_status = ?", f.Status)
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

	var payments []models.Payment
	if err := q.
		Preload("JobPost").
		Preload("Caregiver").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *PaymentGormRepository) GetForUser(
	ctx context.Context,
	id uint,
	role string,
	userID uint,
) (*models.Payment, error) {

	q := r.db.WithContext(ctx).
		Preload("JobPost").
		Preload("Caregiver").
		Preload("Family")

	switch role {
	case middleware.RoleFamily:
		q = q.Where("id = ? AND family_id = ?", id, userID)
	case middleware.RoleCaregiver:
		q = q.Where("id = ? AND caregiver_id = ?", id, userID)
	default:
		q = q.Where("id = ?", id)
	}

	var p models.Payment
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("payment_not_found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentGormRepository) GetStats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats

	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select(
			"COUNT(*) AS total_payments, "+
				"COUNT(*) FILTER (WHERE payment_status = ?) AS completed_payments, "+
				"COUNT(*) FILTER (WHERE payment_status = ?) AS pending_payments, "+
				"COUNT(*) FILTER (WHERE payment_status = ?) AS rejected_payments, "+
				"COALESCE(SUM(amount) FILTER (WHERE payment_status = ?), 0) AS total_revenue, "+
				"COALESCE(SUM(platform_fee) FILTER (WHERE payment_status = ?), 0) AS total_fees",
			string(domain.PaymentCompleted),
			string(domain.PaymentPending),
			string(domain.PaymentRejected),
			string(domain.PaymentCompleted),
			string(domain.PaymentCompleted),
		).
		Scan(&stats).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// --------------------------------------------------
// Colaboradores
// --------------------------------------------------

func (r *PaymentGormRepository) GetJobPostForFamily(
	ctx context.Context,
	jobPostID uint,
	familyID uint,
) (*models.JobPost, error) {

	var jp models.JobPost
	if err := r.db.WithContext(ctx).
		Where("id = ? AND family_id = ?", jobPostID, familyID).
		First(&jp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("job_post_not_found")
		}
		return nil, err
	}
	return &jp, nil
}

func (r *PaymentGormRepository) HasApplication(
	ctx context.Context,
	jobPostID uint,
	caregiverID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_post_id = ? AND caregiver_id = ?", jobPostID, caregiverID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PaymentGormRepository) GetCaregiver(
	ctx context.Context,
	id uint,
) (*models.Caregiver, error) {

	var cg models.Caregiver
	if err := r.db.WithContext(ctx).First(&cg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("caregiver_not_found")
		}
		return nil, err
	}
	return &cg, nil
}

func (r *PaymentGormRepository) FindCaregiverByAccountID(
	ctx context.Context,
	accountID string,
) (*models.Caregiver, error) {

	var cg models.Caregiver
	if err := r.db.WithContext(ctx).
		Where("connect_account_id = ?", accountID).
		First(&cg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("caregiver_not_found")
		}
		return nil, err
	}
	return &cg, nil
}

func (r *PaymentGormRepository) UpdateConnectAccount(
	ctx context.Context,
	caregiverID uint,
	acct models.ConnectAccount,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Caregiver{}).
		Where("id = ?", caregiverID).
		Updates(map[string]interface{}{
			"connect_account_id":          acct.AccountID,
			"connect_account_status":      acct.AccountStatus,
			"connect_onboarding_complete": acct.OnboardingComplete,
			"connect_details_submitted":   acct.DetailsSubmitted,
			"connect_charges_enabled":     acct.ChargesEnabled,
			"connect_payouts_enabled":     acct.PayoutsEnabled,
			"connect_last_updated":        acct.LastUpdated,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("caregiver_not_found")
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*PaymentGormRepository)(nil)
