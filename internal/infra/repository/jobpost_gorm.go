package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/jobpost"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

type JobPostGormRepository struct {
	db *gorm.DB
}

func NewJobPostGormRepository(db *gorm.DB) *JobPostGormRepository {
	return &JobPostGormRepository{db: db}
}

// --------------------------------------------------
// JobPost (create / read)
// --------------------------------------------------

func (r *JobPostGormRepository) Create(
	ctx context.Context,
	jp *models.JobPost,
) error {
	return r.db.WithContext(ctx).Create(jp).Error
}

func (r *JobPostGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.JobPost, error) {

	var jp models.JobPost
	if err := r.db.WithContext(ctx).
		Preload("Applications").
		First(&jp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("job_post_not_found")
		}
		return nil, err
	}
	return &jp, nil
}

func (r *JobPostGormRepository) GetForFamily(
	ctx context.Context,
	id uint,
	familyID uint,
) (*models.JobPost, error) {

	var jp models.JobPost
	if err := r.db.WithContext(ctx).
		Preload("Applications").
		Preload("Applications.Caregiver").
		Where("id = ? AND family_id = ?", id, familyID).
		First(&jp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("job_post_not_found")
		}
		return nil, err
	}
	return &jp, nil
}

// --------------------------------------------------
// Applications
// --------------------------------------------------

func (r *JobPostGormRepository) HasApplication(
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

func (r *JobPostGormRepository) AppendApplication(
	ctx context.Context,
	app *models.Application,
) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// --------------------------------------------------
// Status / delete
// --------------------------------------------------

func (r *JobPostGormRepository) UpdateStatus(
	ctx context.Context,
	id uint,
	familyID uint,
	status string,
) (*models.JobPost, error) {

	res := r.db.WithContext(ctx).
		Model(&models.JobPost{}).
		Where("id = ? AND family_id = ?", id, familyID).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}

	return r.GetByID(ctx, id)
}

func (r *JobPostGormRepository) Delete(
	ctx context.Context,
	id uint,
	familyID uint,
) (*models.JobPost, error) {

	jp, err := r.GetForFamily(ctx, id, familyID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Select("Applications").
		Delete(jp).Error; err != nil {
		return nil, err
	}
	return jp, nil
}

// --------------------------------------------------
// Caregiver pool
// --------------------------------------------------

func (r *JobPostGormRepository) GetCaregiver(
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

// ListEligibleCaregivers filtra VERIFIED + background COMPLETED no banco;
// a interseção de skills é decidida em memória porque skills é uma coluna
// de texto serializada
func (r *JobPostGormRepository) ListEligibleCaregivers(
	ctx context.Context,
	required []string,
) ([]models.Caregiver, error) {

	var pool []models.Caregiver
	if err := r.db.WithContext(ctx).
		Where(
			"verified_status = ? AND background_check_status = ?",
			models.VerifiedStatusVerified,
			models.BackgroundCheckCompleted,
		).
		Find(&pool).Error; err != nil {
		return nil, err
	}

	eligible := make([]models.Caregiver, 0, len(pool))
	for _, cg := range pool {
		if domain.SkillsIntersect(cg.Skills, required) {
			eligible = append(eligible, cg)
		}
	}
	return eligible, nil
}

// Compile-time check
var _ domain.Repository = (*JobPostGormRepository)(nil)
