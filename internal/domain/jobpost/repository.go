package jobpost

import (
	"context"

	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

type ListFilter struct {
	Status   string
	Location string
	Skills   []string
	DateFrom string
	DateTo   string
	Page     int
	Limit    int
}

type Repository interface {
	Create(
		ctx context.Context,
		jp *models.JobPost,
	) error

	GetByID(
		ctx context.Context,
		id uint,
	) (*models.JobPost, error)

	GetForFamily(
		ctx context.Context,
		id uint,
		familyID uint,
	) (*models.JobPost, error)

	// -------- Applications (filhos, no máximo uma por cuidador) --------
	HasApplication(
		ctx context.Context,
		jobPostID uint,
		caregiverID uint,
	) (bool, error)

	AppendApplication(
		ctx context.Context,
		app *models.Application,
	) error

	// -------- Status / delete --------
	UpdateStatus(
		ctx context.Context,
		id uint,
		familyID uint,
		status string,
	) (*models.JobPost, error)

	Delete(
		ctx context.Context,
		id uint,
		familyID uint,
	) (*models.JobPost, error)

	// -------- Caregiver pool --------
	GetCaregiver(
		ctx context.Context,
		id uint,
	) (*models.Caregiver, error)

	// ListEligibleCaregivers devolve VERIFIED + background COMPLETED com
	// interseção de skills
	ListEligibleCaregivers(
		ctx context.Context,
		required []string,
	) ([]models.Caregiver, error)
}
