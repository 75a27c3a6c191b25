package booking

import (
	"context"

	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

type StatusCount struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Hours  float64 `json:"hours"`
	Total  float64 `json:"total"`
}

type Repository interface {
	// -------- Booking (create / read) --------
	Create(
		ctx context.Context,
		b *models.Booking,
	) error

	GetByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// -------- Booking (state change) --------

	// UpdateStatusFrom grava status + campos de ciclo de vida apenas se o
	// status atual no banco ainda for `from` (escrita condicional; duas
	// transições concorrentes nunca vencem as duas)
	UpdateStatusFrom(
		ctx context.Context,
		b *models.Booking,
		from Status,
	) error

	UpdateNotes(
		ctx context.Context,
		id uint,
		familyID uint,
		notes string,
	) (*models.Booking, error)

	// -------- Listagens --------
	ListForFamily(
		ctx context.Context,
		familyID uint,
		f ListFilter,
	) ([]models.Booking, int64, error)

	ListForCaregiver(
		ctx context.Context,
		caregiverID uint,
		f ListFilter,
	) ([]models.Booking, int64, error)

	StatsByStatus(
		ctx context.Context,
		role string,
		userID uint,
	) ([]StatusCount, error)

	// -------- Colaboradores --------
	JobPostExists(
		ctx context.Context,
		id uint,
	) (bool, error)

	CaregiverExists(
		ctx context.Context,
		id uint,
	) (bool, error)
}
