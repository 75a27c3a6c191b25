package payments

import (
	"context"

	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

type Stats struct {
	TotalPayments     int64   `json:"total_payments"`
	CompletedPayments int64   `json:"completed_payments"`
	PendingPayments   int64   `json:"pending_payments"`
	RejectedPayments  int64   `json:"rejected_payments"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalFees         float64 `json:"total_fees"`
}

type Repository interface {
	// -------- Payment (create / read) --------

	// ExistsForTriple cobre a unicidade (jobPost, caregiver, family) —
	// checada antes da criação
	ExistsForTriple(
		ctx context.Context,
		jobPostID uint,
		caregiverID uint,
		familyID uint,
	) (bool, error)

	Create(
		ctx context.Context,
		p *models.Payment,
	) error

	GetByIntentID(
		ctx context.Context,
		intentID string,
	) (*models.Payment, error)

	// -------- Reconciliação (cada método é idempotente) --------

	// MarkCompleted grava COMPLETED/PAID apenas se ainda não aplicado;
	// applied=false sinaliza replay (não notificar de novo)
	MarkCompleted(
		ctx context.Context,
		intentID string,
	) (p *models.Payment, applied bool, err error)

	MarkRejected(
		ctx context.Context,
		intentID string,
	) (applied bool, err error)

	// AttachTransfer anexa o transferId ao payment pendente mais recente
	// daquela conta de destino
	AttachTransfer(
		ctx context.Context,
		destinationAccount string,
		transferID string,
	) error

	MarkTransferFailed(
		ctx context.Context,
		transferID string,
		destinationAccount string,
	) error

	// -------- Listagens --------
	ListForFamily(
		ctx context.Context,
		familyID uint,
		f ListFilter,
	) ([]models.Payment, int64, error)

	ListForCaregiver(
		ctx context.Context,
		caregiverID uint,
		f ListFilter,
	) ([]models.Payment, int64, error)

	GetForUser(
		ctx context.Context,
		id uint,
		role string,
		userID uint,
	) (*models.Payment, error)

	GetStats(ctx context.Context) (*Stats, error)

	// -------- Colaboradores --------
	GetJobPostForFamily(
		ctx context.Context,
		jobPostID uint,
		familyID uint,
	) (*models.JobPost, error)

	HasApplication(
		ctx context.Context,
		jobPostID uint,
		caregiverID uint,
	) (bool, error)

	GetCaregiver(
		ctx context.Context,
		id uint,
	) (*models.Caregiver, error)

	FindCaregiverByAccountID(
		ctx context.Context,
		accountID string,
	) (*models.Caregiver, error)

	// UpdateConnectAccount persiste o estado da conta de repasse; só o
	// coordinator escreve aqui
	UpdateConnectAccount(
		ctx context.Context,
		caregiverID uint,
		acct models.ConnectAccount,
	) error
}
