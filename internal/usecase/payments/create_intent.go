package payments

import (
	"context"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/payments"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

// ======================================================
// CREATE PAYMENT INTENT
// ======================================================

type CreateIntentInput struct {
	JobPostID   uint
	CaregiverID uint
}

// O clientSecret volta para o frontend concluir a cobrança; a chave
// secreta do processador nunca sai daqui
type CreateIntentResult struct {
	Payment      *models.Payment `json:"payment"`
	ClientSecret string          `json:"client_secret"`
}

type CreateIntent struct {
	repo  domain.Repository
	proc  domain.Processor
	audit AuditSink
}

func NewCreateIntent(
	repo domain.Repository,
	proc domain.Processor,
	audit AuditSink,
) *CreateIntent {
	return &CreateIntent{
		repo:  repo,
		proc:  proc,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateIntent) Execute(
	ctx context.Context,
	familyID uint,
	in CreateIntentInput,
) (*CreateIntentResult, error) {

	jp, err := uc.repo.GetJobPostForFamily(ctx, in.JobPostID, familyID)
	if err != nil {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}

	applied, err := uc.repo.HasApplication(ctx, in.JobPostID, in.CaregiverID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, httperr.ErrBusinessMsg("did_not_apply", "caregiver has not applied to this job post")
	}

	cg, err := uc.repo.GetCaregiver(ctx, in.CaregiverID)
	if err != nil {
		return nil, httperr.ErrBusiness("caregiver_not_found")
	}

	acct := cg.ConnectAccount
	if !domain.CanReceivePayments(domain.AccountStatus(acct.AccountStatus), acct.ChargesEnabled, acct.PayoutsEnabled) {
		return nil, httperr.ErrBusinessMsg("account_not_active", "caregiver cannot receive payments yet")
	}

	dup, err := uc.repo.ExistsForTriple(ctx, in.JobPostID, in.CaregiverID, familyID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, httperr.ErrBusiness("duplicate_payment")
	}

	// o salário do post é o valor total combinado, não uma taxa horária
	gross := math.Round(jp.Salary*100) / 100
	fee, net := domain.Split(gross)

	res, err := uc.proc.CreateDestinationIntent(ctx, domain.IntentInput{
		Amount:             gross,
		ApplicationFee:     fee,
		DestinationAccount: acct.AccountID,
		IdempotencyKey:     uuid.NewString(),
		Metadata: map[string]string{
			"job_post_id":  strconv.FormatUint(uint64(in.JobPostID), 10),
			"family_id":    strconv.FormatUint(uint64(familyID), 10),
			"caregiver_id": strconv.FormatUint(uint64(in.CaregiverID), 10),
		},
	})
	if err != nil {
		return nil, httperr.ErrBusiness("processor_unavailable")
	}

	p := &models.Payment{
		Amount:           gross,
		IntentID:         res.IntentID,
		PaymentStatus:    string(domain.PaymentPending),
		FamilyID:         familyID,
		CaregiverID:      in.CaregiverID,
		JobPostID:        in.JobPostID,
		ConnectAccountID: acct.AccountID,
		TransferStatus:   string(domain.TransferPending),
		PlatformFee:      fee,
		NetAmount:        net,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     familyID,
		ActorTable:  "Family",
		Action:      "Created payment intent",
		TargetTable: "Payment",
		TargetID:    p.ID,
	})

	return &CreateIntentResult{
		Payment:      p,
		ClientSecret: res.ClientSecret,
	}, nil
}
