package payments

import (
	"context"
	"strings"
	"time"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/payments"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

// ======================================================
// CONNECT ACCOUNT COORDINATOR
// ======================================================

// ConnectAccounts é o único escritor do estado da conta de repasse do
// cuidador. Poll (RefreshStatus) e webhook (account.updated) derivam o
// status pelos mesmos critérios.
type ConnectAccounts struct {
	repo        domain.Repository
	proc        domain.Processor
	audit       AuditSink
	frontendURL string
}

func NewConnectAccounts(
	repo domain.Repository,
	proc domain.Processor,
	audit AuditSink,
	frontendURL string,
) *ConnectAccounts {
	return &ConnectAccounts{
		repo:        repo,
		proc:        proc,
		audit:       audit,
		frontendURL: frontendURL,
	}
}

// CreateAccount abre a conta Express do cuidador no processador. Uma só
// por cuidador; exige perfil verificado.
func (uc *ConnectAccounts) CreateAccount(ctx context.Context, caregiverID uint) (*models.ConnectAccount, error) {
	cg, err := uc.repo.GetCaregiver(ctx, caregiverID)
	if err != nil {
		return nil, httperr.ErrBusiness("caregiver_not_found")
	}
	if cg.VerifiedStatus != models.VerifiedStatusVerified {
		return nil, httperr.ErrBusiness("not_verified")
	}
	if cg.ConnectAccount.AccountID != "" {
		return nil, httperr.ErrBusiness("account_exists")
	}

	first, last := splitName(cg.Name)
	accountID, err := uc.proc.CreateExpressAccount(ctx, domain.AccountInput{
		Email:     cg.Email,
		FirstName: first,
		LastName:  last,
		Phone:     cg.PhoneNo,
	})
	if err != nil {
		return nil, httperr.ErrBusiness("processor_unavailable")
	}

	now := time.Now()
	acct := models.ConnectAccount{
		AccountID:     accountID,
		AccountStatus: string(domain.AccountPending),
		LastUpdated:   &now,
	}
	if err := uc.repo.UpdateConnectAccount(ctx, caregiverID, acct); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     caregiverID,
		ActorTable:  "Care",
		Action:      "Created connect account",
		TargetTable: "Care",
		TargetID:    caregiverID,
	})

	return &acct, nil
}

// OnboardingLink devolve a URL de onboarding hospedada pelo processador
func (uc *ConnectAccounts) OnboardingLink(ctx context.Context, caregiverID uint) (string, error) {
	acct, err := uc.requireAccount(ctx, caregiverID)
	if err != nil {
		return "", err
	}

	url, err := uc.proc.AccountLink(ctx,
		acct.AccountID,
		uc.frontendURL+"/connect/refresh",
		uc.frontendURL+"/connect/return",
	)
	if err != nil {
		return "", httperr.ErrBusiness("processor_unavailable")
	}
	return url, nil
}

// DashboardLink devolve o login link do dashboard Express; só contas
// ativas têm dashboard
func (uc *ConnectAccounts) DashboardLink(ctx context.Context, caregiverID uint) (string, error) {
	acct, err := uc.requireAccount(ctx, caregiverID)
	if err != nil {
		return "", err
	}
	if acct.AccountStatus != string(domain.AccountActive) {
		return "", httperr.ErrBusiness("account_not_active")
	}

	url, err := uc.proc.LoginLink(ctx, acct.AccountID)
	if err != nil {
		return "", httperr.ErrBusiness("processor_unavailable")
	}
	return url, nil
}

// Balance consulta o saldo disponível/pendente da conta do cuidador
func (uc *ConnectAccounts) Balance(ctx context.Context, caregiverID uint) (*domain.Balance, error) {
	acct, err := uc.requireAccount(ctx, caregiverID)
	if err != nil {
		return nil, err
	}

	bal, err := uc.proc.RetrieveBalance(ctx, acct.AccountID)
	if err != nil {
		return nil, httperr.ErrBusiness("processor_unavailable")
	}
	return bal, nil
}

// RefreshStatus consulta as flags no processador e rederiva o status
// local. O webhook account.updated passa pelo mesmo applyFlags.
func (uc *ConnectAccounts) RefreshStatus(ctx context.Context, caregiverID uint) (*models.ConnectAccount, error) {
	acct, err := uc.requireAccount(ctx, caregiverID)
	if err != nil {
		return nil, err
	}

	flags, err := uc.proc.RetrieveAccount(ctx, acct.AccountID)
	if err != nil {
		return nil, httperr.ErrBusiness("processor_unavailable")
	}

	applyFlags(acct, flags)
	if err := uc.repo.UpdateConnectAccount(ctx, caregiverID, *acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (uc *ConnectAccounts) requireAccount(ctx context.Context, caregiverID uint) (*models.ConnectAccount, error) {
	cg, err := uc.repo.GetCaregiver(ctx, caregiverID)
	if err != nil {
		return nil, httperr.ErrBusiness("caregiver_not_found")
	}
	if cg.ConnectAccount.AccountID == "" {
		return nil, httperr.ErrBusiness("account_not_found")
	}
	acct := cg.ConnectAccount
	return &acct, nil
}

// applyFlags rederiva o status a partir das flags do processador; usado
// tanto pelo poll quanto pelo webhook
func applyFlags(acct *models.ConnectAccount, flags domain.AccountFlags) {
	status := domain.StatusFromFlags(flags)
	now := time.Now()

	acct.AccountStatus = string(status)
	acct.DetailsSubmitted = flags.DetailsSubmitted
	acct.ChargesEnabled = flags.ChargesEnabled
	acct.PayoutsEnabled = flags.PayoutsEnabled
	acct.LastUpdated = &now
	if status == domain.AccountActive {
		acct.OnboardingComplete = true
	}
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	last = strings.Join(parts[1:], " ")
	return first, last
}
